package lexical

import "errors"

// ErrEmptyCorpus indicates an index build was attempted over zero documents.
var ErrEmptyCorpus = errors.New("lexical: cannot index empty corpus")
