package query

import "errors"

// ErrEmptyQuery indicates neither lexical terms nor embedding input could be
// derived; the caller must supply at least one signal.
var ErrEmptyQuery = errors.New("query: no usable signal in profile or query string")
