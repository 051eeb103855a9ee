package vector

import "fmt"

// DimensionError indicates stored embeddings disagree on dimensionality.
type DimensionError struct {
	Want  int
	Got   int
	DocID string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector: embedding dimension mismatch for %s: want %d, got %d", e.DocID, e.Want, e.Got)
}
