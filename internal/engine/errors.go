package engine

import "errors"

// Sentinel errors returned by ranking operations.
var (
	// ErrNotReady means no snapshot has been built yet.
	ErrNotReady = errors.New("engine: index not built")

	// ErrEmptyCatalog means a reindex was attempted with no active jobs.
	ErrEmptyCatalog = errors.New("engine: no active jobs to index")

	// ErrProfileRequired means a recommendation request arrived with no
	// usable profile signal and no query text.
	ErrProfileRequired = errors.New("engine: seeker profile has no usable signal")
)
