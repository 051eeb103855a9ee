package embedding

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout indicates the embedding provider did not answer within the
// configured deadline. Callers degrade to lexical-only scoring rather than
// failing the request.
var ErrTimeout = errors.New("embedding: provider timed out")

// Timeout wraps an Embedder with a per-call deadline. Deadline expiry is
// reported as ErrTimeout; caller cancellation passes through unchanged.
type Timeout struct {
	inner   Embedder
	timeout time.Duration
}

// WithTimeout wraps inner with a per-call deadline. A non-positive timeout
// returns inner unchanged.
func WithTimeout(inner Embedder, timeout time.Duration) Embedder {
	if timeout <= 0 {
		return inner
	}
	return &Timeout{inner: inner, timeout: timeout}
}

// Embed implements Embedder.
func (t *Timeout) Embed(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	vec, err := t.inner.Embed(callCtx, text)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrTimeout
		}
		return nil, err
	}
	return vec, nil
}

// Dimensions implements Embedder.
func (t *Timeout) Dimensions() int {
	return t.inner.Dimensions()
}
