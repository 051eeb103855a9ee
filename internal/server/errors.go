package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/job-portal/internal/engine"
)

// ErrJobNotFound indicates no job matches the requested ID
type ErrJobNotFound struct {
	JobID string
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.JobID)
}

// ErrProfileNotFound indicates the seeker has no stored profile
type ErrProfileNotFound struct {
	UserID string
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("seeker profile not found: %s", e.UserID)
}

// ErrEmailAlreadyExists indicates a registration with a taken email
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates a failed login. The message is
// deliberately generic.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrProfileRequired):
		return http.StatusBadRequest
	}

	switch err.(type) {
	case *ErrJobNotFound, *ErrProfileNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
