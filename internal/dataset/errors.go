package dataset

import (
	"errors"
	"fmt"
)

// Load failure kinds.
var (
	// ErrNotFound indicates the resource does not exist (missing file or HTTP 404).
	ErrNotFound = errors.New("dataset: resource not found")

	// ErrFetch indicates a transport failure or an unexpected HTTP status.
	ErrFetch = errors.New("dataset: fetch failed")

	// ErrParse indicates the resource is not valid comma-separated data.
	ErrParse = errors.New("dataset: parse failed")
)

// LoadError wraps a load failure with the resource that caused it.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
