package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrNoScenes indicates a navigator was built without scenes.
	ErrNoScenes = errors.New("scene: no scenes to navigate")

	// ErrNoFilter indicates the current scene has no filter control.
	ErrNoFilter = errors.New("scene: current scene has no filter")

	// ErrUnknownOption indicates a filter value that is not offered.
	ErrUnknownOption = errors.New("scene: unknown filter option")

	// ErrNotMounted indicates a filter used before its scene was drawn.
	ErrNotMounted = errors.New("scene: filter is not mounted")
)

// RenderError wraps a renderer failure with the scene it happened in.
type RenderError struct {
	Index int
	Title string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render scene %d (%s): %v", e.Index+1, e.Title, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
