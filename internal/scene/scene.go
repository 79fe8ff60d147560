package scene

import (
	"context"

	"github.com/san-kum/vgsales/internal/dom"
)

// RenderFunc draws a scene into the content element. The element is empty
// when the function is called.
type RenderFunc func(ctx context.Context, content *dom.Element) error

// Scene is one step of the story.
type Scene struct {
	Title     string
	Narrative string // markdown shown next to the chart
	Render    RenderFunc
	Filter    Filter // nil when the scene has no filter control
}

// Option is one entry of a filter control.
type Option struct {
	Value string
	Label string
}

// Filter is a single-selection control attached to a scene.
type Filter interface {
	Options() []Option
	Selected() string
	Select(ctx context.Context, value string) error
}

// FilterState is a read-only copy of a filter for frontends.
type FilterState struct {
	Options  []Option `json:"options"`
	Selected string   `json:"selected"`
}

// Snapshot is a consistent view of the navigator for frontends.
type Snapshot struct {
	Index     int          `json:"index"`
	Count     int          `json:"count"`
	Title     string       `json:"title"`
	Narrative string       `json:"narrative,omitempty"`
	Markup    string       `json:"markup"`
	Filter    *FilterState `json:"filter,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// First reports whether the snapshot shows the first scene.
func (s Snapshot) First() bool { return s.Index == 0 }

// Last reports whether the snapshot shows the last scene.
func (s Snapshot) Last() bool { return s.Index >= s.Count-1 }
