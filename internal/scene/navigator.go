package scene

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/vgsales/internal/dom"
)

// Observer is notified of render passes and filter changes.
type Observer interface {
	SceneRendered(index int, title string, elapsed time.Duration, err error)
	FilterChanged(value string)
}

// Navigator holds the current scene index and the host it renders into.
type Navigator struct {
	mu       sync.Mutex
	scenes   []Scene
	index    int
	host     *dom.Host
	logger   *zap.Logger
	observer Observer
	lastErr  error
	rendered bool
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithLogger sets the navigator's logger.
func WithLogger(logger *zap.Logger) NavigatorOption {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithObserver registers an observer.
func WithObserver(o Observer) NavigatorOption {
	return func(n *Navigator) { n.observer = o }
}

// NewNavigator creates a navigator positioned on the first scene. Nothing is
// drawn until RenderCurrent is called.
func NewNavigator(scenes []Scene, host *dom.Host, opts ...NavigatorOption) (*Navigator, error) {
	if len(scenes) == 0 {
		return nil, ErrNoScenes
	}
	if host == nil {
		host = dom.NewHost()
	}
	n := &Navigator{
		scenes: append([]Scene(nil), scenes...),
		host:   host,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Index returns the active scene index.
func (n *Navigator) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

// Len returns the number of scenes.
func (n *Navigator) Len() int { return len(n.scenes) }

// Scenes returns a copy of the scene list.
func (n *Navigator) Scenes() []Scene {
	return append([]Scene(nil), n.scenes...)
}

// Host returns the render host. Read it only through Snapshot or View while
// other goroutines may navigate.
func (n *Navigator) Host() *dom.Host { return n.host }

// Advance moves to the next scene and renders it. At the last scene it does
// nothing and reports false.
func (n *Navigator) Advance(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index >= len(n.scenes)-1 {
		return false, nil
	}
	n.index++
	return true, n.render(ctx)
}

// Retreat moves to the previous scene and renders it. At the first scene it
// does nothing and reports false.
func (n *Navigator) Retreat(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index <= 0 {
		return false, nil
	}
	n.index--
	return true, n.render(ctx)
}

// Goto clamps i into the valid range and renders that scene if it differs
// from the current one or nothing has been drawn yet.
func (n *Navigator) Goto(ctx context.Context, i int) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	i = max(0, min(i, len(n.scenes)-1))
	if i == n.index && n.rendered {
		return false, nil
	}
	n.index = i
	return true, n.render(ctx)
}

// RenderCurrent clears the host, sets the title and runs the current scene.
func (n *Navigator) RenderCurrent(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.render(ctx)
}

// Select forwards value to the current scene's filter.
func (n *Navigator) Select(ctx context.Context, value string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	f := n.scenes[n.index].Filter
	if f == nil {
		return ErrNoFilter
	}
	if err := f.Select(ctx, value); err != nil {
		return err
	}
	n.logger.Debug("filter changed", zap.Int("scene", n.index), zap.String("value", value))
	if n.observer != nil {
		n.observer.FilterChanged(value)
	}
	return nil
}

// Snapshot returns a consistent copy of the visible state.
func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	sc := n.scenes[n.index]
	snap := Snapshot{
		Index:     n.index,
		Count:     len(n.scenes),
		Title:     n.host.Title(),
		Narrative: sc.Narrative,
		Markup:    n.host.Markup(),
	}
	if sc.Filter != nil && n.lastErr == nil {
		snap.Filter = &FilterState{
			Options:  sc.Filter.Options(),
			Selected: sc.Filter.Selected(),
		}
	}
	if n.lastErr != nil {
		snap.Error = n.lastErr.Error()
	}
	return snap
}

// View calls fn with the host while holding the lock.
func (n *Navigator) View(fn func(index int, host *dom.Host)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fn(n.index, n.host)
}

func (n *Navigator) render(ctx context.Context) error {
	sc := n.scenes[n.index]
	start := time.Now()

	n.host.Clear()
	n.host.SetTitle(sc.Title)
	n.rendered = true

	var err error
	if sc.Render != nil {
		err = sc.Render(ctx, n.host.Content())
	}
	elapsed := time.Since(start)

	if err != nil {
		err = &RenderError{Index: n.index, Title: sc.Title, Err: err}
		n.host.Clear()
		n.host.Content().Append("div").
			Set("class", "scene-error").
			Set("role", "alert").
			SetText("This scene could not be drawn: " + err.Error())
		n.logger.Warn("scene render failed",
			zap.Int("scene", n.index),
			zap.String("title", sc.Title),
			zap.Error(err))
	} else {
		n.logger.Debug("scene rendered",
			zap.Int("scene", n.index),
			zap.String("title", sc.Title),
			zap.Duration("elapsed", elapsed))
	}
	n.lastErr = err
	if n.observer != nil {
		n.observer.SceneRendered(n.index, sc.Title, elapsed, err)
	}
	return err
}
