package metrics

import (
	"sync"
	"time"
)

// RenderMetric summarises render passes for status displays.
type RenderMetric interface {
	Name() string
	Observe(elapsed time.Duration, err error)
	Value() float64
	Reset()
}

// RenderTime is the mean render duration in milliseconds.
type RenderTime struct {
	mu      sync.Mutex
	name    string
	total   time.Duration
	samples int
}

func NewRenderTime() *RenderTime {
	return &RenderTime{name: "render_ms"}
}

func (r *RenderTime) Name() string { return r.name }

func (r *RenderTime) Observe(elapsed time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total += elapsed
	r.samples++
}

func (r *RenderTime) Value() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.samples == 0 {
		return 0
	}
	return float64(r.total.Microseconds()) / 1000 / float64(r.samples)
}

func (r *RenderTime) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = 0
	r.samples = 0
}

// RenderHealth is the fraction of render passes that succeeded.
type RenderHealth struct {
	mu       sync.Mutex
	name     string
	failures int
	samples  int
}

func NewRenderHealth() *RenderHealth {
	return &RenderHealth{name: "render_ok"}
}

func (h *RenderHealth) Name() string { return h.name }

func (h *RenderHealth) Observe(_ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples++
	if err != nil {
		h.failures++
	}
}

func (h *RenderHealth) Value() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(h.failures)/float64(h.samples)
}

func (h *RenderHealth) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = 0
	h.samples = 0
}

// SceneObserver is the subset of scene.Observer the fan-out forwards to.
type SceneObserver interface {
	SceneRendered(index int, title string, elapsed time.Duration, err error)
	FilterChanged(value string)
}

// Recorder fans scene events out to observers and render metrics.
type Recorder struct {
	observers []SceneObserver
	metrics   []RenderMetric
}

// NewRecorder returns a recorder feeding every observer and metric given.
func NewRecorder(metrics []RenderMetric, observers ...SceneObserver) *Recorder {
	return &Recorder{observers: observers, metrics: metrics}
}

func (r *Recorder) SceneRendered(index int, title string, elapsed time.Duration, err error) {
	for _, m := range r.metrics {
		m.Observe(elapsed, err)
	}
	for _, o := range r.observers {
		o.SceneRendered(index, title, elapsed, err)
	}
}

func (r *Recorder) FilterChanged(value string) {
	for _, o := range r.observers {
		o.FilterChanged(value)
	}
}

// Metrics returns the render metrics in registration order.
func (r *Recorder) Metrics() []RenderMetric { return r.metrics }
