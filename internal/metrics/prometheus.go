package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/vgsales/internal/dataset"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// Manager owns the vgsales metrics and the registry they live on. It
// satisfies scene.Observer and dataset.Observer.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	sceneRenders        *prometheus.CounterVec
	sceneRenderDuration *prometheus.HistogramVec
	currentScene        prometheus.Gauge
	filterChanges       *prometheus.CounterVec

	datasetLoads *prometheus.CounterVec
	datasetRows  *prometheus.GaugeVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a manager on a fresh registry unless WithRegistry is
// given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "vgsales",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sceneRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scene",
		Name:      "renders_total",
		Help:      "Render passes by scene and outcome",
	}, []string{"scene", "status"})

	m.sceneRenderDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "scene",
		Name:      "render_duration_seconds",
		Help:      "Duration of a render pass, including secondary loads",
		Buckets:   m.buckets,
	}, []string{"scene"})

	m.currentScene = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "scene",
		Name:      "current_index",
		Help:      "Zero-based index of the scene shown last",
	})

	m.filterChanges = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scene",
		Name:      "filter_changes_total",
		Help:      "Genre filter selections by value",
	}, []string{"value"})

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "dataset",
		Name:      "loads_total",
		Help:      "Dataset loads by resource and outcome",
	}, []string{"resource", "status"})

	m.datasetRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "dataset",
		Name:      "rows",
		Help:      "Rows in the last successful load of a resource",
	}, []string{"resource"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration by route",
		Buckets:   m.buckets,
	}, []string{"route", "method"})
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SceneRendered records one render pass.
func (m *Manager) SceneRendered(index int, _ string, elapsed time.Duration, err error) {
	label := strconv.Itoa(index + 1)
	status := statusOK
	if err != nil {
		status = statusError
	}
	m.sceneRenders.WithLabelValues(label, status).Inc()
	m.sceneRenderDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	m.currentScene.Set(float64(index))
}

// FilterChanged records one filter selection.
func (m *Manager) FilterChanged(value string) {
	m.filterChanges.WithLabelValues(value).Inc()
}

// DatasetLoaded records one load attempt.
func (m *Manager) DatasetLoaded(resource string, rows int, err error) {
	if err != nil {
		m.datasetLoads.WithLabelValues(resource, loadStatus(err)).Inc()
		return
	}
	m.datasetLoads.WithLabelValues(resource, statusOK).Inc()
	m.datasetRows.WithLabelValues(resource).Set(float64(rows))
}

func loadStatus(err error) string {
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		return "not_found"
	case errors.Is(err, dataset.ErrParse):
		return "parse_error"
	case errors.Is(err, dataset.ErrFetch):
		return "fetch_error"
	}
	return statusError
}

// Middleware records every request under its chi route pattern.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
