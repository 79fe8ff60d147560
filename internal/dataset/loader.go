package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultFetchTimeout = 30 * time.Second

// Observer is notified after every load attempt.
type Observer interface {
	DatasetLoaded(resource string, rows int, err error)
}

// Loader resolves resources to tables.
type Loader struct {
	baseDir  string
	client   *http.Client
	logger   *zap.Logger
	observer Observer
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) resources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithObserver registers a load observer.
func WithObserver(o Observer) Option {
	return func(l *Loader) {
		l.observer = o
	}
}

// NewLoader returns a loader that resolves relative paths against baseDir.
func NewLoader(baseDir string, opts ...Option) *Loader {
	l := &Loader{
		baseDir: baseDir,
		client:  &http.Client{Timeout: defaultFetchTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and parses resource. Failures are returned as *LoadError.
func (l *Loader) Load(ctx context.Context, resource string) (*Table, error) {
	start := time.Now()
	t, err := l.load(ctx, resource)
	rows := t.Len()
	if err != nil {
		err = &LoadError{Resource: resource, Err: err}
		l.logger.Warn("dataset load failed", zap.String("resource", resource), zap.Error(err))
	} else {
		l.logger.Debug("dataset loaded",
			zap.String("resource", resource),
			zap.Int("rows", rows),
			zap.Duration("elapsed", time.Since(start)))
	}
	if l.observer != nil {
		l.observer.DatasetLoaded(resource, rows, err)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (l *Loader) load(ctx context.Context, resource string) (*Table, error) {
	if resource == "" {
		return nil, fmt.Errorf("%w: empty resource name", ErrNotFound)
	}
	if isURL(resource) {
		return l.fetch(ctx, resource)
	}
	return l.open(resource)
}

func (l *Loader) open(resource string) (*Table, error) {
	path := resource
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func (l *Loader) fetch(ctx context.Context, url string) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetch, url, resp.Status)
	}
	return Parse(resp.Body)
}

func isURL(resource string) bool {
	lower := strings.ToLower(resource)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
