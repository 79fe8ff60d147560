package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/scene"
	"github.com/san-kum/vgsales/internal/viz"
	"go.uber.org/zap"
)

// Braille sizes the optional terminal-style rendering of each scene.
type Braille struct {
	Cols, Rows int
	Scale      float64
	Palette    viz.Palette
}

// Exporter walks every scene of a navigator and writes it to disk.
type Exporter struct {
	nav      *scene.Navigator
	dir      string
	logger   *zap.Logger
	reporter Reporter
	braille  *Braille
}

type Option func(*Exporter)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) { e.logger = logger }
}

func WithReporter(r Reporter) Option {
	return func(e *Exporter) { e.reporter = r }
}

// WithBraille also writes scene-N.braille.svg for every scene.
func WithBraille(b Braille) Option {
	return func(e *Exporter) { e.braille = &b }
}

func New(nav *scene.Navigator, dir string, opts ...Option) *Exporter {
	e := &Exporter{
		nav:      nav,
		dir:      dir,
		logger:   zap.NewNop(),
		reporter: nopReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WriteAll renders each scene in order and writes scene-N.svg files and a
// manifest.json, returning the scene files written. A scene that fails to
// render is skipped and its error joined into the result. The navigator is
// returned to the scene it showed before.
func (e *Exporter) WriteAll(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	start := e.nav.Index()
	defer func() {
		if _, err := e.nav.Goto(context.WithoutCancel(ctx), start); err != nil {
			e.logger.Warn("restore scene", zap.Int("index", start), zap.Error(err))
		}
	}()

	total := e.nav.Len()
	e.reporter.Start(total)
	defer e.reporter.Finish()

	var (
		paths []string
		errs  []error
	)
	manifest := Manifest{Timestamp: time.Now().UTC()}
	for i := range total {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		entry, err := e.writeScene(ctx, i)
		paths = append(paths, entry.paths(e.dir)...)
		if err != nil {
			e.logger.Error("export scene", zap.Int("scene", i+1), zap.Error(err))
			entry.Error = err.Error()
			errs = append(errs, err)
		}
		manifest.Scenes = append(manifest.Scenes, entry)
		e.reporter.Update(i+1, fmt.Sprintf("scene %d/%d", i+1, total))
	}

	if _, err := writeManifest(e.dir, manifest); err != nil {
		errs = append(errs, fmt.Errorf("write manifest: %w", err))
	}
	return paths, errors.Join(errs...)
}

func (en Entry) paths(dir string) []string {
	var out []string
	for _, name := range []string{en.File, en.Braille} {
		if name != "" {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out
}

func (e *Exporter) writeScene(ctx context.Context, i int) (Entry, error) {
	entry := Entry{Scene: i + 1}
	if _, err := e.nav.Goto(ctx, i); err != nil {
		entry.Title = e.nav.Snapshot().Title
		return entry, err
	}

	var (
		doc     *dom.Element
		braille string
		err     error
	)
	e.nav.View(func(_ int, host *dom.Host) {
		entry.Title = host.Title()
		doc, err = SceneSVG(host.Content(), host.Title())
		if err == nil && e.braille != nil {
			r := viz.Rasterize(host.Content(), e.braille.Cols, e.braille.Rows, e.braille.Palette)
			braille = CanvasToSVG(r.Canvas, e.braille.Scale, background)
		}
	})
	if err != nil {
		return entry, fmt.Errorf("scene %d: %w", i+1, err)
	}

	name := fmt.Sprintf("scene-%d.svg", i+1)
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(Document(doc)), 0o644); err != nil {
		return entry, fmt.Errorf("write %s: %w", path, err)
	}
	entry.File = name
	e.logger.Debug("scene exported", zap.String("path", path))

	if braille != "" {
		name := fmt.Sprintf("scene-%d.braille.svg", i+1)
		path := filepath.Join(e.dir, name)
		if err := os.WriteFile(path, []byte(braille), 0o644); err != nil {
			return entry, fmt.Errorf("write %s: %w", path, err)
		}
		entry.Braille = name
	}
	return entry, nil
}
