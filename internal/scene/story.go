package scene

import (
	"context"

	"github.com/san-kum/vgsales/internal/dataset"
)

// Loader loads a tabular resource. *dataset.Loader satisfies it.
type Loader interface {
	Load(ctx context.Context, resource string) (*dataset.Table, error)
}

// Sources names the three CSV resources.
type Sources struct {
	Sales       string `koanf:"sales" yaml:"sales"`
	GenreYear   string `koanf:"genre_year" yaml:"genre_year"`
	GenreRegion string `koanf:"genre_region" yaml:"genre_region"`
}

// DefaultSources are the file names shipped in the data directory.
var DefaultSources = Sources{
	Sales:       "vgsales_cleaned.csv",
	GenreYear:   "genre_by_year.csv",
	GenreRegion: "genre_by_region.csv",
}

// Story assembles the four scenes.
type Story struct {
	records  []dataset.SalesRecord
	loader   Loader
	sources  Sources
	size     Size
	topN     int
	explorer *Explorer
}

// StoryOption configures a Story.
type StoryOption func(*Story)

// WithSources overrides the secondary resource names.
func WithSources(src Sources) StoryOption {
	return func(s *Story) { s.sources = src }
}

// WithSize sets the outer size of every chart.
func WithSize(size Size) StoryOption {
	return func(s *Story) { s.size = size }
}

// WithTopN sets the length of the ranking.
func WithTopN(n int) StoryOption {
	return func(s *Story) {
		if n > 0 {
			s.topN = n
		}
	}
}

// NewStory builds a story over the already loaded primary records. Scenes 2
// and 3 load their own resources through loader each time they render.
func NewStory(records []dataset.SalesRecord, loader Loader, opts ...StoryOption) *Story {
	s := &Story{
		records: records,
		loader:  loader,
		sources: DefaultSources,
		size:    DefaultSize,
		topN:    DefaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.explorer = NewExplorer(records, s.size)
	return s
}

// LoadStory loads the primary dataset and builds the story. A failed load
// is returned as is so that startup can abort.
func LoadStory(ctx context.Context, loader Loader, opts ...StoryOption) (*Story, error) {
	probe := &Story{sources: DefaultSources}
	for _, opt := range opts {
		opt(probe)
	}
	t, err := loader.Load(ctx, probe.sources.Sales)
	if err != nil {
		return nil, err
	}
	return NewStory(dataset.SalesRecords(t), loader, opts...), nil
}

// Records returns the primary records.
func (s *Story) Records() []dataset.SalesRecord { return s.records }

// Explorer returns the scatter plot component of the last scene.
func (s *Story) Explorer() *Explorer { return s.explorer }

// Scenes returns the four scenes in presentation order.
func (s *Story) Scenes() []Scene {
	return []Scene{
		TopSalesScene(s.records, s.topN, s.size),
		TrendsScene(s.loader, s.sources.GenreYear, s.size),
		RegionsScene(s.loader, s.sources.GenreRegion, s.size),
		s.explorer.Scene(),
	}
}
