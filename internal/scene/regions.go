package scene

import (
	"context"
	"math"

	"github.com/san-kum/vgsales/internal/dataset"
	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/scale"
)

const (
	regionPadding  = 0.2
	regionLegendX  = 100
	axisLabelAngle = -40
)

// Span is the vertical extent of one stacked segment in data units.
type Span struct {
	Y0, Y1 float64
}

// Stack computes cumulative spans for values in order. A NaN value yields
// a NaN top and leaves the running sum unchanged for the next segment.
func Stack(values []float64) []Span {
	spans := make([]Span, len(values))
	sum := 0.0
	for i, v := range values {
		spans[i] = Span{Y0: sum, Y1: sum + v}
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return spans
}

// Segment is one (genre, region) rectangle inside the plot group.
type Segment struct {
	Genre  string
	Region dataset.Region
	Value  float64
	Span   Span
	X      float64
	Y      float64
	Width  float64
	Height float64
	Color  string
}

// RegionsChart is the laid-out stacked bar chart.
type RegionsChart struct {
	Frame    Frame
	X        scale.Band
	Y        scale.Linear
	Color    *scale.Ordinal
	Segments []Segment
}

// BuildRegions stacks NA, EU, JP and Other bottom to top for every row.
func BuildRegions(rows []dataset.GenreRegionRow, frame Frame) RegionsChart {
	genres := make([]string, len(rows))
	totals := make([]float64, len(rows))
	for i, r := range rows {
		genres[i] = r.Genre
		total := 0.0
		for _, reg := range dataset.Regions {
			total += r.Value(reg)
		}
		totals[i] = total
	}
	top, _ := scale.Max(totals)

	keys := make([]string, len(dataset.Regions))
	for i, reg := range dataset.Regions {
		keys[i] = reg.String()
	}

	c := RegionsChart{
		Frame: frame,
		X:     scale.NewBand(genres, 0, frame.InnerWidth(), regionPadding),
		Y:     scale.NewLinear(0, top, frame.InnerHeight(), 0).Nice(0),
		Color: scale.NewOrdinal(keys, scale.Set2),
	}
	values := make([][]float64, len(rows))
	spans := make([][]Span, len(rows))
	for i, r := range rows {
		values[i] = make([]float64, len(dataset.Regions))
		for j, reg := range dataset.Regions {
			values[i][j] = r.Value(reg)
		}
		spans[i] = Stack(values[i])
	}
	for j, reg := range dataset.Regions {
		for i, r := range rows {
			span := spans[i][j]
			x, _ := c.X.Map(r.Genre)
			y0, y1 := c.Y.Map(span.Y0), c.Y.Map(span.Y1)
			c.Segments = append(c.Segments, Segment{
				Genre:  r.Genre,
				Region: reg,
				Value:  values[i][j],
				Span:   span,
				X:      x,
				Y:      y1,
				Width:  c.X.Bandwidth(),
				Height: y0 - y1,
				Color:  c.Color.Color(reg.String()),
			})
		}
	}
	return c
}

// Draw appends the chart to content. Segments are grouped into one layer
// per region; segments without a value are not drawn.
func (c RegionsChart) Draw(content *dom.Element) {
	svg, g := c.Frame.appendSVG(content)
	w, h := c.Frame.InnerWidth(), c.Frame.InnerHeight()

	xAxis := drawBottomAxis(g, h, 0, w, bandTicks(c.X))
	for _, t := range xAxis.FindAll(dom.ByName("text")) {
		t.Set("transform", "rotate("+dom.Num(axisLabelAngle)+")").
			Style("text-anchor", "end")
	}
	drawLeftAxis(g, h, 0, linearTicks(c.Y, nil))

	layers := make(map[dataset.Region]*dom.Element, len(dataset.Regions))
	for _, reg := range dataset.Regions {
		layers[reg] = g.Append("g").
			Set("class", "layer").
			Set("data-region", reg.String()).
			Set("fill", c.Color.Color(reg.String()))
	}
	for _, s := range c.Segments {
		if math.IsNaN(s.Span.Y1) {
			continue
		}
		layers[s.Region].Append("rect").
			Set("class", "segment").
			Set("data-genre", s.Genre).
			Set("data-region", s.Region.String()).
			SetNum("x", s.X).
			SetNum("y", s.Y).
			SetNum("width", s.Width).
			SetNum("height", s.Height).
			Set("fill", s.Color)
	}

	items := make([]legendItem, len(dataset.Regions))
	for i, reg := range dataset.Regions {
		items[i] = legendItem{label: reg.String(), color: c.Color.Color(reg.String())}
	}
	drawLegend(svg, w-regionLegendX, c.Frame.Margin.Top, items)
}

// RegionsScene loads resource on every render and draws the stacked bars.
func RegionsScene(loader Loader, resource string, size Size) Scene {
	frame := NewFrame(size, RegionsMargin)
	return Scene{
		Title:     TitleRegions,
		Narrative: NarrativeRegions,
		Render: func(ctx context.Context, content *dom.Element) error {
			t, err := loader.Load(ctx, resource)
			if err != nil {
				return err
			}
			BuildRegions(dataset.GenreRegionRows(t), frame).Draw(content)
			return nil
		},
	}
}
