package scene

import (
	"context"
	"math"
	"slices"

	"github.com/san-kum/vgsales/internal/dataset"
	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/scale"
)

const (
	// DefaultTopN is the number of bars in the ranking.
	DefaultTopN = 10

	barColor   = "#69b3a2"
	barPadding = 0.1
	labelInset = 15
)

// TopSales returns the n best-selling records, highest first. The input is
// not modified. Ties keep input order and unparseable sales sort last.
func TopSales(records []dataset.SalesRecord, n int) []dataset.SalesRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b dataset.SalesRecord) int {
		return compareDesc(a.GlobalSalesValue(), b.GlobalSalesValue())
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// compareDesc orders larger values first and NaN after everything else.
func compareDesc(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// Bar is one ranked record with its geometry inside the plot group.
type Bar struct {
	Record dataset.SalesRecord
	Value  float64
	Y      float64
	Width  float64
	Height float64
}

// TopSalesChart is the laid-out ranking.
type TopSalesChart struct {
	Frame Frame
	X     scale.Linear
	Y     scale.Band
	Bars  []Bar
}

// BuildTopSales ranks records and computes the bar geometry.
func BuildTopSales(records []dataset.SalesRecord, n int, frame Frame) TopSalesChart {
	top := TopSales(records, n)

	values := make([]float64, len(top))
	names := make([]string, len(top))
	for i, r := range top {
		values[i] = r.GlobalSalesValue()
		names[i] = r.Name
	}
	hi, _ := scale.Max(values)

	c := TopSalesChart{
		Frame: frame,
		X:     scale.NewLinear(0, hi, 0, frame.InnerWidth()),
		Y:     scale.NewBand(names, 0, frame.InnerHeight(), barPadding),
	}
	c.Bars = make([]Bar, len(top))
	for i, r := range top {
		y, _ := c.Y.Map(r.Name)
		c.Bars[i] = Bar{
			Record: r,
			Value:  values[i],
			Y:      y,
			Width:  c.X.Map(values[i]),
			Height: c.Y.Bandwidth(),
		}
	}
	return c
}

// Draw appends the chart to content.
func (c TopSalesChart) Draw(content *dom.Element) {
	_, g := c.Frame.appendSVG(content)
	for _, b := range c.Bars {
		g.Append("rect").
			Set("class", "bar").
			SetNum("x", 0).
			SetNum("y", b.Y).
			SetNum("width", b.Width).
			SetNum("height", b.Height).
			Set("fill", barColor).
			Set("data-name", b.Record.Name).
			Set("data-sales", b.Record.GlobalSales)
	}
	for _, b := range c.Bars {
		g.Append("text").
			Set("class", "bar-label").
			SetNum("x", -labelInset).
			SetNum("y", b.Y+b.Height/2).
			Set("text-anchor", "end").
			Set("dominant-baseline", "middle").
			SetText(b.Record.Name)
	}
}

// TopSalesScene ranks the shared records on every render.
func TopSalesScene(records []dataset.SalesRecord, n int, size Size) Scene {
	frame := NewFrame(size, TopSalesMargin)
	return Scene{
		Title:     TitleTopSales,
		Narrative: NarrativeTopSales,
		Render: func(_ context.Context, content *dom.Element) error {
			BuildTopSales(records, n, frame).Draw(content)
			return nil
		},
	}
}
