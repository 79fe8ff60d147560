package scene

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/san-kum/vgsales/internal/dataset"
	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/scale"
)

const (
	trendStrokeWidth = 2
	legendGap        = 10
)

// TrendPoint is one vertex of a genre line.
type TrendPoint struct {
	Year  float64
	Sales float64
	X     float64
	Y     float64
}

// TrendLine is the polyline of one genre.
type TrendLine struct {
	Genre  string
	Color  string
	Points []TrendPoint
}

// Path returns the SVG path data of the line.
func (l TrendLine) Path() string {
	var b strings.Builder
	for i, p := range l.Points {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(dom.Num(p.X))
		b.WriteByte(',')
		b.WriteString(dom.Num(p.Y))
	}
	return b.String()
}

// TrendsChart is the laid-out trend chart.
type TrendsChart struct {
	Frame  Frame
	X      scale.Linear
	Y      scale.Linear
	Color  *scale.Ordinal
	Genres []string
	Lines  []TrendLine
}

// BuildTrends groups points by genre in first-seen order and sorts each
// group by year.
func BuildTrends(points []dataset.GenreYearPoint, frame Frame) TrendsChart {
	var (
		genres []string
		groups = make(map[string][]TrendPoint)
		years  = make([]float64, 0, len(points))
		sales  = make([]float64, 0, len(points))
	)
	for _, p := range points {
		if _, ok := groups[p.Genre]; !ok {
			genres = append(genres, p.Genre)
			groups[p.Genre] = nil
		}
		tp := TrendPoint{Year: p.YearValue(), Sales: p.GlobalSalesValue()}
		groups[p.Genre] = append(groups[p.Genre], tp)
		years = append(years, tp.Year)
		sales = append(sales, tp.Sales)
	}

	lo, hi, _ := scale.Extent(years)
	top, _ := scale.Max(sales)

	c := TrendsChart{
		Frame:  frame,
		X:      scale.NewLinear(lo, hi, 0, frame.InnerWidth()),
		Y:      scale.NewLinear(0, top, frame.InnerHeight(), 0).Nice(0),
		Color:  scale.NewOrdinal(genres, scale.Tableau10),
		Genres: genres,
	}
	for _, g := range genres {
		pts := groups[g]
		slices.SortStableFunc(pts, func(a, b TrendPoint) int {
			return compareAsc(a.Year, b.Year)
		})
		for i := range pts {
			pts[i].X = c.X.Map(pts[i].Year)
			pts[i].Y = c.Y.Map(pts[i].Sales)
		}
		c.Lines = append(c.Lines, TrendLine{Genre: g, Color: c.Color.Color(g), Points: pts})
	}
	return c
}

// compareAsc orders smaller values first and NaN last.
func compareAsc(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Draw appends the chart to content.
func (c TrendsChart) Draw(content *dom.Element) {
	svg, g := c.Frame.appendSVG(content)
	w, h := c.Frame.InnerWidth(), c.Frame.InnerHeight()

	drawBottomAxis(g, h, 0, w, linearTicks(c.X, formatYear))
	drawLeftAxis(g, h, 0, linearTicks(c.Y, nil))

	for _, l := range c.Lines {
		g.Append("path").
			Set("class", "trend").
			Set("data-genre", l.Genre).
			Set("fill", "none").
			Set("stroke", l.Color).
			SetNum("stroke-width", trendStrokeWidth).
			Set("d", l.Path())
	}

	items := make([]legendItem, len(c.Genres))
	for i, genre := range c.Genres {
		items[i] = legendItem{label: genre, color: c.Color.Color(genre)}
	}
	drawLegend(svg, w+c.Frame.Margin.Left+legendGap, c.Frame.Margin.Top, items)
}

// TrendsScene loads resource on every render and draws the genre lines.
func TrendsScene(loader Loader, resource string, size Size) Scene {
	frame := NewFrame(size, TrendsMargin)
	return Scene{
		Title:     TitleTrends,
		Narrative: NarrativeTrends,
		Render: func(ctx context.Context, content *dom.Element) error {
			t, err := loader.Load(ctx, resource)
			if err != nil {
				return err
			}
			BuildTrends(dataset.GenreYearPoints(t), frame).Draw(content)
			return nil
		},
	}
}
