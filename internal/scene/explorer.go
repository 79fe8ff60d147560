package scene

import (
	"context"
	"fmt"
	"slices"

	"github.com/san-kum/vgsales/internal/dataset"
	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/scale"
)

const (
	// AllGenres is the filter value that keeps every record.
	AllGenres = "All"

	allGenresLabel = "All Genres"
	filterID       = "genre-filter"
	pointRadius    = 4
	pointColor     = "#4682b4"
	tooltipDX      = 10
	tooltipDY      = -28
)

// Point is one plotted record inside the plot group.
type Point struct {
	Record dataset.SalesRecord
	X      float64
	Y      float64
}

// Explorer is the filterable scatter plot. It owns the selected genre, the
// plot group and a single tooltip that lives as long as the mount.
type Explorer struct {
	records  []dataset.SalesRecord
	genres   []string
	frame    Frame
	selected string

	container *dom.Element
	selectEl  *dom.Element
	plot      *dom.Element
	tooltip   *dom.Element

	x, y   scale.Linear
	points []Point
}

// NewExplorer builds an unmounted explorer over records.
func NewExplorer(records []dataset.SalesRecord, size Size) *Explorer {
	genres := dataset.DistinctGenres(records)
	slices.Sort(genres)
	return &Explorer{
		records:  records,
		genres:   genres,
		frame:    NewFrame(size, ExplorerMargin),
		selected: AllGenres,
	}
}

// Scene wraps the explorer as the story's last scene.
func (e *Explorer) Scene() Scene {
	return Scene{
		Title:     TitleExplorer,
		Narrative: NarrativeExplorer,
		Render:    e.Render,
		Filter:    e,
	}
}

// Render mounts the explorer into content.
func (e *Explorer) Render(_ context.Context, content *dom.Element) error {
	e.Mount(content)
	return nil
}

// Mount builds the filter control, the svg and the tooltip inside content,
// then plots every record.
func (e *Explorer) Mount(content *dom.Element) {
	e.container = content
	content.Append("label").
		Set("for", filterID).
		Style("margin-right", "8px").
		SetText("Filter by Genre: ")

	e.selectEl = content.Append("select").
		Set("id", filterID).
		Set("name", "genre")
	for _, opt := range e.Options() {
		e.selectEl.Append("option").
			Set("value", opt.Value).
			SetText(opt.Label)
	}

	_, e.plot = e.frame.appendSVG(content)

	e.tooltip = content.Append("div").
		Set("class", "tooltip").
		Style("position", "absolute").
		Style("padding", "6px 10px").
		Style("background", "#eee").
		Style("border", "1px solid #ccc").
		Style("border-radius", "4px").
		Style("pointer-events", "none").
		Style("display", "none")

	e.Update(AllGenres)
}

// Mounted reports whether Mount has run.
func (e *Explorer) Mounted() bool { return e.plot != nil }

// Update filters the records by genre and redraws the plot group. Only the
// plot group is cleared; the control and tooltip stay in place.
func (e *Explorer) Update(genre string) {
	e.selected = genre
	filtered := e.filter(genre)

	years := make([]float64, len(filtered))
	sales := make([]float64, len(filtered))
	for i, r := range filtered {
		years[i] = r.YearValue()
		sales[i] = r.GlobalSalesValue()
	}
	lo, hi, _ := scale.Extent(years)
	top, _ := scale.Max(sales)
	w, h := e.frame.InnerWidth(), e.frame.InnerHeight()
	e.x = scale.NewLinear(lo, hi, 0, w).Nice(0)
	e.y = scale.NewLinear(0, top, h, 0).Nice(0)

	e.points = make([]Point, len(filtered))
	for i, r := range filtered {
		e.points[i] = Point{Record: r, X: e.x.Map(years[i]), Y: e.y.Map(sales[i])}
	}

	if e.plot == nil {
		return
	}
	e.Leave()
	e.plot.Clear()
	drawBottomAxis(e.plot, h, 0, w, linearTicks(e.x, formatYear))
	drawLeftAxis(e.plot, h, 0, linearTicks(e.y, nil))
	for i, p := range e.points {
		e.plot.Append("circle").
			Set("class", "point").
			SetNum("cx", p.X).
			SetNum("cy", p.Y).
			SetNum("r", pointRadius).
			Set("fill", pointColor).
			Set("data-index", fmt.Sprint(i)).
			Set("data-name", p.Record.Name).
			Set("data-year", p.Record.Year).
			Set("data-sales", p.Record.GlobalSales)
	}

	for _, opt := range e.selectEl.FindAll(dom.ByName("option")) {
		if v, _ := opt.Get("value"); v == genre {
			opt.Set("selected", "selected")
		} else {
			opt.Unset("selected")
		}
	}
}

func (e *Explorer) filter(genre string) []dataset.SalesRecord {
	if genre == AllGenres {
		return e.records
	}
	var out []dataset.SalesRecord
	for _, r := range e.records {
		if r.Genre == genre {
			out = append(out, r)
		}
	}
	return out
}

// Points returns the plotted points of the current filter.
func (e *Explorer) Points() []Point { return e.points }

// Scales returns the current x and y scales.
func (e *Explorer) Scales() (x, y scale.Linear) { return e.x, e.y }

// Tooltip returns the tooltip element, or nil before Mount.
func (e *Explorer) Tooltip() *dom.Element { return e.tooltip }

// Hover shows the tooltip for point i near (px, py). It reports false when
// i is out of range or the explorer is not mounted.
func (e *Explorer) Hover(i int, px, py float64) bool {
	if e.tooltip == nil || i < 0 || i >= len(e.points) {
		return false
	}
	r := e.points[i].Record
	e.tooltip.Clear()
	e.tooltip.Append("strong").SetText(r.Name)
	e.tooltip.Append("br")
	e.tooltip.AppendText("Year: " + r.Year)
	e.tooltip.Append("br")
	e.tooltip.AppendText("Sales: " + r.GlobalSales + "M")
	e.tooltip.Style("display", "block")
	e.Move(px, py)
	return true
}

// Move keeps the tooltip at a fixed offset from the pointer.
func (e *Explorer) Move(px, py float64) {
	if e.tooltip == nil {
		return
	}
	e.tooltip.Style("left", dom.Num(px+tooltipDX)+"px").
		Style("top", dom.Num(py+tooltipDY)+"px")
}

// Leave hides the tooltip.
func (e *Explorer) Leave() {
	if e.tooltip == nil {
		return
	}
	e.tooltip.Style("display", "none")
}

// TooltipVisible reports whether the tooltip is shown.
func (e *Explorer) TooltipVisible() bool {
	if e.tooltip == nil {
		return false
	}
	v, _ := e.tooltip.StyleValue("display")
	return v == "block"
}

// Options lists "All" followed by the distinct genres in alphabetical order.
func (e *Explorer) Options() []Option {
	opts := make([]Option, 0, len(e.genres)+1)
	opts = append(opts, Option{Value: AllGenres, Label: allGenresLabel})
	for _, g := range e.genres {
		opts = append(opts, Option{Value: g, Label: g})
	}
	return opts
}

// Selected returns the active filter value.
func (e *Explorer) Selected() string { return e.selected }

// Select validates value against Options and redraws.
func (e *Explorer) Select(_ context.Context, value string) error {
	if !e.Mounted() {
		return ErrNotMounted
	}
	if value != AllGenres && !slices.Contains(e.genres, value) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, value)
	}
	e.Update(value)
	return nil
}
