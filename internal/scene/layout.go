package scene

import "github.com/san-kum/vgsales/internal/dom"

// Size is the outer pixel size of a chart.
type Size struct {
	Width  float64
	Height float64
}

// DefaultSize matches the standard layout preset.
var DefaultSize = Size{Width: 960, Height: 600}

// Margin is the space between the svg edge and the plot area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Chart margins, one per scene.
var (
	TopSalesMargin = Margin{Top: 40, Right: 40, Bottom: 40, Left: 240}
	TrendsMargin   = Margin{Top: 40, Right: 100, Bottom: 40, Left: 60}
	RegionsMargin  = Margin{Top: 40, Right: 20, Bottom: 60, Left: 60}
	ExplorerMargin = Margin{Top: 40, Right: 40, Bottom: 60, Left: 60}
)

// Frame is a chart's outer size together with its margin.
type Frame struct {
	Size
	Margin Margin
}

// NewFrame returns a frame; a zero size falls back to DefaultSize.
func NewFrame(size Size, margin Margin) Frame {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	return Frame{Size: size, Margin: margin}
}

// InnerWidth is the plot area width, never negative.
func (f Frame) InnerWidth() float64 {
	return max(0, f.Width-f.Margin.Left-f.Margin.Right)
}

// InnerHeight is the plot area height, never negative.
func (f Frame) InnerHeight() float64 {
	return max(0, f.Height-f.Margin.Top-f.Margin.Bottom)
}

// appendSVG adds an svg of the frame's size to parent and returns it with
// the plot group already translated by the margin.
func (f Frame) appendSVG(parent *dom.Element) (svg, plot *dom.Element) {
	svg = parent.Append("svg").
		SetNum("width", f.Width).
		SetNum("height", f.Height)
	plot = svg.Append("g").
		Set("class", "plot").
		Set("transform", dom.Translate(f.Margin.Left, f.Margin.Top))
	return svg, plot
}
