package scene

import "github.com/san-kum/vgsales/internal/dom"

const (
	legendSwatch  = 10
	legendSpacing = 20
)

type legendItem struct {
	label string
	color string
}

// drawLegend stacks one swatch and label per item at (x, y).
func drawLegend(parent *dom.Element, x, y float64, items []legendItem) *dom.Element {
	legend := parent.Append("g").
		Set("class", "legend").
		Set("transform", dom.Translate(x, y))
	for i, it := range items {
		off := float64(i * legendSpacing)
		legend.Append("rect").
			Set("class", "legend-swatch").
			SetNum("x", 0).
			SetNum("y", off).
			SetNum("width", legendSwatch).
			SetNum("height", legendSwatch).
			Set("fill", it.color)
		legend.Append("text").
			Set("class", "legend-label").
			SetNum("x", legendSwatch+5).
			SetNum("y", off+9).
			Style("font-size", "12px").
			SetText(it.label)
	}
	return legend
}
