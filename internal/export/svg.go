package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/viz"
)

const (
	xmlHeader  = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	svgNS      = "http://www.w3.org/2000/svg"
	background = "#ffffff"
	dotColor   = "#cccccc"
)

// ErrNoSVG is returned when a scene drew no chart.
var ErrNoSVG = errors.New("export: scene has no svg")

// SceneSVG copies the first svg under content into a standalone document
// with a title and an opaque background. content is not modified.
func SceneSVG(content *dom.Element, title string) (*dom.Element, error) {
	src := content.Find(dom.ByName("svg"))
	if src == nil {
		return nil, ErrNoSVG
	}
	doc := dom.New("svg")
	doc.Attrs = append(doc.Attrs, src.Attrs...)
	doc.Set("xmlns", svgNS)
	doc.Append("title").SetText(title)
	doc.Append("rect").
		Set("width", "100%").
		Set("height", "100%").
		Set("fill", background)
	g := doc.Append("g").
		Set("font-family", "sans-serif").
		Set("color", "#000000")
	for _, c := range src.Children {
		g.AppendChild(c.Clone())
	}
	return doc, nil
}

// Document renders svg as a standalone file.
func Document(svg *dom.Element) string {
	return xmlHeader + svg.String() + "\n"
}

// Braille dot-to-bit mapping
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot in
// its cell's color. Text overlays become text elements.
func CanvasToSVG(canvas *viz.Canvas, scale float64, bg string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, xmlHeader+`<svg xmlns="%s" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, svgNS, width, height, width, height, bg)

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			color := canvas.Colors[row][col]
			if color == "" {
				color = dotColor
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			if t := canvas.Text[row][col]; t != 0 {
				fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="%.1f" font-family="monospace" fill="%s">%s</text>
`, baseX, baseY+scale*3, scale*3, color, escape(string(t)))
				continue
			}

			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, color)
					}
				}
			}
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;")

func escape(s string) string { return escaper.Replace(s) }
