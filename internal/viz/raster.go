package viz

import (
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/vgsales/internal/dom"
)

const (
	fontSize     = 10.0
	rotatedLabel = 3
)

// Palette maps the svg's currentColor and text onto terminal colors.
type Palette struct {
	Axis string
	Text string
}

// Raster projects the first svg found under a content root onto a Braille
// canvas. Svg user units are scaled so that the svg's width and height fill
// the canvas.
type Raster struct {
	Canvas  *Canvas
	palette Palette
	sx, sy  float64
}

type drawState struct {
	ox, oy float64
	fill   string
	anchor string
}

// Rasterize draws root's first svg onto a canvas of cols x rows cells. The
// canvas stays blank when root holds no svg.
func Rasterize(root *dom.Element, cols, rows int, p Palette) *Raster {
	r := &Raster{Canvas: NewCanvas(cols, rows), palette: p}
	if root == nil {
		return r
	}
	svg := root.Find(dom.ByName("svg"))
	if svg == nil {
		return r
	}
	w, h := attrNum(svg, "width"), attrNum(svg, "height")
	if w <= 0 || h <= 0 {
		return r
	}
	r.sx = float64(cols*2) / w
	r.sy = float64(rows*4) / h
	r.walk(svg, drawState{anchor: "start"})
	return r
}

// Project maps an svg point to canvas sub-pixels.
func (r *Raster) Project(x, y float64) (int, int) {
	return int(math.Round(x * r.sx)), int(math.Round(y * r.sy))
}

func (r *Raster) walk(e *dom.Element, st drawState) {
	if e.IsText() {
		return
	}
	if tx, ty, ok := translate(e); ok {
		st.ox += tx
		st.oy += ty
	}
	if f, ok := e.Get("fill"); ok {
		st.fill = f
	}
	if a, ok := e.Get("text-anchor"); ok {
		st.anchor = a
	}
	if a, ok := e.StyleValue("text-anchor"); ok {
		st.anchor = a
	}

	switch e.Name {
	case "rect":
		r.rect(e, st)
	case "circle":
		r.circle(e, st)
	case "line":
		r.line(e, st)
	case "path":
		r.path(e, st)
	case "text":
		r.text(e, st)
		return
	}
	for _, c := range e.Children {
		r.walk(c, st)
	}
}

func (r *Raster) color(c string) string {
	if c == "currentColor" {
		return r.palette.Axis
	}
	return c
}

func (r *Raster) rect(e *dom.Element, st drawState) {
	if st.fill == "none" {
		return
	}
	x, y := st.ox+attrNum(e, "x"), st.oy+attrNum(e, "y")
	w, h := attrNum(e, "width"), attrNum(e, "height")
	if !finite(x, y, w, h) || w <= 0 || h <= 0 {
		return
	}
	x0, y0 := r.Project(x, y)
	x1, y1 := r.Project(x+w, y+h)
	r.Canvas.FillRect(x0, y0, max(x0, x1-1), max(y0, y1-1), r.color(st.fill))
}

func (r *Raster) circle(e *dom.Element, st drawState) {
	cx, cy := st.ox+attrNum(e, "cx"), st.oy+attrNum(e, "cy")
	if !finite(cx, cy) || st.fill == "none" {
		return
	}
	x, y := r.Project(cx, cy)
	rad := int(math.Round(attrNum(e, "r") * math.Min(r.sx, r.sy)))
	r.Canvas.Disc(x, y, max(rad, 0), r.color(st.fill))
}

func (r *Raster) line(e *dom.Element, st drawState) {
	stroke, ok := e.Get("stroke")
	if !ok || stroke == "none" {
		return
	}
	x0, y0 := r.Project(st.ox+attrNum(e, "x1"), st.oy+attrNum(e, "y1"))
	x1, y1 := r.Project(st.ox+attrNum(e, "x2"), st.oy+attrNum(e, "y2"))
	r.Canvas.Line(x0, y0, x1, y1, r.color(stroke))
}

func (r *Raster) path(e *dom.Element, st drawState) {
	stroke, ok := e.Get("stroke")
	if !ok || stroke == "none" {
		return
	}
	d, _ := e.Get("d")
	color := r.color(stroke)
	for _, seg := range ParsePath(d) {
		a, b := seg[0], seg[1]
		if !finite(a[0], a[1], b[0], b[1]) {
			continue
		}
		x0, y0 := r.Project(st.ox+a[0], st.oy+a[1])
		x1, y1 := r.Project(st.ox+b[0], st.oy+b[1])
		r.Canvas.Line(x0, y0, x1, y1, color)
	}
}

func (r *Raster) text(e *dom.Element, st drawState) {
	label := e.TextContent()
	if label == "" {
		return
	}
	x := st.ox + attrNum(e, "x")
	y := st.oy + attrNum(e, "y") + em(e, "dy")
	anchor := st.anchor
	if tr, _ := e.Get("transform"); strings.HasPrefix(tr, "rotate(") {
		runes := []rune(label)
		if len(runes) > rotatedLabel {
			label = string(runes[:rotatedLabel])
		}
		anchor = "middle"
	}
	if !finite(x, y) {
		return
	}

	px, py := r.Project(x, y)
	col, row := px/2, py/4
	n := len([]rune(label))
	switch anchor {
	case "end":
		col -= n
	case "middle":
		col -= n / 2
	}
	r.Canvas.Write(col, row, label, r.palette.Text)
}

// ParsePath flattens absolute M, L, H, V and Z commands into line
// segments. Other commands end the parse.
func ParsePath(d string) [][2][2]float64 {
	var (
		segs         [][2][2]float64
		cur, start   [2]float64
		cmd          byte
		nums         []float64
		tokens       = tokenizePath(d)
		flushPending = func() bool {
			switch cmd {
			case 'M':
				for i := 0; i+1 < len(nums); i += 2 {
					next := [2]float64{nums[i], nums[i+1]}
					if i == 0 {
						start = next
					} else {
						segs = append(segs, [2][2]float64{cur, next})
					}
					cur = next
				}
			case 'L':
				for i := 0; i+1 < len(nums); i += 2 {
					next := [2]float64{nums[i], nums[i+1]}
					segs = append(segs, [2][2]float64{cur, next})
					cur = next
				}
			case 'H':
				for _, v := range nums {
					next := [2]float64{v, cur[1]}
					segs = append(segs, [2][2]float64{cur, next})
					cur = next
				}
			case 'V':
				for _, v := range nums {
					next := [2]float64{cur[0], v}
					segs = append(segs, [2][2]float64{cur, next})
					cur = next
				}
			case 'Z':
				segs = append(segs, [2][2]float64{cur, start})
				cur = start
			case 0:
			default:
				return false
			}
			return true
		}
	)
	for _, tok := range tokens {
		if len(tok) == 1 && isPathCommand(tok[0]) {
			if !flushPending() {
				return segs
			}
			cmd, nums = tok[0], nums[:0]
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return segs
		}
		nums = append(nums, v)
	}
	flushPending()
	return segs
}

func isPathCommand(c byte) bool {
	return strings.IndexByte("MLHVZCSQTAmlhvzcsqta", c) >= 0
}

func tokenizePath(d string) []string {
	var (
		tokens []string
		buf    strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, buf.String())
			buf.Reset()
		}
	}
	for i := 0; i < len(d); i++ {
		c := d[i]
		switch {
		case c == ',' || c == ' ' || c == '\n' || c == '\t':
			flush()
		case c == 'N' && strings.HasPrefix(d[i:], "NaN"):
			flush()
			tokens = append(tokens, "NaN")
			i += 2
		case isPathCommand(c):
			flush()
			tokens = append(tokens, string(c))
		case c == '-' || c == '+':
			s := buf.String()
			if s != "" && !strings.HasSuffix(s, "e") && !strings.HasSuffix(s, "E") {
				flush()
			}
			buf.WriteByte(c)
		default:
			buf.WriteByte(c)
		}
	}
	flush()
	return tokens
}

func translate(e *dom.Element) (x, y float64, ok bool) {
	tr, has := e.Get("transform")
	if !has {
		return 0, 0, false
	}
	inner, found := strings.CutPrefix(tr, "translate(")
	if !found {
		return 0, 0, false
	}
	inner = strings.TrimSuffix(inner, ")")
	xs, ys, _ := strings.Cut(inner, ",")
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, false
	}
	y, _ = strconv.ParseFloat(strings.TrimSpace(ys), 64)
	return x, y, true
}

func attrNum(e *dom.Element, key string) float64 {
	s, ok := e.Get(key)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil {
		return 0
	}
	return v
}

func em(e *dom.Element, key string) float64 {
	s, ok := e.Get(key)
	if !ok {
		return 0
	}
	if n, found := strings.CutSuffix(s, "em"); found {
		v, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return v * fontSize
	}
	return attrNum(e, key)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
