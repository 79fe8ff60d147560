package scene

import (
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/vgsales/internal/dom"
	"github.com/san-kum/vgsales/internal/scale"
)

const (
	tickSize    = 6
	tickPadding = 3
)

type tick struct {
	pos   float64
	label string
}

// linearTicks returns the ticks of s formatted with format, or with grouped
// fixed-point labels when format is nil.
func linearTicks(s scale.Linear, format func(float64) string) []tick {
	values := s.Ticks(0)
	if format == nil {
		step := s.TickStep(0)
		format = func(v float64) string { return formatFixed(v, step) }
	}
	ticks := make([]tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, tick{pos: s.Map(v), label: format(v)})
	}
	return ticks
}

func bandTicks(b scale.Band) []tick {
	keys := b.Domain()
	ticks := make([]tick, 0, len(keys))
	for _, k := range keys {
		x, _ := b.Map(k)
		ticks = append(ticks, tick{pos: x + b.Bandwidth()/2, label: k})
	}
	return ticks
}

// formatYear renders whole numbers without grouping.
func formatYear(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// formatFixed prints v with just enough decimals for step and groups the
// integer digits by thousands.
func formatFixed(v, step float64) string {
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Max(0, -math.Floor(math.Log10(step))))
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if s == "-0" {
		s = "0"
	}
	return groupThousands(s)
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + s
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + frac
}

func newAxis(parent *dom.Element, class, anchor string) *dom.Element {
	return parent.Append("g").
		Set("class", "axis "+class).
		Set("fill", "none").
		Set("font-size", "10").
		Set("font-family", "sans-serif").
		Set("text-anchor", anchor)
}

// drawBottomAxis draws a horizontal axis at y with ticks pointing down.
func drawBottomAxis(parent *dom.Element, y, r0, r1 float64, ticks []tick) *dom.Element {
	axis := newAxis(parent, "axis-x", "middle").
		Set("transform", dom.Translate(0, y))
	axis.Append("path").
		Set("class", "domain").
		Set("stroke", "currentColor").
		Set("d", "M"+dom.Num(r0)+","+strconv.Itoa(tickSize)+"V0H"+dom.Num(r1)+"V"+strconv.Itoa(tickSize))
	for _, t := range ticks {
		g := axis.Append("g").
			Set("class", "tick").
			Set("transform", dom.Translate(t.pos, 0))
		g.Append("line").
			Set("stroke", "currentColor").
			SetNum("y2", tickSize)
		g.Append("text").
			Set("fill", "currentColor").
			SetNum("y", tickSize+tickPadding).
			Set("dy", "0.71em").
			SetText(t.label)
	}
	return axis
}

// drawLeftAxis draws a vertical axis at x=0 with ticks pointing left.
func drawLeftAxis(parent *dom.Element, r0, r1 float64, ticks []tick) *dom.Element {
	axis := newAxis(parent, "axis-y", "end")
	axis.Append("path").
		Set("class", "domain").
		Set("stroke", "currentColor").
		Set("d", "M-"+strconv.Itoa(tickSize)+","+dom.Num(r0)+"H0V"+dom.Num(r1)+"H-"+strconv.Itoa(tickSize))
	for _, t := range ticks {
		g := axis.Append("g").
			Set("class", "tick").
			Set("transform", dom.Translate(0, t.pos))
		g.Append("line").
			Set("stroke", "currentColor").
			SetNum("x2", -tickSize)
		g.Append("text").
			Set("fill", "currentColor").
			SetNum("x", -(tickSize+tickPadding)).
			Set("dy", "0.32em").
			SetText(t.label)
	}
	return axis
}
