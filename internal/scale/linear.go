package scale

import "math"

const (
	defaultTickCount = 10
	// maxTicks bounds Ticks when the domain is too large for exact steps.
	maxTicks = 1000
)

// Linear maps [d0, d1] onto [r0, r1].
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear builds a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the input bounds.
func (s Linear) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the output bounds.
func (s Linear) Range() (float64, float64) { return s.r0, s.r1 }

// Map converts a domain value to the range.
func (s Linear) Map(v float64) float64 {
	span := s.d1 - s.d0
	if span == 0 || math.IsNaN(span) {
		if math.IsNaN(v) || math.IsNaN(span) {
			return math.NaN()
		}
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / span
	return s.r0 + t*(s.r1-s.r0)
}

// Nice extends the domain outward to round values so that it can be
// divided into about count ticks. Degenerate domains are returned unchanged.
func (s Linear) Nice(count int) Linear {
	if count <= 0 {
		count = defaultTickCount
	}
	start, stop := s.d0, s.d1
	if !finite(start) || !finite(stop) || start == stop {
		return s
	}
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	var prev float64
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, count)
		if step == prev {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			i = 10
		}
		prev = step
	}

	if reversed {
		start, stop = stop, start
	}
	s.d0, s.d1 = start, stop
	return s
}

// Ticks returns round values inside the domain, about count of them.
func (s Linear) Ticks(count int) []float64 {
	if count <= 0 {
		count = defaultTickCount
	}
	start, stop := s.d0, s.d1
	if !finite(start) || !finite(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	step := tickIncrement(start, stop, count)
	if step == 0 || !finite(step) {
		return nil
	}

	var i0, i1 float64
	if step > 0 {
		i0, i1 = math.Ceil(start/step), math.Floor(stop/step)
	} else {
		i0, i1 = math.Ceil(start*-step), math.Floor(stop*-step)
	}
	n := math.Round(i1 - i0 + 1)
	if !(n > 0) || n > maxTicks {
		return nil
	}

	ticks := make([]float64, int(n))
	for k := range ticks {
		i := i0 + float64(k)
		if step > 0 {
			ticks[k] = i * step
		} else {
			ticks[k] = i / -step
		}
	}

	if reversed {
		for l, r := 0, len(ticks)-1; l < r; l, r = l+1, r-1 {
			ticks[l], ticks[r] = ticks[r], ticks[l]
		}
	}
	return ticks
}

// TickStep returns the spacing between ticks for count, or 0 when the domain
// is degenerate.
func (s Linear) TickStep(count int) float64 {
	if count <= 0 {
		count = defaultTickCount
	}
	lo, hi := math.Min(s.d0, s.d1), math.Max(s.d0, s.d1)
	if !finite(lo) || !finite(hi) || lo == hi {
		return 0
	}
	step := tickIncrement(lo, hi, count)
	if step < 0 {
		return -1 / step
	}
	return step
}

// tickIncrement returns the tick spacing for [start, stop]. Positive values
// are the step itself; negative values are the inverse of a fractional step,
// which keeps the tick arithmetic exact.
func tickIncrement(start, stop float64, count int) float64 {
	e10, e5, e2 := math.Sqrt(50), math.Sqrt(10), math.Sqrt(2)

	step := (stop - start) / float64(count)
	if step <= 0 || !finite(step) {
		return 0
	}
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
