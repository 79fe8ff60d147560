package scale

import "math"

// Extent returns the smallest and largest non-NaN values. ok is false when
// there are none.
func Extent(values []float64) (lo, hi float64, ok bool) {
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}

// Max returns the largest non-NaN value, or 0 and false when there is none.
func Max(values []float64) (float64, bool) {
	_, hi, ok := Extent(values)
	return hi, ok
}
