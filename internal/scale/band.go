package scale

import "math"

// Band divides a continuous range into evenly spaced bands, one per key.
// Padding is a fraction of the step, applied between bands and at both ends.
type Band struct {
	domain    []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBand builds a band scale over domain in [r0, r1]. Duplicate keys share
// the band of their first occurrence.
func NewBand(domain []string, r0, r1, padding float64) Band {
	b := Band{index: make(map[string]int, len(domain))}
	for _, k := range domain {
		if _, ok := b.index[k]; ok {
			continue
		}
		b.index[k] = len(b.domain)
		b.domain = append(b.domain, k)
	}

	padding = math.Max(0, math.Min(1, padding))
	n := float64(len(b.domain))
	reverse := r1 < r0
	start, stop := r0, r1
	if reverse {
		start, stop = r1, r0
	}

	b.step = (stop - start) / math.Max(1, n-padding+padding*2)
	start += (stop - start - b.step*(n-padding)) * 0.5
	b.bandwidth = b.step * (1 - padding)

	if reverse {
		// first key sits at the high end of the range
		b.start = start + b.step*(n-1)
		b.step = -b.step
	} else {
		b.start = start
	}
	return b
}

// Map returns the start of key's band.
func (b Band) Map(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return math.NaN(), false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth returns the width of each band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return math.Abs(b.step) }

// Domain returns the distinct keys in band order.
func (b Band) Domain() []string {
	out := make([]string, len(b.domain))
	copy(out, b.domain)
	return out
}
