package dataset

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Number converts a text cell to a float64 the way a unary plus would:
// surrounding whitespace is ignored, a blank cell is 0, "Infinity" keeps
// its sign, unsigned 0x, 0o and 0b prefixes are integers, and anything else
// that is not a decimal literal is NaN.
func Number(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	body, neg := s, false
	if body[0] == '+' || body[0] == '-' {
		body, neg = body[1:], body[0] == '-'
	}
	switch {
	case body == "Infinity":
		if neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case strings.EqualFold(body, "inf"), strings.EqualFold(body, "infinity"):
		return math.NaN()
	case strings.ContainsRune(s, '_'):
		return math.NaN()
	}
	if base := prefixBase(body); base != 0 {
		if body != s {
			return math.NaN()
		}
		return prefixed(body[2:], base)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// ParseFloat reports overflow with a signed Inf, which is what we want.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v
		}
		return math.NaN()
	}
	return v
}

func prefixBase(s string) int {
	if len(s) < 2 || s[0] != '0' {
		return 0
	}
	switch s[1] {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func prefixed(digits string, base int) float64 {
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return math.NaN()
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	v, _ := new(big.Float).SetInt(n).Float64()
	return v
}
