package utils

import (
	"strconv"
	"strings"
)

// FormatPeso renders an amount the way the POS screen shows it,
// e.g. 12500 -> "₱12,500". Fractional centavos are kept when present.
func FormatPeso(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart := s
	fracPart := ""
	if idx := strings.Index(s, "."); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx:]
	}

	// Insert thousands separators
	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := "₱" + b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
