package amount

import (
	"fmt"
	"strconv"
	"strings"
)

// Separator selects which rune acts as the decimal point when a raw cell
// contains both '.' and ','. The portal is not consistent about this across
// table regions on the same page, so callers configure it per field instead
// of assuming a locale.
type Separator int

const (
	// SepAuto treats the rightmost separator as the decimal point if it is
	// followed by one or two digits at the end of the string. Every other
	// separator is a thousands separator.
	SepAuto Separator = iota
	// SepDot fixes '.' as the decimal point, ',' as thousands.
	SepDot
	// SepComma fixes ',' as the decimal point, '.' as thousands.
	SepComma
)

func (s Separator) String() string {
	switch s {
	case SepDot:
		return "dot"
	case SepComma:
		return "comma"
	}
	return "auto"
}

// ParseSeparator maps a config string onto a Separator.
func ParseSeparator(name string) (Separator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return SepAuto, nil
	case "dot", ".":
		return SepDot, nil
	case "comma", ",":
		return SepComma, nil
	}
	return SepAuto, fmt.Errorf("unknown separator %q", name)
}

// strips currency markers, unit words, emphasis and whitespace by keeping
// only digits and candidate separators
func clean(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fixedDecimal resolves the decimal rune under a fixed policy. When the
// named rune is absent, one or two trailing digits behind the other rune
// still mark a decimal point: a thousands group is always three digits, and
// Format output always writes '.' regardless of policy.
func fixedDecimal(s string, named, other byte) byte {
	if strings.IndexByte(s, named) >= 0 {
		return named
	}
	if i := strings.LastIndexByte(s, other); i >= 0 {
		frac := s[i+1:]
		if allDigits(frac) && len(frac) <= 2 {
			return other
		}
	}
	return 0
}

// Parse converts a scraped currency/quantity cell into a number. It returns
// ok=false on empty or unparseable input; callers treat that as zero, not as
// a fatal condition.
func Parse(raw string, sep Separator) (float64, bool) {
	s := clean(raw)
	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}

	var dec byte
	switch sep {
	case SepDot:
		dec = fixedDecimal(s, '.', ',')
	case SepComma:
		dec = fixedDecimal(s, ',', '.')
	default:
		i := strings.LastIndexAny(s, ".,")
		if i >= 0 {
			frac := s[i+1:]
			if allDigits(frac) && len(frac) <= 2 {
				dec = s[i]
			}
		}
	}

	last := -1
	if dec != 0 {
		last = strings.LastIndexByte(s, dec)
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case i == last:
			b.WriteByte('.')
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Format renders an amount the way it is persisted and displayed: two
// decimals, '.' as the decimal point, no thousands separators. Its output
// parses back to the same value under any Separator policy.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
