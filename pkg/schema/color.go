package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const opaqueAlpha uint32 = 0xFF000000

// ParseColor converts a color representation into a packed ARGB value.
// Accepted forms: "#RRGGBB" / "RRGGBB" (packed with full alpha),
// "#AARRGGBB" / "AARRGGBB", "0x"-prefixed hex, decimal strings, and integral
// numbers in the signed or unsigned 32-bit range.
func ParseColor(raw any) (uint32, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case string:
		return parseColorString(v)
	case uint32:
		return v, true
	}
	n, ok := toFloat(raw)
	if !ok {
		return 0, false
	}
	return colorFromNumber(n)
}

// NormalizeColor returns the canonical "#RRGGBB" form of raw. Any alpha
// channel is discarded.
func NormalizeColor(raw any) (string, bool) {
	argb, ok := ParseColor(raw)
	if !ok {
		return "", false
	}
	return FormatColor(argb), true
}

// FormatColor renders the RGB channels of an ARGB value as "#RRGGBB".
func FormatColor(argb uint32) string {
	return fmt.Sprintf("#%06X", argb&0x00FFFFFF)
}

// PackColor converts a canonical "#RRGGBB" string into an opaque ARGB value,
// mirroring what generated documents push into the runtime.
func PackColor(hex string) (uint32, bool) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(trimmed) != 6 || !isHex(trimmed) {
		return 0, false
	}
	rgb, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, false
	}
	return opaqueAlpha | uint32(rgb), true
}

func parseColorString(raw string) (uint32, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") {
		digits := lower[2:]
		if digits == "" || len(digits) > 8 || !isHex(digits) {
			return 0, false
		}
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return 0, false
		}
		return uint32(v), true
	}

	hex := strings.TrimPrefix(s, "#")
	if isHex(hex) {
		switch len(hex) {
		case 6:
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return 0, false
			}
			return opaqueAlpha | uint32(v), true
		case 8:
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return 0, false
			}
			return uint32(v), true
		}
	}
	if strings.HasPrefix(s, "#") {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return colorFromNumber(n)
}

func colorFromNumber(n float64) (uint32, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return 0, false
	}
	if n < math.MinInt32 || n > math.MaxUint32 {
		return 0, false
	}
	if n < 0 {
		return uint32(int32(n)), true
	}
	return uint32(n), true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
