// Package timefmt converts between clock-style strings and seconds.
package timefmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseSeconds parses "ss", "mm:ss" or "hh:mm:ss" into seconds.
// Each part is trimmed and may be fractional. Empty, non-finite and
// negative parts are rejected, as is any input with more than three parts.
func ParseSeconds(text string) (float64, bool) {
	parts := strings.Split(text, ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, false
	}

	values := make([]float64, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0, false
		}
		values[i] = v
	}

	var total float64
	for _, v := range values {
		total = total*60 + v
	}
	return total, true
}

// FormatSeconds renders seconds as "m:ss", truncating fractions.
// Negative and non-finite input renders as "0:00".
func FormatSeconds(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	whole := int64(seconds)
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}

// FormatDuration is FormatSeconds for a time.Duration.
func FormatDuration(d time.Duration) string {
	return FormatSeconds(d.Seconds())
}
