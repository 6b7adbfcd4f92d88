// Package timecode parses and formats ffmpeg-style timestamps.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse converts a timestamp string into seconds. Accepted forms:
// "SS", "SS.mmm", "MM:SS", "HH:MM:SS" and "HH:MM:SS.mmm".
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty timestamp")
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q: too many colon-separated fields", s)
	}
	total := 0.0
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		if v < 0 {
			return 0, fmt.Errorf("invalid timestamp %q: negative field", s)
		}
		// All fields except the last must be integral.
		if i != len(parts)-1 && v != math.Trunc(v) {
			return 0, fmt.Errorf("invalid timestamp %q: fractional minutes/hours", s)
		}
		total = total*60 + v
	}
	return total, nil
}

// Format renders seconds as "HH:MM:SS.mmm", the form ffmpeg accepts for
// -ss and -to. Values are truncated to millisecond precision so that equal
// inputs always produce identical argument strings.
func Format(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int64(math.Round(sec * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
