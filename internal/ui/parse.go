package ui

import (
	"fmt"
	"strconv"
	"strings"
)

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("must be non-negative: %q", s)
	}
	return v, nil
}

// parseIndexList parses a comma-separated list of stream indices.
// Blank input means "all streams" and yields nil.
func parseIndexList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := parseInt(p)
		if err != nil {
			return nil, fmt.Errorf("stream indices: %v", err)
		}
		out = append(out, v)
	}
	return out, nil
}
