// Package duration provides parsing for human-readable duration strings.
//
// Users specify durations as "12h" (hours), "7d" (days), "4w" (weeks) or "3m"
// (months) rather than Go's time.Duration format. history --since uses it to
// bound how far back search history is shown.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var pattern = regexp.MustCompile(`^(\d+)([hdwm])$`)

const day = 24 * time.Hour

// Parse parses duration strings in the format Nh, Nd, Nw or Nm.
// A month is 30 days. Zero is allowed and means "no bound".
func Parse(s string) (time.Duration, error) {
	matches := pattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid duration format: %s (use 12h, 7d, 4w, or 3m)", s)
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}

	switch matches[2] {
	case "h":
		return time.Duration(num) * time.Hour, nil
	case "d":
		return time.Duration(num) * day, nil
	case "w":
		return time.Duration(num) * 7 * day, nil
	default:
		return time.Duration(num) * 30 * day, nil
	}
}
