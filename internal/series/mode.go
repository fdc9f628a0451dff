package series

import (
	"fmt"
	"strings"
)

// Mode selects the grouping key.
type Mode string

const (
	// ModePerWeekday treats every weekday of a series as its own recurrence.
	ModePerWeekday Mode = "per-weekday"
	// ModeCombined groups by name and location and multiplies the week span by
	// the number of distinct weekdays observed.
	ModeCombined Mode = "combined"
)

// ParseMode accepts the mode names used in configuration.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeCombined:
		return ModeCombined, nil
	case ModePerWeekday:
		return ModePerWeekday, nil
	default:
		return "", fmt.Errorf("unknown aggregation mode %q", value)
	}
}
