package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/okulov/timeledger/internal/errors"
)

// durationPattern matches expressions like "2h", "30m", "1h30m", "2.5h".
var durationPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes)?\s*(?:(\d+(?:\.\d+)?)\s*(m|min|mins|minute|minutes))?$`)

// ParseDurationHours parses a human-readable duration into fractional
// hours, the unit duration overrides are stored in. A bare number is
// taken as hours.
func ParseDurationHours(input string) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, durationError(input)
	}

	if d, err := time.ParseDuration(input); err == nil && d > 0 {
		return d.Hours(), nil
	}

	matches := durationPattern.FindStringSubmatch(input)
	if matches == nil {
		return 0, durationError(input)
	}

	var total float64
	if matches[1] != "" {
		value, _ := strconv.ParseFloat(matches[1], 64)
		total += unitToHours(value, strings.ToLower(matches[2]))
	}
	if matches[3] != "" {
		value, _ := strconv.ParseFloat(matches[3], 64)
		total += unitToHours(value, strings.ToLower(matches[4]))
	}

	if total <= 0 {
		return 0, durationError(input)
	}
	return total, nil
}

func unitToHours(value float64, unit string) float64 {
	switch unit {
	case "m", "min", "mins", "minute", "minutes":
		return value / 60
	default:
		return value
	}
}

func durationError(input string) error {
	return errors.NewUserErrorWithField("duration", input,
		"could not understand duration", "use a form like '2h', '90m' or '1h30m'")
}
