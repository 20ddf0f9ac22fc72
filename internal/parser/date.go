// Package parser turns human-friendly CLI input into model values:
// calendar dates (including natural language like "last monday") and
// duration expressions.
package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/timeutil"
)

// ParseDay resolves a date expression to the start of that calendar day.
// It accepts the canonical YYYY-MM-DD form first, then falls back to
// natural language ("yesterday", "last monday", "3 days ago").
func ParseDay(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, errors.NewUserErrorWithField("date", input,
			"date is empty", "use YYYY-MM-DD or a phrase like 'yesterday'")
	}

	if day, ok := timeutil.ParseDate(input); ok {
		return day, nil
	}

	switch strings.ToLower(input) {
	case "today", "now":
		return timeutil.StartOfDay(now), nil
	case "yesterday":
		return timeutil.StartOfDay(now.AddDate(0, 0, -1)), nil
	}

	cfg := &dateparser.Configuration{CurrentTime: now}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, errors.NewUserErrorWithField("date", input,
			"could not understand date", "use YYYY-MM-DD or a phrase like 'last monday'")
	}

	return timeutil.StartOfDay(result.Time), nil
}

// ParseDayString is ParseDay rendered back to the canonical storage form.
func ParseDayString(input string, now time.Time) (string, error) {
	day, err := ParseDay(input, now)
	if err != nil {
		return "", err
	}
	return day.Format(timeutil.DateLayout), nil
}
