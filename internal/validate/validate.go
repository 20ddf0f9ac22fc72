// Package validate provides input validation for entries and import
// documents before they reach the store.
package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/timeutil"
)

const (
	// MaxDescriptionLength is the maximum length for an entry description.
	MaxDescriptionLength = 4096
	// MaxCategoryNameLength is the maximum length for a category name.
	MaxCategoryNameLength = 128
)

// Date validates a YYYY-MM-DD date string.
func Date(date string) error {
	if _, ok := timeutil.ParseDate(date); !ok {
		return errors.NewUserErrorWithField("date", date,
			"Invalid date",
			"Use YYYY-MM-DD format like '2026-03-14'")
	}
	return nil
}

// Clock validates an HH:MM clock string. Empty is allowed; entries may
// carry a duration override instead of clock times.
func Clock(field, value string) error {
	if value == "" {
		return nil
	}
	if _, ok := timeutil.ParseClock(value); !ok {
		return errors.NewUserErrorWithField(field, value,
			"Invalid time",
			"Use 24-hour HH:MM format like '09:30'")
	}
	return nil
}

// Rate validates an hourly rate.
func Rate(rate float64) error {
	if rate < 0 {
		return errors.NewUserError("Rate cannot be negative",
			"Provide a non-negative hourly rate")
	}
	return nil
}

// Description validates an entry description.
func Description(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return errors.NewUserError(
			"Description too long",
			"Descriptions must be 4096 characters or fewer")
	}
	return nil
}

// CategoryName validates a category name.
func CategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewUserError("Category name cannot be empty",
			"Provide a category name")
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return errors.NewUserErrorWithField("category", name,
			"Category name too long",
			"Category names must be 128 characters or fewer")
	}
	return nil
}

// Entry validates a time entry before it is written. An entry needs a
// valid date and either a start/end clock pair or a positive duration
// override.
func Entry(entry *model.TimeEntry) error {
	if entry == nil {
		return errors.NewUserError("Entry is empty", "Provide entry fields")
	}
	if err := Date(entry.Date); err != nil {
		return err
	}
	if err := Clock("start", entry.Start); err != nil {
		return err
	}
	if err := Clock("end", entry.End); err != nil {
		return err
	}
	if err := Rate(entry.Rate.Float()); err != nil {
		return err
	}
	if err := Description(entry.Description); err != nil {
		return err
	}

	hasClocks := entry.Start != "" && entry.End != ""
	hasDuration := entry.Duration != nil && entry.Duration.Float() > 0
	if !hasClocks && !hasDuration {
		return errors.NewUserError(
			"Entry has no time information",
			"Provide start and end times, or a duration")
	}
	return nil
}

// ImportDocument validates a decoded entry-import payload. Bad documents
// are rejected as a whole; individually malformed entries inside a valid
// document are skipped by the store, not rejected here.
func ImportDocument(entries []*model.TimeEntry) error {
	if entries == nil {
		return errors.Wrap(errors.ErrImportFormat, "no entries array")
	}
	return nil
}

// NonEmpty validates that a string is not blank.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field)
	}
	return nil
}
