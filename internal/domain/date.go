package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat selects how observation-date strings are interpreted.
type DateFormat string

const (
	// DateFormatAuto applies the positional heuristic: a 4-character first
	// field means year-first, anything else day-first. Strings like
	// "01-02-2020" are resolved by position alone, not calendar plausibility.
	DateFormatAuto DateFormat = "auto"
	// DateFormatYMD forces YYYY-MM-DD.
	DateFormatYMD DateFormat = "ymd"
	// DateFormatDMY forces DD-MM-YYYY.
	DateFormatDMY DateFormat = "dmy"
)

// ParseDateFormat validates a date-format setting.
func ParseDateFormat(s string) (DateFormat, error) {
	switch f := DateFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case DateFormatAuto, DateFormatYMD, DateFormatDMY:
		return f, nil
	default:
		return "", fmt.Errorf("unknown date format %q (want auto, ymd, or dmy)", s)
	}
}

// DateFormatError reports an observation-date string that could not be
// normalized. It is point-local: the point's monthly series is still
// extracted and only its matched value is left empty.
type DateFormatError struct {
	Input  string
	Reason string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("observation date %q: %s", e.Input, e.Reason)
}

// ParsedDate is a normalized observation date.
type ParsedDate struct {
	Year  int
	Month time.Month
	Day   int
}

// MonthKey returns the calendar month the date falls in.
func (d ParsedDate) MonthKey() MonthKey { return MonthKey{Year: d.Year, Month: d.Month} }

// ParseObservationDate normalizes a point's raw observation-date string.
// Accepted forms are "YYYY-MM-DD" and "DD-MM-YYYY"; format decides between
// them, with DateFormatAuto falling back to the first-field-length
// heuristic. Failures are reported as *DateFormatError.
func ParseObservationDate(raw string, format DateFormat) (ParsedDate, error) {
	trimmed := strings.TrimSpace(raw)
	fields := strings.Split(trimmed, "-")
	if len(fields) != 3 {
		return ParsedDate{}, &DateFormatError{Input: raw, Reason: "want three hyphen-separated fields"}
	}

	nums := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return ParsedDate{}, &DateFormatError{Input: raw, Reason: fmt.Sprintf("field %q is not numeric", f)}
		}
		nums[i] = n
	}

	yearFirst := false
	switch format {
	case DateFormatYMD:
		yearFirst = true
	case DateFormatDMY:
		yearFirst = false
	default:
		yearFirst = len(fields[0]) == 4
	}

	var d ParsedDate
	if yearFirst {
		d = ParsedDate{Year: nums[0], Month: time.Month(nums[1]), Day: nums[2]}
	} else {
		d = ParsedDate{Year: nums[2], Month: time.Month(nums[1]), Day: nums[0]}
	}

	if d.Month < time.January || d.Month > time.December {
		return ParsedDate{}, &DateFormatError{Input: raw, Reason: fmt.Sprintf("month %d out of range", int(d.Month))}
	}
	if d.Day < 1 || d.Day > 31 {
		return ParsedDate{}, &DateFormatError{Input: raw, Reason: fmt.Sprintf("day %d out of range", d.Day)}
	}
	if d.Year <= 0 {
		return ParsedDate{}, &DateFormatError{Input: raw, Reason: "year must be positive"}
	}
	return d, nil
}
