// Package parser turns one delimited line of the power consumption file into
// a measurement record or a classified failure.
package parser

import (
	"math"
	"strconv"
	"strings"

	"timeseries-aggregation/calendar"
	"timeseries-aggregation/config"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/models"
)

// Kind classifies the outcome of parsing one line
type Kind int

const (
	// Valid lines carry a record
	Valid Kind = iota
	// Skipped lines had the wrong number of fields and are dropped
	Skipped
	// DelimiterMismatch lines abort the whole ingestion
	DelimiterMismatch
)

func (k Kind) String() string {
	switch k {
	case Valid:
		return "valid"
	case Skipped:
		return "skipped"
	case DelimiterMismatch:
		return "delimiter_mismatch"
	}
	return "unknown"
}

// Outcome is the result of parsing one line
type Outcome struct {
	Kind   Kind
	Record models.MeasurementRecord
	Err    error
}

// Fatal reports whether the outcome must abort the ingestion
func (o Outcome) Fatal() bool {
	return o.Kind == DelimiterMismatch
}

var channelNames = [7]string{
	"global active power",
	"global reactive power",
	"voltage",
	"global intensity",
	"sub metering 1",
	"sub metering 2",
	"sub metering 3",
}

// Parse splits line by delimiter and validates it into a record
func Parse(line, delimiter string, fieldCount int) Outcome {
	if fieldCount != config.GetFieldCount() {
		return fatal(ierr.NewErrorf("expected %d fields per line, got %d", config.GetFieldCount(), fieldCount).
			WithHint("The number of columns is given incorrectly.").
			Mark(ierr.ErrInvalidInput))
	}
	if delimiter == "" {
		return fatal(ierr.NewError("empty delimiter").
			WithHint("There is no delimiter given.").
			Mark(ierr.ErrDelimiterMismatch))
	}
	// blank lines, typically a trailing newline, carry no data
	if strings.TrimSpace(line) == "" {
		return Outcome{Kind: Skipped}
	}
	items := strings.Split(line, delimiter)

	// The date and time fragments cannot be addressed, so the file uses another delimiter
	if len(items) < 2 {
		return fatal(ierr.NewErrorf("line split into %d field(s) by %q", len(items), delimiter).
			WithHint("The delimiter you set was wrong for the specific input file.").
			Mark(ierr.ErrDelimiterMismatch))
	}

	if len(items) != fieldCount {
		return Outcome{Kind: Skipped}
	}

	date, err := parseDate(items[0])
	if err != nil {
		return fatal(err)
	}
	clock, err := parseTime(items[1])
	if err != nil {
		return fatal(err)
	}

	var values [7]float64
	for n := range values {
		values[n], err = parseValue(items[2+n], channelNames[n])
		if err != nil {
			return fatal(err)
		}
	}

	return Outcome{
		Kind: Valid,
		Record: models.MeasurementRecord{
			Date:                date,
			Time:                clock,
			GlobalActivePower:   values[0],
			GlobalReactivePower: values[1],
			Voltage:             values[2],
			GlobalIntensity:     values[3],
			SubMetering1:        values[4],
			SubMetering2:        values[5],
			SubMetering3:        values[6],
		},
	}
}

func fatal(err error) Outcome {
	return Outcome{Kind: DelimiterMismatch, Err: err}
}

func parseDate(field string) (models.DateModel, error) {
	parts := strings.Split(field, config.GetDateDelimiter())
	if len(parts) != 3 {
		return models.DateModel{}, headerMismatch("date", field)
	}
	month, ok := fragment(parts[1], 2, 1, 12)
	if !ok {
		return models.DateModel{}, headerMismatch("date", field)
	}
	year, ok := fragment(parts[2], 9, 1, math.MaxInt32)
	if !ok {
		return models.DateModel{}, headerMismatch("date", field)
	}
	if _, ok = fragment(parts[0], 2, 1, calendar.DaysInMonth(month, year)); !ok {
		return models.DateModel{}, headerMismatch("date", field)
	}
	return models.DateModel{Day: parts[0], Month: parts[1], Year: parts[2]}, nil
}

func parseTime(field string) (models.TimeModel, error) {
	parts := strings.Split(field, config.GetTimeDelimiter())
	if len(parts) != 3 {
		return models.TimeModel{}, headerMismatch("time", field)
	}
	for n, max := range [3]int{23, 59, 59} {
		if _, ok := fragment(parts[n], 2, 0, max); !ok {
			return models.TimeModel{}, headerMismatch("time", field)
		}
	}
	return models.TimeModel{Hour: parts[0], Minute: parts[1], Second: parts[2]}, nil
}

func headerMismatch(fragment, field string) error {
	return ierr.NewErrorf("%s fragment %q is not a valid %s", fragment, field, fragment).
		WithHint("The file has a header line though you provided that it didn't.").
		Mark(ierr.ErrHeaderMismatch)
}

func parseValue(field, name string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHintf("The %s value %q is not a number", name, field).
			Mark(ierr.ErrNumericConversion)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, ierr.NewErrorf("%s value %q is not a finite non-negative number", name, field).
			WithHintf("The %s value %q is not a valid measurement", name, field).
			Mark(ierr.ErrNumericConversion)
	}
	return f, nil
}

// fragment parses a date or time fragment of at most maxDigits digits within [min, max]
func fragment(s string, maxDigits, min, max int) (int, bool) {
	if s == "" || len(s) > maxDigits {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < min || n > max {
		return 0, false
	}
	return n, true
}
