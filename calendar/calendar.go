// Package calendar maps date and time fragments of a measurement to the
// named time units used as aggregation buckets.
package calendar

import (
	"sort"
	"strconv"

	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/models"
)

// Key is the name of a time unit bucket, e.g. WINTER, JAN, MON or EVENING
type Key string

// Kind selects how records are bucketed
type Kind string

const (
	KindSeason      Kind = "season"
	KindMonth       Kind = "month"
	KindDayOfWeek   Kind = "dayofweek"
	KindPeriodOfDay Kind = "periodofday"
)

// Kinds lists every supported bucketing kind
var Kinds = []Kind{KindSeason, KindMonth, KindDayOfWeek, KindPeriodOfDay}

const (
	Winter Key = "WINTER"
	Spring Key = "SPRING"
	Summer Key = "SUMMER"
	Autumn Key = "AUTUMN"

	Night        Key = "NIGHT"
	EarlyMorning Key = "EARLY_MORNING"
	Morning      Key = "MORNING"
	Afternoon    Key = "AFTERNOON"
	Evening      Key = "EVENING"
)

var seasons = [12]Key{Winter, Winter, Spring, Spring, Spring, Summer, Summer, Summer, Autumn, Autumn, Autumn, Winter}

var months = [12]Key{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// index 0 is code 1 (Monday)
var weekdays = [7]Key{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

var periodsOfDay = [24]Key{
	Night, Night, Night, Night, Night,
	EarlyMorning, EarlyMorning, EarlyMorning, EarlyMorning,
	Morning, Morning, Morning, Morning,
	Afternoon, Afternoon, Afternoon, Afternoon,
	Evening, Evening, Evening, Evening,
	Night, Night, Night,
}

// monthOffsets is the month code table of the congruential day-of-week formula, January first
var monthOffsets = [12]int{0, 3, 2, 5, 0, 3, 5, 1, 4, 6, 2, 4}

// ParseKind validates a bucketing kind given by the user
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ierr.NewErrorf("unknown time unit %q", s).
		WithHint("Use one of `season`, `month`, `dayofweek`, `periodofday`").
		Mark(ierr.ErrInvalidInput)
}

// Season maps a month ("1".."12" or "01".."12") to its season
func Season(month string) (Key, error) {
	m, err := numberInRange(month, "month", 1, 12)
	if err != nil {
		return "", err
	}
	return seasons[m-1], nil
}

// MonthName maps a month ("1".."12" or "01".."12") to its three letter name
func MonthName(month string) (Key, error) {
	m, err := numberInRange(month, "month", 1, 12)
	if err != nil {
		return "", err
	}
	return months[m-1], nil
}

// Weekday returns MON..SUN for a date.
// Jan and Feb count as months 13 and 14 of the previous year, so the year
// is decremented before the leap day corrections are added.
func Weekday(day, month, year int) (Key, error) {
	if month < 1 || month > 12 {
		return "", outOfRange("month", strconv.Itoa(month))
	}
	if year < 1 {
		return "", outOfRange("year", strconv.Itoa(year))
	}
	if day < 1 || day > DaysInMonth(month, year) {
		return "", outOfRange("day", strconv.Itoa(day))
	}

	if month < 3 {
		year--
	}
	code := (year + year/4 - year/100 + year/400 + monthOffsets[month-1] + day) % 7
	if code == 0 {
		// Sunday
		code = 7
	}
	return weekdays[code-1], nil
}

// DaysInMonth returns the length of month (1-12) in the Gregorian year, 0 for an unknown month
func DaysInMonth(month, year int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
	if month < 1 || month > 12 {
		return 0
	}
	return 31
}

// WeekdayOf is Weekday over the string fragments of a date
func WeekdayOf(day, month, year string) (Key, error) {
	d, err := number(day, "day")
	if err != nil {
		return "", err
	}
	m, err := number(month, "month")
	if err != nil {
		return "", err
	}
	y, err := number(year, "year")
	if err != nil {
		return "", err
	}
	return Weekday(d, m, y)
}

// PeriodOfDay maps an hour ("0".."23" or "00".."23") to a period of the day
func PeriodOfDay(hour string) (Key, error) {
	h, err := numberInRange(hour, "hour", 0, 23)
	if err != nil {
		return "", err
	}
	return periodsOfDay[h], nil
}

// KeyFor derives the bucket of a record for the given kind
func KeyFor(kind Kind, record models.MeasurementRecord) (Key, error) {
	switch kind {
	case KindSeason:
		return Season(record.Date.Month)
	case KindMonth:
		return MonthName(record.Date.Month)
	case KindDayOfWeek:
		return WeekdayOf(record.Date.Day, record.Date.Month, record.Date.Year)
	case KindPeriodOfDay:
		return PeriodOfDay(record.Time.Hour)
	}
	_, err := ParseKind(string(kind))
	return "", err
}

// calendarOrder ranks every known key for SortKeys
var calendarOrder = func() map[Key]int {
	order := map[Key]int{}
	add := func(keys ...Key) {
		for _, k := range keys {
			if _, ok := order[k]; !ok {
				order[k] = len(order)
			}
		}
	}
	add(Winter, Spring, Summer, Autumn)
	add(months[:]...)
	add(weekdays[:]...)
	add(Night, EarlyMorning, Morning, Afternoon, Evening)
	return order
}()

// SortKeys orders keys by calendar position. Unknown keys go last, alphabetically.
func SortKeys(keys []Key) {
	sort.SliceStable(keys, func(a, b int) bool {
		ra, okA := calendarOrder[keys[a]]
		rb, okB := calendarOrder[keys[b]]
		switch {
		case okA && okB:
			return ra < rb
		case okA != okB:
			return okA
		default:
			return keys[a] < keys[b]
		}
	})
}

func number(s, field string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHintf("The %s %q is not a number", field, s).
			Mark(ierr.ErrInvalidInput)
	}
	return n, nil
}

func numberInRange(s, field string, min, max int) (int, error) {
	// only the canonical and zero padded forms are accepted
	if len(s) == 0 || len(s) > 2 {
		return 0, outOfRange(field, s)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, outOfRange(field, s)
		}
	}
	n, err := number(s, field)
	if err != nil {
		return 0, err
	}
	if n < min || n > max {
		return 0, outOfRange(field, s)
	}
	return n, nil
}

func outOfRange(field, value string) error {
	return ierr.NewErrorf("%s %q is out of range", field, value).
		WithHintf("The %s %q is not a valid calendar value", field, value).
		Mark(ierr.ErrInvalidInput)
}
