// Package aggregator groups measurements by a calendar time unit and computes
// the sum or average of the sub-metering channels per group.
package aggregator

import (
	log "github.com/sirupsen/logrus"

	"timeseries-aggregation/calendar"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/models"
)

// Function is the aggregate applied per bucket and channel
type Function string

const (
	Sum Function = "sum"
	Avg Function = "avg"
)

// ParseFunction validates an aggregate function given by the user
func ParseFunction(s string) (Function, error) {
	switch Function(s) {
	case Sum, Avg:
		return Function(s), nil
	}
	return "", ierr.NewErrorf("unknown aggregate function %q", s).
		WithHint("Use one of `avg`, `sum`").
		Mark(ierr.ErrInvalidInput)
}

// Aggregator aggregates measurements by its configured time unit
type Aggregator struct {
	timeUnitType calendar.Kind
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) SetTimeUnitType(timeUnitType calendar.Kind) {
	a.timeUnitType = timeUnitType
}

// TimeUnitType returns the granularity by which the aggregator groups measurements
func (a *Aggregator) TimeUnitType() calendar.Kind {
	return a.timeUnitType
}

// AggregateByTimeUnit groups records by the configured time unit
func (a *Aggregator) AggregateByTimeUnit(records []models.MeasurementRecord, fn Function, description string) (*Result, error) {
	return Group(records, a.timeUnitType, fn, description)
}

// Group buckets records by kind and calculates fn per bucket for every channel.
// Unknown kinds or functions fail before any record is grouped.
func Group(records []models.MeasurementRecord, kind calendar.Kind, fn Function, description string) (*Result, error) {
	if _, err := calendar.ParseKind(string(kind)); err != nil {
		log.Error(err)
		return nil, err
	}
	if _, err := ParseFunction(string(fn)); err != nil {
		log.Error(err)
		return nil, err
	}

	result := NewResult(fn, description)
	for _, record := range records {
		key, err := calendar.KeyFor(kind, record)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		result.Add(key, record)
	}

	if err := result.Calculate(); err != nil {
		log.Error(err)
		return nil, err
	}

	log.Debug("Aggregated ", len(records), " measurements into ", result.Size(), " time units by ", kind)
	return result, nil
}
