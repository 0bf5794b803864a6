package aggregator

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"timeseries-aggregation/calendar"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/models"
)

// Result holds the measurements grouped per time unit and, once calculated,
// the aggregate value of every channel per time unit.
type Result struct {
	mutex             sync.RWMutex
	description       string
	aggregateFunction Function
	detailedResults   map[calendar.Key][]models.MeasurementRecord
	meters            map[models.Channel]map[calendar.Key]float64
}

// NewResult creates an empty result for the given function and description
func NewResult(fn Function, description string) *Result {
	meters := make(map[models.Channel]map[calendar.Key]float64, len(models.Channels))
	for _, ch := range models.Channels {
		meters[ch] = map[calendar.Key]float64{}
	}
	return &Result{
		description:       description,
		aggregateFunction: fn,
		detailedResults:   map[calendar.Key][]models.MeasurementRecord{},
		meters:            meters,
	}
}

// Add places record in the bucket of timeUnit and returns the new size of that bucket
func (r *Result) Add(timeUnit calendar.Key, record models.MeasurementRecord) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.detailedResults[timeUnit] = append(r.detailedResults[timeUnit], record)
	return len(r.detailedResults[timeUnit])
}

// Calculate computes the aggregate of every channel for every bucket.
// It can be called again after further Add calls.
func (r *Result) Calculate() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	calculated := make([]map[calendar.Key]float64, len(models.Channels))
	g, _ := errgroup.WithContext(context.Background())
	for n, ch := range models.Channels {
		n, ch := n, ch
		g.Go(func() error {
			meter, err := r.calculateChannel(ch)
			if err != nil {
				return err
			}
			calculated[n] = meter
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for n, ch := range models.Channels {
		r.meters[ch] = calculated[n]
	}
	return nil
}

// calculateChannel only reads detailedResults; the caller holds the lock
func (r *Result) calculateChannel(ch models.Channel) (map[calendar.Key]float64, error) {
	meter := make(map[calendar.Key]float64, len(r.detailedResults))
	for key, records := range r.detailedResults {
		sum := lo.SumBy(records, ch.Value)

		switch r.aggregateFunction {
		case Avg:
			if len(records) == 0 {
				return nil, ierr.NewErrorf("bucket %s has no measurements", key).
					Mark(ierr.ErrSystem)
			}
			meter[key] = sum / float64(len(records))
		case Sum:
			meter[key] = sum
		default:
			return nil, ierr.NewErrorf("unknown aggregate function %q", r.aggregateFunction).
				Mark(ierr.ErrInvalidInput)
		}
	}
	return meter, nil
}

// Description returns the textual description of the result
func (r *Result) Description() string {
	return r.description
}

// AggregateFunction returns the function used to produce the statistics
func (r *Result) AggregateFunction() Function {
	return r.aggregateFunction
}

// DetailedResults returns a copy of the measurements per time unit
func (r *Result) DetailedResults() map[calendar.Key][]models.MeasurementRecord {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	detailed := make(map[calendar.Key][]models.MeasurementRecord, len(r.detailedResults))
	for key, records := range r.detailedResults {
		detailed[key] = append([]models.MeasurementRecord(nil), records...)
	}
	return detailed
}

// Size returns the number of time units with measurements
func (r *Result) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.detailedResults)
}

// Keys returns the time units with measurements in calendar order
func (r *Result) Keys() []calendar.Key {
	r.mutex.RLock()
	keys := lo.Keys(r.detailedResults)
	r.mutex.RUnlock()

	calendar.SortKeys(keys)
	return keys
}

// Aggregate returns a copy of the calculated values of one channel
func (r *Result) Aggregate(ch models.Channel) map[calendar.Key]float64 {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	meter := make(map[calendar.Key]float64, len(r.meters[ch]))
	for key, value := range r.meters[ch] {
		meter[key] = value
	}
	return meter
}

func (r *Result) AggregateMeterKitchen() map[calendar.Key]float64 {
	return r.Aggregate(models.Kitchen)
}

func (r *Result) AggregateMeterLaundry() map[calendar.Key]float64 {
	return r.Aggregate(models.Laundry)
}

func (r *Result) AggregateMeterClimateControl() map[calendar.Key]float64 {
	return r.Aggregate(models.ClimateControl)
}
