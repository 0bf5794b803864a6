package aggregator

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeseries-aggregation/calendar"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/models"
	"timeseries-aggregation/parser"
)

func record(day, month, year, hour string, kitchen, laundry, climate float64) models.MeasurementRecord {
	return models.MeasurementRecord{
		Date:         models.DateModel{Day: day, Month: month, Year: year},
		Time:         models.TimeModel{Hour: hour, Minute: "00", Second: "00"},
		SubMetering1: kitchen,
		SubMetering2: laundry,
		SubMetering3: climate,
	}
}

func sampleRecords() []models.MeasurementRecord {
	return []models.MeasurementRecord{
		record("16", "12", "2006", "17", 0, 1, 17),
		record("1", "1", "2007", "03", 2, 0, 18),
		record("15", "01", "2007", "09", 4, 3, 0),
		record("2", "4", "2007", "13", 1.5, 0, 6),
		record("14", "7", "2008", "21", 0, 38, 12),
		record("29", "2", "2008", "06", 7, 0, 0.5),
		record("30", "10", "2008", "18", 0, 2, 19),
	}
}

func TestGroup_EndToEndPeriodOfDayAverage(t *testing.T) {
	lines := []string{
		"16/12/2006\t17:24:00\t4.216\t0.418\t234.84\t18.4\t0\t1\t17",
		"16/12/2006\t18:00:00\t3.0\t0.0\t230.0\t12.0\t0\t0\t0",
	}
	var records []models.MeasurementRecord
	for _, line := range lines {
		out := parser.Parse(line, "\t", 9)
		require.Equal(t, parser.Valid, out.Kind)
		records = append(records, out.Record)
	}

	result, err := Group(records, calendar.KindPeriodOfDay, Avg, "evening usage")
	require.NoError(t, err)

	assert.Equal(t, []calendar.Key{calendar.Evening}, result.Keys())
	assert.Len(t, result.DetailedResults()[calendar.Evening], 2)
	assert.Equal(t, 0.0, result.AggregateMeterKitchen()[calendar.Evening])
	assert.Equal(t, 0.5, result.AggregateMeterLaundry()[calendar.Evening])
	assert.Equal(t, 8.5, result.AggregateMeterClimateControl()[calendar.Evening])
	assert.Equal(t, Avg, result.AggregateFunction())
	assert.Equal(t, "evening usage", result.Description())
}

func TestGroup_MonthSumsAddUpToGrandTotal(t *testing.T) {
	records := sampleRecords()

	result, err := Group(records, calendar.KindMonth, Sum, "monthly totals")
	require.NoError(t, err)

	for _, ch := range models.Channels {
		total := lo.SumBy(records, ch.Value)
		bucketSum := 0.0
		for _, v := range result.Aggregate(ch) {
			bucketSum += v
		}
		assert.InDelta(t, total, bucketSum, 1e-9, string(ch))
	}
}

func TestGroup_AverageOfTwoMembers(t *testing.T) {
	records := []models.MeasurementRecord{
		record("1", "1", "2007", "10", 2.0, 0, 0),
		record("2", "1", "2007", "11", 4.0, 0, 0),
	}

	result, err := Group(records, calendar.KindSeason, Avg, "winter")
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.AggregateMeterKitchen()[calendar.Winter])
}

func TestGroup_StatisticKeysMatchBuckets(t *testing.T) {
	for _, kind := range calendar.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			result, err := Group(sampleRecords(), kind, Avg, "keys")
			require.NoError(t, err)

			keys := result.Keys()
			assert.Len(t, keys, result.Size())
			for _, ch := range models.Channels {
				meterKeys := lo.Keys(result.Aggregate(ch))
				assert.ElementsMatch(t, keys, meterKeys, string(ch))
			}
		})
	}
}

func TestGroup_DayOfWeek(t *testing.T) {
	records := []models.MeasurementRecord{
		record("1", "1", "2007", "10", 1, 0, 0), // Monday
		record("8", "1", "2007", "10", 3, 0, 0), // Monday
		record("7", "1", "2007", "10", 5, 0, 0), // Sunday
	}

	result, err := Group(records, calendar.KindDayOfWeek, Sum, "weekdays")
	require.NoError(t, err)
	assert.Equal(t, map[calendar.Key]float64{"MON": 4, "SUN": 5}, result.AggregateMeterKitchen())
}

func TestGroup_InvalidConfiguration(t *testing.T) {
	_, err := Group(sampleRecords(), "fortnight", Sum, "bad kind")
	assert.True(t, ierr.IsInvalidInput(err))

	_, err = Group(sampleRecords(), calendar.KindMonth, "median", "bad function")
	assert.True(t, ierr.IsInvalidInput(err))
}

func TestGroup_InvalidRecordDate(t *testing.T) {
	records := []models.MeasurementRecord{record("1", "13", "2007", "10", 1, 0, 0)}

	_, err := Group(records, calendar.KindMonth, Sum, "bad month")
	assert.True(t, ierr.IsInvalidInput(err))
}

func TestGroup_NoRecords(t *testing.T) {
	result, err := Group(nil, calendar.KindMonth, Avg, "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Size())
	assert.Empty(t, result.AggregateMeterKitchen())
}

func TestResult_RecalculateAfterAdd(t *testing.T) {
	result := NewResult(Avg, "incremental")

	assert.Equal(t, 1, result.Add(calendar.Morning, record("1", "1", "2007", "10", 2, 0, 0)))
	require.NoError(t, result.Calculate())
	assert.Equal(t, 2.0, result.AggregateMeterKitchen()[calendar.Morning])

	// idempotent while membership is unchanged
	require.NoError(t, result.Calculate())
	assert.Equal(t, 2.0, result.AggregateMeterKitchen()[calendar.Morning])

	assert.Equal(t, 2, result.Add(calendar.Morning, record("1", "1", "2007", "11", 4, 0, 0)))
	require.NoError(t, result.Calculate())
	assert.Equal(t, 3.0, result.AggregateMeterKitchen()[calendar.Morning])
}

func TestResult_CopiesAreIsolated(t *testing.T) {
	result, err := Group(sampleRecords(), calendar.KindSeason, Sum, "copies")
	require.NoError(t, err)

	detailed := result.DetailedResults()
	delete(detailed, calendar.Winter)
	meter := result.AggregateMeterKitchen()
	meter[calendar.Winter] = -1

	assert.Contains(t, result.DetailedResults(), calendar.Winter)
	assert.NotEqual(t, -1.0, result.AggregateMeterKitchen()[calendar.Winter])
}

func TestAggregator_AggregateByTimeUnit(t *testing.T) {
	a := NewAggregator()
	a.SetTimeUnitType(calendar.KindSeason)
	assert.Equal(t, calendar.KindSeason, a.TimeUnitType())

	result, err := a.AggregateByTimeUnit(sampleRecords(), Sum, "seasons")
	require.NoError(t, err)
	assert.Equal(t,
		[]calendar.Key{calendar.Winter, calendar.Spring, calendar.Summer, calendar.Autumn},
		result.Keys())
	assert.Equal(t, 13.0, result.AggregateMeterKitchen()[calendar.Winter])
}

func TestParseFunction(t *testing.T) {
	fn, err := ParseFunction("avg")
	require.NoError(t, err)
	assert.Equal(t, Avg, fn)

	_, err = ParseFunction("AVG")
	assert.True(t, ierr.IsInvalidInput(err))
}
