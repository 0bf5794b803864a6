package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeseries-aggregation/aggregator"
	"timeseries-aggregation/calendar"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/history"
)

const sample = "Date\tTime\tGlobal_active_power\tGlobal_reactive_power\tVoltage\tGlobal_intensity\tSub_metering_1\tSub_metering_2\tSub_metering_3\n" +
	"1/1/2007\t00:00:00\t2.580\t0.136\t241.970\t10.600\t0.000\t0.000\t0.000\n" +
	"1/1/2007\t19:00:00\t2.552\t0.100\t241.750\t10.400\t2.000\t1.000\t17.000\n" +
	"7/1/2007\t09:30:00\t1.200\t0.000\t240.000\t5.000\t4.000\t0.000\t0.000\n"

type fixture struct {
	dir     string
	input   string
	engine  *Engine
	history *history.FileStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "household.tsv")
	require.NoError(t, os.WriteFile(input, []byte(sample), 0644))

	store, err := history.NewFileStore(filepath.Join(dir, "___db.dbfile"))
	require.NoError(t, err)
	return fixture{dir: dir, input: input, engine: NewEngine(store), history: store}
}

func (f fixture) load(t *testing.T) LoadRequest {
	return LoadRequest{Path: f.input, Delimiter: "\t", HasHeader: true, FieldCount: 9}
}

func TestLoadData(t *testing.T) {
	f := newFixture(t)

	n, records, err := f.engine.LoadData(f.load(t))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, records, 3)
}

func TestLoadData_InvalidRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(r *LoadRequest)
	}{
		{name: "missing file", mutate: func(r *LoadRequest) { r.Path = filepath.Join(f.dir, "nope.tsv") }},
		{name: "directory", mutate: func(r *LoadRequest) { r.Path = f.dir }},
		{name: "empty path", mutate: func(r *LoadRequest) { r.Path = "" }},
		{name: "no delimiter", mutate: func(r *LoadRequest) { r.Delimiter = "" }},
		{name: "wrong field count", mutate: func(r *LoadRequest) { r.FieldCount = 8 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.load(t)
			tt.mutate(&req)

			n, records, err := f.engine.LoadData(req)
			assert.True(t, ierr.IsInvalidInput(err))
			assert.Zero(t, n)
			assert.Nil(t, records)
		})
	}
}

func TestLoadData_FatalIngestion(t *testing.T) {
	f := newFixture(t)
	req := f.load(t)
	req.HasHeader = false

	_, records, err := f.engine.LoadData(req)
	assert.True(t, ierr.IsHeaderMismatch(err))
	assert.Nil(t, records)

	req.HasHeader = true
	req.Delimiter = ";"
	_, _, err = f.engine.LoadData(req)
	assert.True(t, ierr.IsDelimiterMismatch(err))
}

func TestAggregateByTimeUnit(t *testing.T) {
	f := newFixture(t)
	_, records, err := f.engine.LoadData(f.load(t))
	require.NoError(t, err)

	result, err := f.engine.AggregateByTimeUnit(AggregateRequest{
		Records:     records,
		Kind:        calendar.KindPeriodOfDay,
		Function:    aggregator.Sum,
		Description: "periods",
	})
	require.NoError(t, err)
	assert.Equal(t, []calendar.Key{calendar.Night, calendar.Morning, calendar.Evening}, result.Keys())
	assert.Equal(t, 17.0, result.AggregateMeterClimateControl()[calendar.Evening])
}

func TestAggregateByTimeUnit_InvalidRequests(t *testing.T) {
	f := newFixture(t)
	_, records, err := f.engine.LoadData(f.load(t))
	require.NoError(t, err)

	valid := AggregateRequest{Records: records, Kind: calendar.KindMonth, Function: aggregator.Avg, Description: "d"}
	tests := []struct {
		name   string
		mutate func(r *AggregateRequest)
		hint   string
	}{
		{name: "no records", mutate: func(r *AggregateRequest) { r.Records = nil }, hint: hints["Records"]},
		{name: "bad kind", mutate: func(r *AggregateRequest) { r.Kind = "fortnight" }, hint: hints["Kind"]},
		{name: "bad function", mutate: func(r *AggregateRequest) { r.Function = "median" }, hint: hints["Function"]},
		{name: "no description", mutate: func(r *AggregateRequest) { r.Description = "" }, hint: hints["Description"]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			result, err := f.engine.AggregateByTimeUnit(req)
			assert.Nil(t, result)
			assert.True(t, ierr.IsInvalidInput(err))
			assert.Equal(t, tt.hint, ierr.Hint(err))
		})
	}
}

func TestReportAndHistory(t *testing.T) {
	f := newFixture(t)
	_, records, err := f.engine.LoadData(f.load(t))
	require.NoError(t, err)
	result, err := f.engine.AggregateByTimeUnit(AggregateRequest{
		Records: records, Kind: calendar.KindSeason, Function: aggregator.Avg, Description: "seasons",
	})
	require.NoError(t, err)

	output := filepath.Join(f.dir, "reports", "seasons.md")
	require.NoError(t, f.engine.ReportResultInFile(result, "md", output))
	assert.FileExists(t, output)

	err = f.engine.ReportResultInFile(result, "md", output)
	assert.True(t, ierr.IsInvalidInput(err), "existing path")

	err = f.engine.ReportResultInFile(result, "pdf", filepath.Join(f.dir, "x.pdf"))
	assert.True(t, ierr.IsInvalidInput(err), "unknown export type")

	err = f.engine.ReportResultInFile(nil, "md", filepath.Join(f.dir, "nil.md"))
	assert.True(t, ierr.IsInvalidInput(err), "nil result")

	require.NoError(t, f.engine.AddToHistory("seasons", output, "md"))
	reports := f.history.Reports()
	require.Len(t, reports, 1)
	assert.True(t, filepath.IsAbs(reports[0].OutputPath))
	assert.Equal(t, "md", reports[0].ExportType)

	var buf bytes.Buffer
	require.NoError(t, f.engine.ListReports(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "Available reports: 1\n"))
	assert.Contains(t, buf.String(), "\tseasons\n")
}

func TestAutorun(t *testing.T) {
	f := newFixture(t)
	output := filepath.Join(f.dir, "TestOutput", "full.html")

	err := f.engine.Autorun(AutorunOptions{
		Input:       f.input,
		Delimiter:   "\t",
		HasHeader:   true,
		Output:      output,
		Description: "Day of week average",
		ExportType:  "html",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Day of week average</h1>")
	assert.Contains(t, string(data), "MON")
	assert.Contains(t, string(data), "SUN")
	require.Len(t, f.history.Reports(), 1)

	// a second run refuses to overwrite the report
	err = f.engine.Autorun(AutorunOptions{
		Input: f.input, Delimiter: "\t", HasHeader: true, Output: output,
		Description: "again", ExportType: "html",
	})
	assert.True(t, ierr.IsInvalidInput(err))
	assert.Len(t, f.history.Reports(), 1)
}
