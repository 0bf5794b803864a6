// Package engine is the front door of the aggregation tool. It validates each
// request, then drives the loader, the aggregator, the reporter and the history.
package engine

import (
	"io"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"timeseries-aggregation/aggregator"
	"timeseries-aggregation/calendar"
	"timeseries-aggregation/config"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/history"
	"timeseries-aggregation/loader"
	"timeseries-aggregation/models"
	"timeseries-aggregation/reporter"
)

// LoadRequest describes a measurement file to load
type LoadRequest struct {
	Path       string `validate:"required,file"`
	Delimiter  string `validate:"required"`
	HasHeader  bool
	FieldCount int `validate:"eq=9"`
}

// AggregateRequest describes how loaded records are grouped
type AggregateRequest struct {
	Records     []models.MeasurementRecord `validate:"required"`
	Kind        calendar.Kind              `validate:"oneof=season month dayofweek periodofday"`
	Function    aggregator.Function        `validate:"oneof=sum avg"`
	Description string                     `validate:"required"`
}

type reportRequest struct {
	ExportType string `validate:"oneof=txt md html xlsx"`
	Path       string `validate:"required"`
}

// AutorunOptions drive the unattended load, aggregate and report run
type AutorunOptions struct {
	Input       string
	Delimiter   string
	HasHeader   bool
	Output      string
	Description string
	ExportType  string
}

// hints shown to the user when a request field fails validation
var hints = map[string]string{
	"Path":        "There does not exist a file with this name.",
	"Delimiter":   "There is no delimiter given.",
	"FieldCount":  "The number of columns is given incorrectly.",
	"Records":     "There are no measurements loaded.",
	"Kind":        "The aggregator time type must be one of season, month, dayofweek, periodofday.",
	"Function":    "The aggregate function must be avg or sum.",
	"Description": "A description about the measurements was not given.",
	"ExportType":  "The export type is neither html nor md nor txt nor xlsx.",
}

type Engine struct {
	loader     loader.Loader
	aggregator *aggregator.Aggregator
	reporter   *reporter.Reporter
	history    history.Store
	validate   *validator.Validate
}

func NewEngine(store history.Store) *Engine {
	return &Engine{
		loader:     loader.NewLoader(),
		aggregator: aggregator.NewAggregator(),
		reporter:   reporter.NewReporter(),
		history:    store,
		validate:   validator.New(),
	}
}

func (e *Engine) validateRequest(req any) error {
	err := e.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !ierr.As(err, &validateErrs) {
		return ierr.WithError(err).
			WithHint("Request validation failed").
			Mark(ierr.ErrSystem)
	}
	hint := "Request validation failed"
	if h, ok := hints[validateErrs[0].Field()]; ok {
		hint = h
	}
	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrInvalidInput)
}

func newRunLogger(step string) *log.Entry {
	return log.WithFields(log.Fields{
		"run_id": uuid.New().String(),
		"step":   step,
	})
}

// LoadData reads the measurement file of req and returns the number of records loaded
func (e *Engine) LoadData(req LoadRequest) (int, []models.MeasurementRecord, error) {
	runLog := newRunLogger("load")
	if err := e.validateRequest(req); err != nil {
		runLog.Error(err)
		return 0, nil, err
	}

	runLog.Info("Loading ", req.Path)
	records, err := e.loader.Load(req.Path, req.Delimiter, req.HasHeader, req.FieldCount)
	if err != nil {
		runLog.Error(err)
		return 0, nil, err
	}
	runLog.Info("Loaded ", len(records), " records")
	return len(records), records, nil
}

// AggregateByTimeUnit groups the records of req and calculates the statistics
func (e *Engine) AggregateByTimeUnit(req AggregateRequest) (*aggregator.Result, error) {
	runLog := newRunLogger("aggregate")
	if err := e.validateRequest(req); err != nil {
		runLog.Error(err)
		return nil, err
	}

	e.aggregator.SetTimeUnitType(req.Kind)
	result, err := e.aggregator.AggregateByTimeUnit(req.Records, req.Function, req.Description)
	if err != nil {
		runLog.Error(err)
		return nil, err
	}
	runLog.Info("Aggregated ", len(req.Records), " records into ", result.Size(), " ", req.Kind, " buckets")
	return result, nil
}

// ReportResultInFile writes result to a new file at path
func (e *Engine) ReportResultInFile(result *aggregator.Result, exportType, path string) error {
	runLog := newRunLogger("report")
	if result == nil {
		err := ierr.NewError("no result to report").
			WithHint("There are no results in memory measured.").
			Mark(ierr.ErrInvalidInput)
		runLog.Error(err)
		return err
	}
	if err := e.validateRequest(reportRequest{ExportType: exportType, Path: path}); err != nil {
		runLog.Error(err)
		return err
	}

	e.reporter.SetExportType(exportType)
	if err := e.reporter.ReportResultInFile(result, path); err != nil {
		runLog.Error(err)
		return err
	}
	runLog.Info("Wrote ", exportType, " report ", path)
	return nil
}

// AddToHistory saves the metadata of a written report with its absolute path
func (e *Engine) AddToHistory(description, path, exportType string) error {
	runLog := newRunLogger("history")
	if e.history == nil {
		return ierr.NewError("no history store").Mark(ierr.ErrSystem)
	}

	outputPath, err := filepath.Abs(path)
	if err != nil {
		runLog.Error(err)
		return ierr.WithError(err).
			WithHintf("The path %s could not be resolved", path).
			Mark(ierr.ErrInvalidInput)
	}

	metadata := models.ReportMetadata{
		Description: description,
		ExportType:  exportType,
		OutputPath:  outputPath,
	}
	if err = e.history.SaveReport(metadata); err != nil {
		runLog.Error(err)
		return err
	}
	runLog.Debug("Added ", outputPath, " to the history")
	return nil
}

// ListReports prints the report history to w
func (e *Engine) ListReports(w io.Writer) error {
	if e.history == nil {
		return ierr.NewError("no history store").Mark(ierr.ErrSystem)
	}
	return history.List(e.history, w)
}

// Autorun loads opts.Input, aggregates it by day of week average, writes the
// report and records it in the history
func (e *Engine) Autorun(opts AutorunOptions) error {
	runLog := newRunLogger("autorun")

	numRows, records, err := e.LoadData(LoadRequest{
		Path:       opts.Input,
		Delimiter:  opts.Delimiter,
		HasHeader:  opts.HasHeader,
		FieldCount: config.GetFieldCount(),
	})
	if err != nil {
		return err
	}
	runLog.Info("Size to process: ", numRows)

	result, err := e.AggregateByTimeUnit(AggregateRequest{
		Records:     records,
		Kind:        calendar.KindDayOfWeek,
		Function:    aggregator.Avg,
		Description: opts.Description,
	})
	if err != nil {
		return err
	}
	runLog.Info("Time units with measurements: ", result.Size())

	if err = e.ReportResultInFile(result, opts.ExportType, opts.Output); err != nil {
		return err
	}
	return e.AddToHistory(opts.Description, opts.Output, opts.ExportType)
}
