// Package loader reads a measurement file and turns its lines into records.
package loader

import (
	"strconv"

	log "github.com/sirupsen/logrus"

	"timeseries-aggregation/config"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/models"
	"timeseries-aggregation/parser"
	"timeseries-aggregation/utils"
)

type Loader interface {
	Load(fileName, delimiter string, hasHeaderLine bool, numFields int) ([]models.MeasurementRecord, error)
}

type Impl struct {
	readLines func(fileName string) ([]string, error)
}

var NewLoader = func() Loader {
	return &Impl{readLines: utils.ReadLines}
}

// Load reads fileName and ingests its lines. A fatal line discards everything read so far.
func (i *Impl) Load(fileName, delimiter string, hasHeaderLine bool, numFields int) ([]models.MeasurementRecord, error) {
	lines, err := i.readLines(fileName)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("The file %s could not be read", fileName).
			Mark(ierr.ErrInvalidInput)
	}

	records, count, err := Ingest(lines, delimiter, hasHeaderLine, numFields)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded ", count, " measurements from ", fileName)
	return records, nil
}

// Ingest parses lines into records. Lines with the wrong field count are dropped;
// the first fatal line aborts the ingestion and no records are returned.
func Ingest(lines []string, delimiter string, hasHeaderLine bool, numFields int) ([]models.MeasurementRecord, int, error) {
	if numFields != config.GetFieldCount() {
		return nil, 0, ierr.NewErrorf("expected %d fields per line, got %d", config.GetFieldCount(), numFields).
			WithHint("The number of columns is given incorrectly.").
			Mark(ierr.ErrInvalidInput)
	}
	if hasHeaderLine && len(lines) > 0 {
		lines = lines[1:]
	}

	records := make([]models.MeasurementRecord, 0, len(lines))
	skipped := 0
	for n, line := range lines {
		outcome := parser.Parse(line, delimiter, numFields)
		switch outcome.Kind {
		case parser.Valid:
			records = append(records, outcome.Record)
		case parser.Skipped:
			skipped++
		default:
			lineNumber := n + 1
			if hasHeaderLine {
				lineNumber++
			}
			log.Error("Line ", lineNumber, ": ", outcome.Err)
			return nil, 0, ierr.WithError(outcome.Err).
				WithMessage("line " + strconv.Itoa(lineNumber)).
				Error()
		}
	}

	if skipped > 0 {
		log.Debug("Skipped ", skipped, " line(s) with a field count other than ", numFields)
	}
	return records, len(records), nil
}

