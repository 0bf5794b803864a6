// Package history keeps the metadata of the reports produced so far.
package history

import (
	"fmt"
	"io"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"timeseries-aggregation/config"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/models"
	"timeseries-aggregation/utils"
)

// Store saves and lists report metadata
type Store interface {
	SaveReport(metadata models.ReportMetadata) error
	Reports() []models.ReportMetadata
}

// FileStore keeps the history in memory and in a flat file with one
// description;exportType;outputPath line per report
type FileStore struct {
	mutex    sync.Mutex
	fileName string
	reports  []models.ReportMetadata
}

// NewFileStore loads the reports already present in fileName. A missing file is an empty history.
func NewFileStore(fileName string) (*FileStore, error) {
	s := &FileStore{fileName: fileName}
	if !utils.FileExists(fileName) {
		return s, nil
	}

	lines, err := utils.ReadLines(fileName)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("The history file %s could not be read", fileName).
			Mark(ierr.ErrStorage)
	}
	for n, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		metadata, ok := decode(line)
		if !ok {
			log.Warn("Ignoring malformed history entry on line ", n+1, " of ", fileName)
			continue
		}
		s.reports = append(s.reports, metadata)
	}
	log.Debug("Loaded ", len(s.reports), " report(s) from ", fileName)
	return s, nil
}

// SaveReport appends metadata to the history file and to memory
func (s *FileStore) SaveReport(metadata models.ReportMetadata) error {
	metadata.Description = sanitize(metadata.Description)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := utils.AppendLine(s.fileName, encode(metadata)); err != nil {
		return ierr.WithError(err).
			WithHintf("The report could not be added to the history file %s", s.fileName).
			Mark(ierr.ErrStorage)
	}
	s.reports = append(s.reports, metadata)
	return nil
}

// Reports returns the saved reports in the order they were added
func (s *FileStore) Reports() []models.ReportMetadata {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	reports := make([]models.ReportMetadata, len(s.reports))
	copy(reports, s.reports)
	return reports
}

func encode(metadata models.ReportMetadata) string {
	return strings.Join([]string{metadata.Description, metadata.ExportType, metadata.OutputPath}, config.GetHistoryDelimiter())
}

func decode(line string) (models.ReportMetadata, bool) {
	fields := strings.SplitN(line, config.GetHistoryDelimiter(), 3)
	if len(fields) < 3 {
		return models.ReportMetadata{}, false
	}
	return models.ReportMetadata{
		Description: fields[0],
		ExportType:  fields[1],
		OutputPath:  fields[2],
	}, true
}

func sanitize(description string) string {
	description = strings.ReplaceAll(description, config.GetHistoryDelimiter(), ",")
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(description)
}

// List prints every report of store to w
func List(store Store, w io.Writer) error {
	reports := store.Reports()
	if _, err := fmt.Fprintf(w, "Available reports: %d\n\n", len(reports)); err != nil {
		return err
	}
	for n, report := range reports {
		_, err := fmt.Fprintf(w, "Report: %d\n\t%s\n\tOutput path: %s\n\tExport type: %s\n",
			n+1, report.Description, report.OutputPath, report.ExportType)
		if err != nil {
			return err
		}
	}
	return nil
}
