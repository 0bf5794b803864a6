package repository

import (
	"database/sql"
	"sync"

	log "github.com/sirupsen/logrus"

	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/models"
	"timeseries-aggregation/sqls"
)

var mutexHistoryInserts sync.Mutex

// Repository stores the report history in the database
type Repository interface {
	InitHistorySQLs() error
	SaveReport(metadata models.ReportMetadata) error
	Reports() []models.ReportMetadata
	Close()
}

var NewRepository = func(db *sql.DB) Repository {
	return &Impl{
		Db: db,
	}
}

type Impl struct {
	Db *sql.DB

	sqlstmtInsertReport, sqlstmtSelectReports *sql.Stmt
}

func (i *Impl) Close() {
	if i.sqlstmtInsertReport != nil {
		i.sqlstmtInsertReport.Close()
	}
	if i.sqlstmtSelectReports != nil {
		i.sqlstmtSelectReports.Close()
	}
}

func (i *Impl) InitHistorySQLs() error {
	var err error

	//Prepare the SQL query that inserts to the history table
	i.sqlstmtInsertReport, err = i.Db.Prepare(sqls.GetSQLInsertReport())
	if err != nil {
		log.Error(err)
		return ierr.WithError(err).Mark(ierr.ErrStorage)
	}

	//Prepare the SQL query that lists the history table
	i.sqlstmtSelectReports, err = i.Db.Prepare(sqls.GetSQLSelectReports())
	if err != nil {
		log.Error(err)
		return ierr.WithError(err).Mark(ierr.ErrStorage)
	}

	return nil
}

// SaveReport inserts one row in the history table
func (i *Impl) SaveReport(metadata models.ReportMetadata) error {
	mutexHistoryInserts.Lock()
	defer mutexHistoryInserts.Unlock()

	if i.sqlstmtInsertReport == nil {
		return ierr.NewError("history statements are not prepared").Mark(ierr.ErrSystem)
	}

	_, err := i.sqlstmtInsertReport.Exec(metadata.Description, metadata.ExportType, metadata.OutputPath)
	if err != nil {
		log.Error(err)
		return ierr.WithError(err).
			WithHint("The report could not be added to the history table").
			Mark(ierr.ErrStorage)
	}

	return nil
}

// Reports returns the history in insert order. Failures are logged and yield what was read so far.
func (i *Impl) Reports() []models.ReportMetadata {
	var reports []models.ReportMetadata
	if i.sqlstmtSelectReports == nil {
		log.Error("history statements are not prepared")
		return reports
	}

	rows, err := i.sqlstmtSelectReports.Query()
	if err != nil {
		log.Error(err)
		return reports
	}
	defer rows.Close()

	//Loop through the result from the executed SQL query
	for rows.Next() {
		var report models.ReportMetadata
		if err = rows.Scan(&report.Description, &report.ExportType, &report.OutputPath); err != nil {
			log.Error(err)
			return reports
		}
		reports = append(reports, report)
	}
	if err = rows.Err(); err != nil {
		log.Error(err)
	}
	return reports
}
