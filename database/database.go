package database

import (
	"database/sql"

	_ "github.com/godror/godror"
	log "github.com/sirupsen/logrus"

	"timeseries-aggregation/config"
)

// InitDB opens a connection pool to the history database and checks that it answers
func InitDB(dbConnectionString string) (*sql.DB, error) {
	db, err := sql.Open("godror", dbConnectionString)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	db.SetMaxOpenConns(config.GetMaxOpenConnections())
	db.SetMaxIdleConns(config.GetMaxIdleConnections())

	if err = db.Ping(); err != nil {
		log.Error(err)
		db.Close()
		return nil, err
	}
	return db, nil
}
