package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"timeseries-aggregation/client"
	"timeseries-aggregation/config"
	"timeseries-aggregation/database"
	"timeseries-aggregation/engine"
	ierr "timeseries-aggregation/errors"
	"timeseries-aggregation/history"
	"timeseries-aggregation/logger"
	"timeseries-aggregation/repository"
	"timeseries-aggregation/utils"
)

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
	version   string // custom version number of the program

	flgVersion bool
	flgAutorun bool
)

func main() {

	parseCmdLineFlags()

	//Store the current time before running the program in order to track execution time
	timer := time.Now()

	//The environment is given as a parameter (defaults to DEV)
	environment := getEnvironment()

	//Get the configurations for the given environment
	configurations := config.GetConfig(environment)

	// Create the log file if it doesn't exist. Append to it if it already exists.
	logFileLogger, _ := logger.NewLogger(configurations.MAX_LOGFILE_SIZE)
	defer logFileLogger.Close()

	if configurations.DEBUG_LOGGING {
		log.SetLevel(log.DebugLevel)
	}

	logFileLogger.Info("Using configurations from config files with prefix: " + environment)
	logFileLogger.Info("version = " + version)
	logFileLogger.Info("buildTime = " + buildTime)
	logFileLogger.Info("sha1Version = " + sha1ver)

	store, closeStore, err := openHistory(configurations)
	if err != nil {
		fmt.Fprintln(os.Stderr, ierr.Hint(err))
		logFileLogger.Fatal(err)
		return
	}
	defer closeStore()

	e := engine.NewEngine(store)
	autorun := engine.AutorunOptions{
		Input:       configurations.AUTORUN_INPUT,
		Delimiter:   configurations.DELIMITER,
		HasHeader:   configurations.HAS_HEADER,
		Output:      configurations.AUTORUN_OUTPUT,
		Description: configurations.AUTORUN_DESCRIPTION,
		ExportType:  configurations.AUTORUN_EXPORT_TYPE,
	}

	if flgAutorun {
		if err = e.Autorun(autorun); err != nil {
			fmt.Fprintln(os.Stderr, ierr.Hint(err))
			logFileLogger.Error(err)
		}
	} else if err = client.NewClient(e, os.Stdin, os.Stdout, autorun).Run(); err != nil {
		logFileLogger.Error(err)
	}

	utils.PrintMemUsage(&logFileLogger)

	//Print the time it took to run the program
	logFileLogger.Info(" Execution time: " + time.Since(timer).String())
}

// openHistory returns the report history selected by HISTORY_BACKEND and a function releasing it
func openHistory(configurations config.Configuration) (history.Store, func(), error) {
	switch configurations.HISTORY_BACKEND {
	case "", config.GetHistoryBackendFile():
		store, err := history.NewFileStore(configurations.HISTORY_FILE)
		return store, func() {}, err

	case config.GetHistoryBackendOracle():
		connectionString, err := configurations.ConnectionString()
		if err != nil {
			return nil, nil, ierr.WithError(err).WithHint(err.Error()).Mark(ierr.ErrInvalidInput)
		}
		db, err := database.InitDB(connectionString)
		if err != nil {
			return nil, nil, ierr.WithError(err).
				WithHint("The history database is not available").
				Mark(ierr.ErrStorage)
		}
		repo := repository.NewRepository(db)
		if err = repo.InitHistorySQLs(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, closeRepository(repo, db), nil
	}

	return nil, nil, ierr.NewErrorf("unknown history backend %q", configurations.HISTORY_BACKEND).
		WithHintf("HISTORY_BACKEND must be %s or %s", config.GetHistoryBackendFile(), config.GetHistoryBackendOracle()).
		Mark(ierr.ErrInvalidInput)
}

func closeRepository(repo repository.Repository, db *sql.DB) func() {
	return func() {
		repo.Close()
		db.Close()
	}
}

func getEnvironment() string {
	environment := config.GetDefaultEnvironment()
	if flag.NArg() > 0 {
		environment = flag.Arg(0)
	}
	return environment
}

func parseCmdLineFlags() {
	flag.BoolVar(&flgVersion, "version", false, "if true, print version and exit")
	flag.BoolVar(&flgAutorun, "autorun", false, "if true, run the configured autorun report and exit")
	flag.Parse()
	if flgVersion {
		fmt.Printf("Version %s - build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}
}
