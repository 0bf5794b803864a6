package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"
	"github.com/tkanos/gonfig"
)

type Configuration struct {
	DB_USERNAME         string
	DB_PASSWORD         string
	DB_PORT             string
	DB_ALIAS            string
	DB_SID              string
	DB_HOST             string
	DEBUG_LOGGING       bool
	MAX_LOGFILE_SIZE    int64
	DELIMITER           string
	HAS_HEADER          bool
	FIELD_COUNT         int
	HISTORY_BACKEND     string
	HISTORY_FILE        string
	AUTORUN_INPUT       string
	AUTORUN_OUTPUT      string
	AUTORUN_DESCRIPTION string
	AUTORUN_EXPORT_TYPE string
}

// Default returns the configuration used when no config file is found
func Default() Configuration {
	return Configuration{
		MAX_LOGFILE_SIZE:    10,
		DELIMITER:           "\t",
		HAS_HEADER:          true,
		FIELD_COUNT:         GetFieldCount(),
		HISTORY_BACKEND:     GetHistoryBackendFile(),
		HISTORY_FILE:        GetHistoryFileName(),
		AUTORUN_INPUT:       "./Resources/Data/2007-2009_full.tsv",
		AUTORUN_OUTPUT:      "./Resources/TestOutput/2007-2009_full.html",
		AUTORUN_DESCRIPTION: "Day of week average on full sample",
		AUTORUN_EXPORT_TYPE: "html",
	}
}

// GetConfig reads ./<env>_agg_config.yaml if present, otherwise ./<env>_agg_config.json.
// Values missing from the file keep their defaults.
func GetConfig(params ...string) Configuration {
	configuration := Default()
	env := ""
	if len(params) > 0 {
		env = params[0]
	}

	yamlFileName := fmt.Sprintf("./%s_agg_config.yaml", env)
	if data, err := os.ReadFile(yamlFileName); err == nil {
		if err := yaml.Unmarshal(data, &configuration); err != nil {
			log.Error("Could not parse ", yamlFileName, ": ", err)
		} else {
			log.Info("Using configurations in YAML config file with prefix: ", env)
			return configuration
		}
	}

	fileName := fmt.Sprintf("./%s_agg_config.json", env)
	if err := gonfig.GetConf(fileName, &configuration); err != nil {
		log.Warn("Could not read ", fileName, ", using defaults: ", err)
	}

	log.Info("Using configurations in config file with prefix: ", env)

	return configuration
}

// ConnectionString builds the godror connection string from the DB settings
func (c Configuration) ConnectionString() (string, error) {
	if c.DB_USERNAME == "" {
		return "", fmt.Errorf("DB_USERNAME must be specified in the configuration file")
	}
	if c.DB_PASSWORD == "" {
		return "", fmt.Errorf("DB_PASSWORD must be specified in the configuration file")
	}
	if c.DB_ALIAS != "" && c.DB_HOST != "" {
		return "", fmt.Errorf("DB_ALIAS and DB_HOST cannot both be specified in the configuration file")
	}
	if c.DB_ALIAS != "" {
		return c.DB_USERNAME + "/" + c.DB_PASSWORD + "@" + c.DB_ALIAS, nil
	}
	if c.DB_HOST != "" && c.DB_PORT != "" && c.DB_SID != "" {
		return c.DB_USERNAME + "/" + c.DB_PASSWORD + "@//" + c.DB_HOST + ":" + c.DB_PORT + "/" + c.DB_SID, nil
	}
	return "", fmt.Errorf("DB_ALIAS or DB_HOST+DB_PORT+DB_SID must be specified in the configuration file")
}

//GetFieldCount returns the number of columns in a measurement line
func GetFieldCount() int {
	return 9
}

//GetDateDelimiter returns the delimiter between day, month and year
func GetDateDelimiter() string {
	return "/"
}

//GetTimeDelimiter returns the delimiter between hour, minute and second
func GetTimeDelimiter() string {
	return ":"
}

//GetHistoryDelimiter returns the delimiter used in the history file
func GetHistoryDelimiter() string {
	return ";"
}

//GetHistoryFileName returns the default name of the history file
func GetHistoryFileName() string {
	return "___db.dbfile"
}

//GetHistoryBackendFile returns the history backend name for the flat file
func GetHistoryBackendFile() string {
	return "file"
}

//GetHistoryBackendOracle returns the history backend name for the database table
func GetHistoryBackendOracle() string {
	return "oracle"
}

//GetHistoryTableName returns the name of the table where report metadata is stored
func GetHistoryTableName() string {
	return "AGG_OWN.REPORT_HISTORY"
}

//GetFileDateLayout returns the date layout used in archived log file names
func GetFileDateLayout() string {
	return "20060102150405"
}

//GetLogFileName return the name of the log file
func GetLogFileName() string {
	return GetLogFileNameWithoutExtension() + "." + GetLogFileExtension()
}

//GetLogFileNameWithoutExtension returns the log file path without extension
func GetLogFileNameWithoutExtension() string {
	return "./out/timeseries-aggregation"
}

//GetLogFileExtension returns the extension of the log file
func GetLogFileExtension() string {
	return "log"
}

//GetDefaultEnvironment returns the default environment prefix of the config file
func GetDefaultEnvironment() string {
	return "DEV"
}

//GetMaxOpenConnections returns the connection pool size for the history database
func GetMaxOpenConnections() int {
	return 4
}

//GetMaxIdleConnections returns the idle connection count for the history database
func GetMaxIdleConnections() int {
	return 2
}
