package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"timeseries-aggregation/config"
)

var (
	mutexLogging sync.Mutex
	lineCounter  = 0
)

type Impl struct {
	LogFile        *os.File
	MaxLogfileSize int64
}

type Logger interface {
	Fatal(err error)
	Error(logMessage error)
	ErrorWithText(logMessage string)
	Warn(logMessage string)
	Info(logMessage string)
	Debug(logMessage string)
	replaceLogFile() error
	logFileIsTooLarge() bool

	Close()
}

var NewLogger = func(maxLogfileSize int64) (Logger, error) {
	log.SetFormatter(&log.TextFormatter{QuoteEmptyFields: true, FullTimestamp: true})
	log.SetReportCaller(true)
	log.SetLevel(log.InfoLevel)

	err := os.MkdirAll(filepath.Dir(config.GetLogFileName()), 0755)
	var logFile *os.File
	if err == nil {
		logFile, err = os.OpenFile(config.GetLogFileName(), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	}
	if err != nil {
		// Cannot open log file. Logging to stderr
		fmt.Fprintln(os.Stderr, err)
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(logFile)
	}

	return &Impl{
		LogFile:        logFile,
		MaxLogfileSize: maxLogfileSize,
	}, err
}

func (i *Impl) ErrorWithText(logMessage string) {
	i.write(func() { log.Error(logMessage) })
}

func (i *Impl) Error(err error) {
	i.write(func() { log.Error(err) })
}

func (i *Impl) Warn(logMessage string) {
	i.write(func() { log.Warn(logMessage) })
}

func (i *Impl) Info(logMessage string) {
	i.write(func() { log.Info(logMessage) })
}

func (i *Impl) Debug(logMessage string) {
	i.write(func() { log.Debug(logMessage) })
}

func (i *Impl) Fatal(err error) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	log.Fatal(err)
}

func (i *Impl) write(emit func()) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	lineCounter++

	emit()
	if i.logFileIsTooLarge() {
		err := i.replaceLogFile()
		if err != nil {
			log.Error(err)
			return
		}
	}
}

func (i *Impl) replaceLogFile() error {

	log.Info("Archiving existing log file")

	// Replace the log file
	err := i.LogFile.Close()
	if err != nil {
		return err
	}
	newFileName := config.GetLogFileNameWithoutExtension() + "_" + time.Now().Format(config.GetFileDateLayout()) + "." + config.GetLogFileExtension()
	err = os.Rename(i.LogFile.Name(), newFileName)
	if err != nil {
		i.LogFile, _ = os.OpenFile(config.GetLogFileName(), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		log.SetOutput(i.LogFile)
		return err
	}
	// Create a new file
	i.LogFile, err = os.OpenFile(config.GetLogFileName(), os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return err
	}
	log.SetOutput(i.LogFile)
	return nil
}

func (i *Impl) logFileIsTooLarge() bool {
	if i.LogFile == nil {
		return false
	}
	if lineCounter < 100 {
		return false
	}
	lineCounter = 0

	fileInfo, err := os.Stat(i.LogFile.Name())
	if err != nil {
		log.Error("Error:", err)
		return false
	}
	return fileInfo.Size()/(1024*1024) >= i.MaxLogfileSize
}

func (i *Impl) Close() {
	if i.LogFile != nil {
		i.LogFile.Close()
	}
}
