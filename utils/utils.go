package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"timeseries-aggregation/logger"
)

const maxLineLength = 1024 * 1024

// ReadLines returns every line of the file with the line ending removed
func ReadLines(fileName string) ([]string, error) {
	file, err := os.Open(fileName)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err = scanner.Err(); err != nil {
		log.Error(err)
		return nil, err
	}
	return lines, nil
}

// WriteText creates fileName and writes text to it. An existing file is never overwritten.
func WriteText(fileName string, text string) error {
	if dir := filepath.Dir(fileName); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Error(err)
			return err
		}
	}
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		log.Error(err)
		return err
	}
	if _, err = file.WriteString(text); err != nil {
		file.Close()
		log.Error(err)
		return err
	}
	return file.Close()
}

// AppendLine appends one line to fileName, creating the file when needed
func AppendLine(fileName string, line string) error {
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		log.Error(err)
		return err
	}
	if _, err = file.WriteString(line + "\n"); err != nil {
		file.Close()
		log.Error(err)
		return err
	}
	return file.Close()
}

// FileExists reports whether fileName exists and is a regular file
func FileExists(fileName string) bool {
	info, err := os.Stat(fileName)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// PathExists reports whether anything exists at path
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PrintMemUsage logs the current memory statistics
func PrintMemUsage(logFileLogger *logger.Logger) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	(*logFileLogger).Debug(fmt.Sprintf("Alloc = %v MiB, TotalAlloc = %v MiB, Sys = %v MiB, NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC))
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
