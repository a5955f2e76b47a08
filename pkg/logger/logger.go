// Package logger builds the zerolog logger shared by the dbtour command and
// the tours it runs.
//
// Tours print their results to a report writer; the logger only carries
// diagnostics (connections, timings, suppressed errors), so it defaults to
// stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

type LogBuild struct {
	writer  io.Writer
	path    string
	level   string
	console bool
}

type LogData struct {
	writer  io.Writer
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{level: "info"}
}

func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// WithLevel sets the minimum level by name ("debug", "info", "warn", ...).
// An empty name keeps the default of "info".
func (build *LogBuild) WithLevel(level string) *LogBuild {
	if level != "" {
		build.level = level
	}
	return build
}

// Console switches from JSON lines to zerolog's human readable writer.
func (build *LogBuild) Console(enabled bool) *LogBuild {
	build.console = enabled
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	level, err := zerolog.ParseLevel(strings.ToLower(build.level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", build.level, err)
	}

	logData = new(LogData)
	logData.writer = os.Stderr
	if build.writer != nil {
		logData.writer = build.writer
	}
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		logData.writer = zerolog.SyncWriter(logData.LogFile)
	}
	if build.console {
		logData.writer = zerolog.ConsoleWriter{Out: logData.writer, TimeFormat: time.RFC3339}
	}
	logData.Logger = zerolog.New(logData.writer).Level(level).With().Timestamp().Logger()
	return
}

// Close releases the log file opened by FromPath, if any.
func (logData *LogData) Close() error {
	if logData.LogFile == nil {
		return nil
	}
	return logData.LogFile.Close()
}
