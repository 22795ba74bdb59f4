// Package logger provides charmbracelet/log loggers shared by the choices binaries.
//
// Loggers write to stderr: stdout belongs to the IPC stream in server mode.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a charm logger with the given prefix at the global log level.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix, log.GetLevel())
}

// NewWithWriter creates a charm logger writing to w.
func NewWithWriter(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: level == log.DebugLevel,
		Formatter:       log.TextFormatter,
	})
}

// Discard returns a logger that drops everything, for tests and embedding.
func Discard() *log.Logger {
	return NewWithWriter(io.Discard, "", log.FatalLevel)
}
