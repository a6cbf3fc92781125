// ABOUTME: Shared structured logger construction for docright
// ABOUTME: Wraps charmbracelet/log with the docright prefix and level handling
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Debug output is enabled when debug is
// true or DOCRIGHT_DEBUG is set.
func New(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "docright",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	if debug || os.Getenv("DOCRIGHT_DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

// Quiet returns a logger that only reports errors.
func Quiet(w io.Writer) *log.Logger {
	logger := New(w, false)
	logger.SetLevel(log.ErrorLevel)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
