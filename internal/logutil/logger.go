// Package logutil provides utilities for logging.
package logutil

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/git-series/git-series/internal/ioutil"
)

// Writer builds and returns an io.Writer that
// writes messages to the given logger.
// If the logger is nil, a no-op writer is returned.
//
// The done function must be called when the writer is no longer needed.
// It will flush any buffered text to the logger.
//
// The returned writer is not thread-safe.
func Writer(logger *log.Logger, lvl log.Level) (w io.Writer, done func()) {
	return ioutil.LogWriter(logger, lvl)
}

// TestLogger builds a logger that writes messages
// to the given testing.TB.
func TestLogger(t ioutil.TestOutput) *log.Logger {
	return log.New(ioutil.TestLogWriter(t, ""))
}
