// Package logtest provides a log.Logger for testing.
package logtest

import (
	"github.com/charmbracelet/log"
	"github.com/git-series/git-series/internal/ioutil"
)

// New builds a logger that writes messages
// to the given testing.TB.
func New(t ioutil.TestOutput) *log.Logger {
	return log.New(ioutil.TestOutputWriter(t, ""))
}
