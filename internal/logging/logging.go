// Package logging configures the structured diagnostic logger shared by
// pivot commands.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logrus logger writing text records to w. Verbose lowers the
// level from info to debug.
func New(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	})
	log.SetLevel(logrus.InfoLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Discard returns a logger that drops everything. Tests and library callers
// without a logger use it.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}
