// Package logging builds the structured logger shared by the CLI and services.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	Level   string
	Format  string
	Verbose bool
	Output  io.Writer
}

// New returns a logger entry tagged with the service name. Unknown levels
// fall back to info; Verbose forces debug.
func New(opts Options) *logrus.Entry {
	logger := logrus.New()
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}

	if strings.EqualFold(opts.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	return logger.WithField("service", "docintel")
}

// Discard returns an entry that drops everything. Tests and library callers
// without a logger use it.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
