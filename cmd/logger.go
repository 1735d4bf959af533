package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger creates a logger writing to w. Verbose forces DebugLevel, otherwise
// InfoLevel until applyLogLevel sees the configured level.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// applyLogLevel sets the level from LOG_LEVEL unless verbose already chose debug.
func applyLogLevel(log *logrus.Logger, level string, verbose bool) {
	if verbose {
		return
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("invalid LOG_LEVEL, defaulting to info")

		return
	}

	log.SetLevel(parsed)
}
