// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"docverify/internal/config"
)

var logg = newLogger(os.Stdout)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	l.SetOutput(out)
	return l
}

// Setup applies the configured level and format. Unknown levels fall back to info.
func Setup(cfg config.LogConfig) *logrus.Logger {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)
	if strings.EqualFold(cfg.Format, "json") {
		logg.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logg
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(out io.Writer) {
	logg.SetOutput(out)
}

// Logger returns the shared logger.
func Logger() *logrus.Logger {
	return logg
}

// For returns an entry tagged with the component name, e.g. "service.FactService".
func For(component string) *logrus.Entry {
	return logg.WithField("component", component)
}
