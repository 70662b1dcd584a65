package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var base = logrus.New()

func init() {
	base.SetOutput(os.Stdout)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("ENVIRONMENT") == "development" {
		base.SetLevel(logrus.DebugLevel)
	}
}

// Fields is an alias so callers don't need to import logrus for structured entries.
type Fields = logrus.Fields

// Configure applies the level name from config; unknown names keep the current level.
func Configure(level string, jsonOutput bool) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		base.SetLevel(lvl)
	}
	if jsonOutput {
		base.SetFormatter(&logrus.JSONFormatter{})
	}
}

func Info(format string, v ...interface{}) {
	base.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	base.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	base.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	base.Warnf(format, v...)
}

func Fatal(format string, v ...interface{}) {
	base.Fatalf(format, v...)
}

func WithFields(fields Fields) *logrus.Entry {
	return base.WithFields(fields)
}

func WithError(err error) *logrus.Entry {
	return base.WithError(err)
}

// Logger exposes the underlying logger, e.g. as an io.Writer for echo.
func Logger() *logrus.Logger {
	return base
}
