package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields aliases logrus.Fields so callers don't import logrus directly.
type Fields = logrus.Fields

// Log wraps logrus.Logger.
type Log struct {
	*logrus.Logger
}

// New builds the application logger. Level comes from the LOG_LEVEL
// environment variable (default info). When logFile is non-empty, output is
// duplicated to a size-rotated file.
func New(logFile string) *Log {
	l := logrus.New()

	level := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if logFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    20, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		l.SetOutput(io.MultiWriter(os.Stdout, rotated))
	}

	return &Log{Logger: l}
}

// WithComponent tags all entries of a subsystem.
func (l *Log) WithComponent(name string) *logrus.Entry {
	return l.WithField("component", name)
}
