// Package logging builds the process logger.
//
// Logs never go to stdout: in stdio mode stdout carries the MCP protocol.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	Level string
	// File, when set, sends logs to a rotating file instead of stderr.
	File    string
	Service string
}

// New returns a JSON logrus logger and a cleanup func that closes the log
// file, if any. The cleanup func is always non-nil.
func New(opts Options) (*logrus.Logger, func(), error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, noop, fmt.Errorf("parsing log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(Formatter())

	var out io.Writer = os.Stderr
	cleanup := noop
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		out = file
		cleanup = func() { _ = file.Close() }
	}
	logger.SetOutput(out)

	if opts.Service != "" {
		logger.AddHook(serviceHook(opts.Service))
	}
	return logger, cleanup, nil
}

// Formatter is the JSON layout shared by every log line.
func Formatter() logrus.Formatter {
	return &logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "message",
		},
	}
}

// serviceHook stamps every entry with the service name.
type serviceHook string

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = string(h)
	}
	return nil
}

func noop() {}
