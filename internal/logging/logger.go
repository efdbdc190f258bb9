// Package logging wraps logrus with this repo's own structured-field
// and operation-timing conventions. Grounded on the teacher's
// internal/utils/logger.go Logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger embeds *logrus.Logger, adding the operation-timing and
// run-summary helpers the pipeline and CLI demo call.
type Logger struct {
	*logrus.Logger
}

// Config controls level and optional file output.
type Config struct {
	Level    string
	FilePath string
}

// DefaultConfig is an info-level logger writing to stderr.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// New builds a configured Logger. An unparsable Level falls back to
// info rather than failing the whole run over a typo'd flag.
func New(cfg Config) (*Logger, error) {
	base := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		},
	})

	logger := &Logger{Logger: base}

	if cfg.FilePath != "" {
		if err := logger.setupFileOutput(cfg.FilePath); err != nil {
			return nil, err
		}
	}

	return logger, nil
}

func (l *Logger) setupFileOutput(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("logging: create dir %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("logging: open %s: %w", path, err)
	}

	l.SetOutput(file)
	return nil
}

// WithFields is a typed convenience wrapper over logrus.Fields.
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields(fields))
}

// LogOperation logs the start and outcome of fn, returning fn's error
// unchanged.
func (l *Logger) LogOperation(operation string, fn func() error) error {
	start := time.Now()
	l.Infof("starting %s", operation)

	err := fn()

	elapsed := time.Since(start)
	if err != nil {
		l.WithFields(map[string]interface{}{"duration": elapsed}).Errorf("%s failed: %v", operation, err)
	} else {
		l.WithFields(map[string]interface{}{"duration": elapsed}).Infof("%s completed", operation)
	}
	return err
}

// LogPipelineSummary logs the one-line run summary the CLI demo prints
// at the end of a scan.
func (l *Logger) LogPipelineSummary(summary fmt.Stringer) {
	l.Info(summary.String())
}
