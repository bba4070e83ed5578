// Package logging configures the shared logrus logger. Log lines go to
// a file under the config directory by default so terminal output stays
// reserved for the command flow.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel names a verbosity threshold.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config controls where and how log lines are written.
type Config struct {
	Level   LogLevel `json:"level"`
	Format  string   `json:"format"`   // "text" or "json"
	Output  string   `json:"output"`   // "file", "console" or "both"
	LogFile string   `json:"log_file"` // used for "file" and "both"
}

// DefaultConfig logs informational text to ~/.config/q/logs/q.log.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Level:   InfoLevel,
		Format:  "text",
		Output:  "file",
		LogFile: filepath.Join(home, ".config", "q", "logs", "q.log"),
	}
}

// Logger is a logrus logger bound to a component name. Every entry it
// produces carries the component as a field.
type Logger struct {
	*logrus.Logger
	component string
}

var (
	shared  *Logger
	outFile *os.File
)

// Init builds the shared logger from cfg. Calling it again replaces the
// previous configuration.
func Init(cfg Config) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(cfg.Format)
	if err != nil {
		return err
	}
	out, err := openOutput(cfg)
	if err != nil {
		return err
	}

	lg := logrus.New()
	lg.SetLevel(level)
	lg.SetFormatter(formatter)
	lg.SetOutput(out)

	shared = &Logger{Logger: lg, component: "q"}
	return nil
}

func parseLevel(level LogLevel) (logrus.Level, error) {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel, nil
	case InfoLevel:
		return logrus.InfoLevel, nil
	case WarnLevel:
		return logrus.WarnLevel, nil
	case ErrorLevel:
		return logrus.ErrorLevel, nil
	}
	return 0, fmt.Errorf("invalid log level: %s", level)
}

func newFormatter(format string) (logrus.Formatter, error) {
	switch format {
	case "text":
		return &TextFormatter{TimestampFormat: "2006-01-02 15:04:05"}, nil
	case "json":
		return &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		}, nil
	}
	return nil, fmt.Errorf("invalid log format: %s", format)
}

// openOutput resolves the destination writer. "both" mirrors the file
// to stderr so debug runs stay visible without tailing the log.
func openOutput(cfg Config) (io.Writer, error) {
	switch cfg.Output {
	case "console":
		return os.Stderr, nil
	case "file", "both":
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to setup file output: %w", err)
		}
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to setup file output: %w", err)
		}
		outFile = file
		if cfg.Output == "both" {
			return io.MultiWriter(file, os.Stderr), nil
		}
		return file, nil
	}
	return nil, fmt.Errorf("invalid log output: %s", cfg.Output)
}

// GetLogger returns the shared logger, initializing it with defaults on
// first use. When even that fails it degrades to plain stderr.
func GetLogger() *Logger {
	if shared == nil {
		if err := Init(DefaultConfig()); err != nil {
			lg := logrus.New()
			lg.SetOutput(os.Stderr)
			shared = &Logger{Logger: lg, component: "q"}
		}
	}
	return shared
}

// WithComponent returns a logger whose entries are tagged with the
// given component name.
func WithComponent(component string) *Logger {
	return &Logger{Logger: GetLogger().Logger, component: component}
}

// tag binds the component field onto a fresh entry.
func (l *Logger) tag() *logrus.Entry {
	return l.Logger.WithField("component", l.component)
}

func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.tag().WithField(key, value)
}

func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	return l.tag().WithFields(fields)
}

func (l *Logger) WithError(err error) *logrus.Entry {
	return l.tag().WithError(err)
}

func (l *Logger) Debug(args ...interface{}) { l.tag().Debug(args...) }
func (l *Logger) Info(args ...interface{})  { l.tag().Info(args...) }
func (l *Logger) Warn(args ...interface{})  { l.tag().Warn(args...) }
func (l *Logger) Error(args ...interface{}) { l.tag().Error(args...) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.tag().Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.tag().Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.tag().Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.tag().Errorf(format, args...) }

// Close releases the log file if one was opened.
func Close() error {
	if outFile == nil {
		return nil
	}
	err := outFile.Close()
	outFile = nil
	return err
}

// TextFormatter renders "TIME [LEVEL] [component] message k=v" lines
// with fields in sorted order.
type TextFormatter struct {
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]", entry.Time.Format(f.TimestampFormat), strings.ToUpper(entry.Level.String()))

	if component, ok := entry.Data["component"].(string); ok {
		fmt.Fprintf(&b, " [%s]", component)
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "component" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, entry.Data[key])
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}
