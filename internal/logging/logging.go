package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "hlshorts.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// LogDir enables a rotating file sink next to the console output when set.
	LogDir string
	// Console defaults to os.Stderr.
	Console io.Writer
}

// Logger wraps a logrus logger together with its rotating file sink.
type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
}

// New constructs a logrus logger using the provided options.
func New(opts Options) (*Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	l := logrus.New()
	l.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
			ForceColors:     isTerminal(console),
			DisableColors:   !isTerminal(console),
		})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	out := &Logger{Logger: l}
	if dir := strings.TrimSpace(opts.LogDir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		out.file = &lumberjack.Logger{
			Filename:   filepath.Join(dir, logFileName),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		l.SetOutput(io.MultiWriter(console, out.file))
	} else {
		l.SetOutput(console)
	}
	return out, nil
}

// Discard returns a logger that drops everything. Handy for tests.
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{Logger: l}
}

// Logf adapts the logger to the printf-style hook used by the pipeline.
func (l *Logger) Logf(format string, args ...any) {
	if l == nil {
		return
	}
	l.Infof(format, args...)
}

// Close flushes and closes the rotating file sink, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func parseLevel(s string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return logrus.InfoLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("log level: unsupported value %q", s)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
