package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/nutrilog/internal/constants"
)

// Logger is the process-wide logger. Nil until Init runs; the helpers below
// are no-ops in that case.
var Logger *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string
}

// Init sets up the global logger. Output goes to a rotating file under
// <ConfigDir>/logs; debug mode lowers the level and mirrors to stderr.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, constants.LogDirName)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	rotating := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.LogFileName),
		MaxSize:    2, // MB; entries are small, images are never logged
		MaxBackups: 5,
		MaxAge:     30,
	}

	// The TUI owns the terminal, so stderr is only mirrored in debug mode
	var writer io.Writer = rotating
	level := log.InfoLevel
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, rotating)
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})

	return nil
}

// Component returns a child logger tagged with the given component name.
// It falls back to a discarding logger when Init has not been called.
func Component(name string) *log.Logger {
	if Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return Logger.With("component", name)
}

func Debug(msg string, keyvals ...any) { logAt(log.DebugLevel, msg, keyvals...) }
func Info(msg string, keyvals ...any)  { logAt(log.InfoLevel, msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { logAt(log.WarnLevel, msg, keyvals...) }
func Error(msg string, keyvals ...any) { logAt(log.ErrorLevel, msg, keyvals...) }

func logAt(level log.Level, msg string, keyvals ...any) {
	if Logger == nil {
		return
	}
	Logger.Log(level, msg, keyvals...)
}
