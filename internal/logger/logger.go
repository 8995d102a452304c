// Package logger wraps charmbracelet/log with a rotating file sink. Every
// helper is a no-op until Init or InitWriter runs, so library code can log
// unconditionally.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/routine/internal/constants"
)

// Logger is the process-wide logger. Nil until initialized.
var Logger *log.Logger

type Config struct {
	// Debug lowers the level to debug and mirrors output to stderr.
	Debug bool
	// Level is a charmbracelet/log level name. Empty means info. Debug wins.
	Level     string
	ConfigDir string
}

// LogFile is the path of the rotated log for configDir.
func LogFile(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init logs to a rotated file under <ConfigDir>/logs.
func Init(cfg Config) error {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if cfg.Debug {
		level = log.DebugLevel
	}

	path := LogFile(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	var w io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	if cfg.Debug {
		w = io.MultiWriter(os.Stderr, w)
	}

	Logger = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// InitWriter points the logger at w. Used by tests.
func InitWriter(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
}

func Debug(msg string, keyvals ...any) { Scope{}.Debug(msg, keyvals...) }
func Info(msg string, keyvals ...any)  { Scope{}.Info(msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { Scope{}.Warn(msg, keyvals...) }
func Error(msg string, keyvals ...any) { Scope{}.Error(msg, keyvals...) }

// Scope tags every entry with a component name. The zero value logs untagged.
// A Scope resolves Logger on each call, so it may be created before Init.
type Scope struct {
	component string
}

func For(component string) Scope {
	return Scope{component: component}
}

func (s Scope) log(level log.Level, msg string, keyvals []any) {
	if Logger == nil {
		return
	}
	if s.component != "" {
		keyvals = append([]any{"component", s.component}, keyvals...)
	}
	Logger.Log(level, msg, keyvals...)
}

func (s Scope) Debug(msg string, keyvals ...any) { s.log(log.DebugLevel, msg, keyvals) }
func (s Scope) Info(msg string, keyvals ...any)  { s.log(log.InfoLevel, msg, keyvals) }
func (s Scope) Warn(msg string, keyvals ...any)  { s.log(log.WarnLevel, msg, keyvals) }
func (s Scope) Error(msg string, keyvals ...any) { s.log(log.ErrorLevel, msg, keyvals) }
