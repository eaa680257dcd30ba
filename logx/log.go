// Package logx is the structured logger shared by the HAL packages.
package logx

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component identifies a subsystem for log filtering.
type Component string

const (
	ComponentUSART  Component = "usart"
	ComponentRCC    Component = "rcc"
	ComponentUSB    Component = "usbotg"
	ComponentConfig Component = "config"
	ComponentProbe  Component = "probe"
	ComponentHAL    Component = "hal"
)

var (
	logger *slog.Logger
	level  = new(slog.LevelVar)
	mu     sync.RWMutex
)

func init() {
	level.Set(slog.LevelWarn)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetLogLevel sets the minimum level of the default logger.
func SetLogLevel(l slog.Level) { level.Set(l) }

// LogLevel returns the current minimum level.
func LogLevel() slog.Level { return level.Level() }

// SetLogger replaces the logger. A nil logger restores stderr text output.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// New returns a text logger on w sharing the package level.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Logger returns the current logger tagged with component.
func Logger(c Component) *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	return l.With("component", string(c))
}

func Debug(c Component, msg string, args ...any) { Logger(c).Debug(msg, args...) }
func Info(c Component, msg string, args ...any)  { Logger(c).Info(msg, args...) }
func Warn(c Component, msg string, args ...any)  { Logger(c).Warn(msg, args...) }
func Error(c Component, msg string, args ...any) { Logger(c).Error(msg, args...) }
