// Package logx is a component-tagged slog front end shared by the display
// stack. The default level is warn so bring-up stays quiet unless asked.
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
	ComponentBus       Component = "bus"
	ComponentPanel     Component = "panel"
	ComponentLight     Component = "backlight"
	ComponentTouch     Component = "touch"
	ComponentAssembly  Component = "assembly"
	ComponentBoard     Component = "board"
	ComponentBoardTool Component = "boardcheck"
	ComponentDisplay   Component = "display"
)

var (
	mu     sync.RWMutex
	level  = new(slog.LevelVar)
	logger *slog.Logger
)

func init() {
	level.Set(slog.LevelWarn)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetLevel sets the minimum level of the default logger.
func SetLevel(l slog.Level) { level.Set(l) }

// Level returns the current minimum level.
func Level() slog.Level { return level.Level() }

// SetLogger replaces the logger. A nil logger restores a stderr text logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	logger = l
}

// New returns a text logger on w that honours the shared level.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(c Component, msg string, args ...any) {
	get().Debug(msg, append([]any{"component", string(c)}, args...)...)
}

func Info(c Component, msg string, args ...any) {
	get().Info(msg, append([]any{"component", string(c)}, args...)...)
}

func Warn(c Component, msg string, args ...any) {
	get().Warn(msg, append([]any{"component", string(c)}, args...)...)
}
