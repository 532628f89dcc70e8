package util

import (
	"io"
	"os"
)

// Logger gates plain fmt-style diagnostic output by Verbosity, the same
// direct-to-writer style the rest of this codebase uses for progress output
// rather than a structured logging library.
type Logger struct {
	Level Verbosity
	Out   io.Writer
}

// NewLogger returns a Logger writing to os.Stderr at the given level.
func NewLogger(level Verbosity) *Logger {
	return &Logger{Level: level, Out: os.Stderr}
}

func (l *Logger) log(level Verbosity, format string, args ...any) {
	if l == nil || l.Level < level {
		return
	}
	out := l.Out
	if out == nil {
		out = os.Stderr
	}
	MustFprintf(out, format+"\n", args...)
}

// Warning logs at VerboseWarning and above.
func (l *Logger) Warning(format string, args ...any) { l.log(VerboseWarning, format, args...) }

// Outer logs at VerboseOuter and above, intended for one line per outer
// controller iteration.
func (l *Logger) Outer(format string, args ...any) { l.log(VerboseOuter, format, args...) }

// Full logs at VerboseFull and above, intended for per-episode detail.
func (l *Logger) Full(format string, args ...any) { l.log(VerboseFull, format, args...) }

// Debug logs at VerboseDebug, the most detailed level.
func (l *Logger) Debug(format string, args ...any) { l.log(VerboseDebug, format, args...) }
