// Package logx is a small leveled logger shared by the vc2asm and vc2run
// CLIs, so verbosity is controlled uniformly by a single --log-level flag
// instead of ad-hoc fmt.Fprintf calls scattered through main.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Level is a logging verbosity threshold.
type Level int

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel parses one of off|error|warn|info|debug, defaulting to Info
// for anything unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff
	case "error":
		return LevelError
	case "warn":
		return LevelWarn
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger writes leveled messages to an io.Writer, skipping anything above
// its configured threshold.
type Logger struct {
	level Level
	out   io.Writer
}

// New creates a Logger writing to os.Stderr at the given level.
func New(level Level) *Logger {
	return &Logger{level: level, out: os.Stderr}
}

func (l *Logger) log(level Level, prefix, format string, args ...interface{}) {
	if l.level < level {
		return
	}
	fmt.Fprintf(l.out, "%s: %s\n", prefix, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) { l.log(LevelError, "error", format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(LevelWarn, "warn", format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(LevelInfo, "info", format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(LevelDebug, "debug", format, args...) }
