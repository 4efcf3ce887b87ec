package internal

import (
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	LogError LogLevel = iota
	LogWarn
	LogInfo
	LogDebug
	LogTrace
)

// Logger is a leveled wrapper over the stdlib logger. Each subsystem
// creates its own with a component tag so lines are attributable.
type Logger struct {
	level     LogLevel
	component string
}

func NewLogger(component string, level LogLevel) *Logger {
	return &Logger{level: level, component: component}
}

// NewDefaultLogger reads LOG_LEVEL from the environment, defaulting to info.
func NewDefaultLogger(component string) *Logger {
	level := LogInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "error":
		level = LogError
	case "warn":
		level = LogWarn
	case "info":
		level = LogInfo
	case "debug":
		level = LogDebug
	case "trace":
		level = LogTrace
	}
	return NewLogger(component, level)
}

func (l *Logger) logf(level LogLevel, tag, format string, args ...interface{}) {
	if l.level < level {
		return
	}
	log.Printf("["+l.component+"] "+tag+" "+format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(LogError, "ERROR:", format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(LogWarn, "WARN:", format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(LogInfo, "", format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(LogDebug, "DEBUG:", format, args...)
}

func (l *Logger) Trace(format string, args ...interface{}) {
	l.logf(LogTrace, "TRACE:", format, args...)
}

var DefaultLogger = NewDefaultLogger("tabular")
