// SPDX-License-Identifier: MIT
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

// LogLevel defines the severity of a log message.
type LogLevel uint32

// Constants for log levels.
const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string (case-insensitive) to a LogLevel.
// Returns LevelInfo and false if the string is not recognized.
func ParseLevel(levelStr string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "FATAL":
		return LevelFatal, true
	default:
		return LevelInfo, false
	}
}

// --- Global Logger State ---

var currentLevel atomic.Uint32

// sink is swapped by SetOutput; the terminal host points it at a file so
// log lines do not tear the alternate screen.
var sink = stdlog.New(os.Stderr, "", stdlog.Ldate|stdlog.Ltime|stdlog.Lmicroseconds)

// exit is replaced in tests.
var exit = os.Exit

func init() {
	SetLevel(LevelInfo)
}

// SetLevel sets the global logging level atomically.
func SetLevel(level LogLevel) {
	currentLevel.Store(uint32(level))
}

// GetLevel gets the current global logging level atomically.
func GetLevel() LogLevel {
	return LogLevel(currentLevel.Load())
}

// SetOutput redirects every logger, named or not, to w.
func SetOutput(w io.Writer) {
	sink.SetOutput(w)
}

func shouldLog(level LogLevel) bool {
	return level >= GetLevel()
}

// output writes one line. Level tags are padded to a common width.
func output(level LogLevel, prefix, msg string) {
	if level != LevelFatal && !shouldLog(level) {
		return
	}
	_ = sink.Output(3, fmt.Sprintf("[%-5s] %s%s", level, prefix, msg))
	if level == LevelFatal {
		exit(1)
	}
}

// --- Package-level functions ---

// Debugf logs a formatted debug message if the level is appropriate.
func Debugf(format string, v ...any) { output(LevelDebug, "", fmt.Sprintf(format, v...)) }

// Infof logs a formatted info message if the level is appropriate.
func Infof(format string, v ...any) { output(LevelInfo, "", fmt.Sprintf(format, v...)) }

// Warnf logs a formatted warning message if the level is appropriate.
func Warnf(format string, v ...any) { output(LevelWarn, "", fmt.Sprintf(format, v...)) }

// Errorf logs a formatted error message if the level is appropriate.
func Errorf(format string, v ...any) { output(LevelError, "", fmt.Sprintf(format, v...)) }

// Fatalf logs a formatted message and exits. It is logged at every level.
func Fatalf(format string, v ...any) { output(LevelFatal, "", fmt.Sprintf(format, v...)) }

// Info logs an info message if the level is appropriate.
func Info(v ...any) { output(LevelInfo, "", fmt.Sprint(v...)) }

// Error logs an error message if the level is appropriate.
func Error(v ...any) { output(LevelError, "", fmt.Sprint(v...)) }

// --- Component loggers ---

// Logger tags every line with a component name, e.g. "[INFO ] ws: listening".
type Logger struct {
	prefix string
}

// Named returns a Logger for component.
func Named(component string) *Logger {
	return &Logger{prefix: component + ": "}
}

// Debugf logs a formatted debug message for the component.
func (l *Logger) Debugf(format string, v ...any) {
	output(LevelDebug, l.prefix, fmt.Sprintf(format, v...))
}

// Infof logs a formatted info message for the component.
func (l *Logger) Infof(format string, v ...any) {
	output(LevelInfo, l.prefix, fmt.Sprintf(format, v...))
}

// Warnf logs a formatted warning for the component.
func (l *Logger) Warnf(format string, v ...any) {
	output(LevelWarn, l.prefix, fmt.Sprintf(format, v...))
}

// Errorf logs a formatted error for the component.
func (l *Logger) Errorf(format string, v ...any) {
	output(LevelError, l.prefix, fmt.Sprintf(format, v...))
}
