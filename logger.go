package umqtt

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// LogLevel orders log severities. Levels at or above a logger's
// configured minimum are emitted; LogLevelNone silences everything.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelNone
)

var logLevelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "NONE"}

// String returns the level name in upper case.
func (l LogLevel) String() string {
	if l < LogLevelDebug || l > LogLevelNone {
		return "UNKNOWN"
	}
	return logLevelNames[l]
}

// LogFields carries structured context attached to a log line.
type LogFields map[string]any

// Logger receives the client's diagnostic output. Implementations must
// tolerate nil fields.
type Logger interface {
	Debug(msg string, fields LogFields)
	Info(msg string, fields LogFields)
	Warn(msg string, fields LogFields)
	Error(msg string, fields LogFields)
}

// NoOpLogger discards everything. It is the default logger.
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that discards everything.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (NoOpLogger) Debug(string, LogFields) {}
func (NoOpLogger) Info(string, LogFields)  {}
func (NoOpLogger) Warn(string, LogFields)  {}
func (NoOpLogger) Error(string, LogFields) {}

// StdLogger writes "[LEVEL] message key=value ..." lines through the
// standard library log package. Fields are rendered in sorted key order
// so lines are stable.
type StdLogger struct {
	out *log.Logger
	min LogLevel
}

// NewStdLogger creates a logger writing to w at the given minimum level.
// A nil writer falls back to stderr.
func NewStdLogger(w io.Writer, min LogLevel) *StdLogger {
	if w == nil {
		w = os.Stderr
	}
	return &StdLogger{
		out: log.New(w, "", log.LstdFlags),
		min: min,
	}
}

func (s *StdLogger) Debug(msg string, fields LogFields) { s.write(LogLevelDebug, msg, fields) }

func (s *StdLogger) Info(msg string, fields LogFields) { s.write(LogLevelInfo, msg, fields) }

func (s *StdLogger) Warn(msg string, fields LogFields) { s.write(LogLevelWarn, msg, fields) }

func (s *StdLogger) Error(msg string, fields LogFields) { s.write(LogLevelError, msg, fields) }

func (s *StdLogger) write(level LogLevel, msg string, fields LogFields) {
	if level < s.min {
		return
	}

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}

	s.out.Print(b.String())
}

// Field names used by the client's own log lines.
const (
	LogFieldTopic      = "topic"
	LogFieldPacketID   = "packet_id"
	LogFieldPacketType = "packet_type"
	LogFieldQoS        = "qos"
	LogFieldReturnCode = "return_code"
	LogFieldError      = "error"
)
