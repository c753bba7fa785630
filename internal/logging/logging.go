// Package logging is a small leveled logger that gets injected where
// needed. No package-level default; whoever constructs a component
// decides where its logs go.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseLevel maps a config string to a Level, defaulting to Info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return Debug
	case "warn", "warning":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

// Logger is the logging surface the rest of the module depends on.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Std wraps the standard log package with a level threshold.
type Std struct {
	logger *log.Logger
	level  Level
}

// New writes to w at the given threshold.
func New(w io.Writer, level Level) *Std {
	return &Std{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
	}
}

func (s *Std) logf(l Level, format string, args ...any) {
	if l < s.level {
		return
	}
	s.logger.Printf("[%s] %s", l, fmt.Sprintf(format, args...))
}

func (s *Std) Debugf(format string, args ...any) { s.logf(Debug, format, args...) }
func (s *Std) Infof(format string, args ...any)  { s.logf(Info, format, args...) }
func (s *Std) Warnf(format string, args ...any)  { s.logf(Warn, format, args...) }
func (s *Std) Errorf(format string, args ...any) { s.logf(Error, format, args...) }

// Nop discards everything; handy default for library callers and tests.
type Nop struct{}

func (Nop) Debugf(string, ...any) {}
func (Nop) Infof(string, ...any)  {}
func (Nop) Warnf(string, ...any)  {}
func (Nop) Errorf(string, ...any) {}
