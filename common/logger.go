package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger is implemented by any logging system that is used for standard logs.
type Logger interface {
	Errorf(string, ...interface{})
	Warningf(string, ...interface{})
	Infof(string, ...interface{})
	Debugf(string, ...interface{})
}

type LoggingLevel int

const (
	DEBUG LoggingLevel = iota
	INFO
	WARNING
	ERROR
)

func (level LoggingLevel) String() string {
	switch level {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARNING:
		return "warning"
	case ERROR:
		return "error"
	}
	return fmt.Sprintf("LoggingLevel(%d)", int(level))
}

// ParseLoggingLevel maps the names accepted on the command line to a level.
func ParseLoggingLevel(name string) (LoggingLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DEBUG, nil
	case "info", "":
		return INFO, nil
	case "warning", "warn":
		return WARNING, nil
	case "error":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name)
}

// DefaultLog writes DEBUG and INFO records to one stream and WARNING and
// ERROR records to another, so connection events land on stdout and
// diagnostics on stderr.
type DefaultLog struct {
	out   *log.Logger
	err   *log.Logger
	level LoggingLevel
}

func DefaultLogger(level LoggingLevel) *DefaultLog {
	return NewLogger(os.Stdout, os.Stderr, level)
}

func NewLogger(out io.Writer, errOut io.Writer, level LoggingLevel) *DefaultLog {
	return &DefaultLog{
		out:   log.New(out, "echo ", log.Ldate|log.Ltime),
		err:   log.New(errOut, "echo ", log.Ldate|log.Ltime),
		level: level,
	}
}

func (l *DefaultLog) Level() LoggingLevel {
	return l.level
}

func (l *DefaultLog) Errorf(f string, v ...interface{}) {
	if l.level <= ERROR {
		l.err.Printf("ERROR: "+f, v...)
	}
}

func (l *DefaultLog) Warningf(f string, v ...interface{}) {
	if l.level <= WARNING {
		l.err.Printf("WARNING: "+f, v...)
	}
}

func (l *DefaultLog) Infof(f string, v ...interface{}) {
	if l.level <= INFO {
		l.out.Printf("INFO: "+f, v...)
	}
}

func (l *DefaultLog) Debugf(f string, v ...interface{}) {
	if l.level <= DEBUG {
		l.out.Printf("DEBUG: "+f, v...)
	}
}
