// Package logger provides named, colored leveled loggers.
package logger

import (
	"errors"
	"io"
	"log"
)

const (
	errorColor   = "\033[31m"
	infoColor    = "\033[32m"
	warningColor = "\033[33m"
	colorReset   = "\033[0m"
)

var ErrEmptyName = errors.New("logger name is empty")

// Logger prefixes every line with a colored name and a level tag.
// It satisfies i.Logger.
type Logger struct {
	out *log.Logger
}

// New creates a logger writing to w. color is an ANSI escape used for the name.
func New(name, color string, w io.Writer) (*Logger, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	prefix := color + "[" + name + "]" + colorReset + " "
	return &Logger{out: log.New(w, prefix, log.LstdFlags|log.Lmsgprefix)}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.out.Printf("%s[INFO]%s %s", infoColor, colorReset, msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.out.Printf("%s[WARN]%s %s", warningColor, colorReset, msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.out.Printf("%s[ERROR]%s %s", errorColor, colorReset, msg)
}
