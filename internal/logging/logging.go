// Package logging provides the structured logger shared by every
// renderer component. Unlike a process-wide singleton, each Logger
// belongs to exactly one render.Renderer instance so that independent
// renderers never share log state.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charmbracelet/log with the leveled helpers the rest of
// the renderer calls.
type Logger struct {
	*log.Logger
}

// New creates a logger writing to w with the given prefix, e.g. the
// renderer instance's name or asset root.
func New(w io.Writer, prefix string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
	})
	l.SetLevel(log.InfoLevel)
	return &Logger{l}
}

// Discard returns a logger that drops everything, for tests and
// call sites that don't care about diagnostics.
func Discard() *Logger {
	l := New(io.Discard, "")
	return l
}

func (l *Logger) Debugf(msg string, args ...interface{}) { l.Logger.Debug(sprintfIfArgs(msg, args)) }
func (l *Logger) Infof(msg string, args ...interface{})  { l.Logger.Info(sprintfIfArgs(msg, args)) }
func (l *Logger) Warnf(msg string, args ...interface{})  { l.Logger.Warn(sprintfIfArgs(msg, args)) }
func (l *Logger) Errorf(msg string, args ...interface{}) { l.Logger.Error(sprintfIfArgs(msg, args)) }

func sprintfIfArgs(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
