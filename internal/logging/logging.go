// Package logging builds the component loggers shared across the pipeline.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mohammad-safakhou/agentsocial/config"
)

// New returns a logger writing to stderr with the given component prefix.
func New(cfg config.GeneralConfig, prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, cfg, prefix)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, cfg config.GeneralConfig, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          strings.ToUpper(strings.TrimSpace(prefix)),
		Level:           ParseLevel(cfg.LogLevel),
		ReportTimestamp: true,
	})
}

// ParseLevel maps a config level onto a log level, defaulting to info.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
