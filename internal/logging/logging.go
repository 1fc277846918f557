// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup applies level and format ("text" or "json") to the standard logger
// and directs it to out. A nil out leaves the current output alone.
func Setup(level, format string, out io.Writer) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	var formatter log.Formatter
	switch strings.ToLower(format) {
	case "", "text":
		formatter = &log.TextFormatter{FullTimestamp: true}
	case "json":
		formatter = &log.JSONFormatter{}
	default:
		return fmt.Errorf("logging: unknown format %q", format)
	}

	log.SetLevel(lvl)
	log.SetFormatter(formatter)
	if out != nil {
		log.SetOutput(out)
	}
	return nil
}

// OpenFile returns the writer for a log file path. An empty path means
// stderr. The returned close func is always safe to call.
func OpenFile(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stderr, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return f, f.Close, nil
}

// Discard silences the logger. The TUI uses it so log lines do not tear
// the alt screen when no log file is configured.
func Discard() {
	log.SetOutput(io.Discard)
}
