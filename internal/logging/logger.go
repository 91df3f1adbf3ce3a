// Package logging builds the charm logger used by the decoder and the CLI.
// Level, prefix and destination come from MRBDUMP_* environment variables.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Environment variables read by NewLogger.
const (
	EnvLevel  = "MRBDUMP_LOG_LEVEL"
	EnvPrefix = "MRBDUMP_LOG_PREFIX"
	EnvToFile = "MRBDUMP_LOG_TO_FILE"
)

const defaultPrefix = "mrbdump "

// LoggerCloser wraps a logger and the file it may write to.
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// ParseLevel maps a level name to a charm log level. Unknown names mean info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	}
	return log.InfoLevel
}

// NewLoggerWithWriter creates a logger writing to w.
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	lg.SetLevel(ParseLevel(os.Getenv(EnvLevel)))

	prefix := os.Getenv(EnvPrefix)
	if prefix == "" {
		prefix = defaultPrefix
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a logger from the environment:
//
//	MRBDUMP_LOG_LEVEL    debug, info, warn, error (default: info)
//	MRBDUMP_LOG_PREFIX   message prefix (default: "mrbdump ")
//	MRBDUMP_LOG_TO_FILE  "1" logs to a timestamped file instead of stderr
func NewLogger() *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv(EnvToFile) == "1" {
		timestamp := time.Now().Format("20060102-150405")
		logFile := fmt.Sprintf("mrbdump-%s-debug.log", timestamp)

		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// Falls back to stderr.
	}

	return NewLoggerWithWriter(output)
}

// IsDebug reports whether MRBDUMP_LOG_LEVEL asks for debug output.
func IsDebug() bool {
	return ParseLevel(os.Getenv(EnvLevel)) == log.DebugLevel
}
