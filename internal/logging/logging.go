// Package logging builds the zap logger used by the displaymon CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format string

const (
	FormatAuto    Format = "auto"
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// ParseFormat converts a string to a Format, returning FormatAuto for unknown values.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "console", "text", "human":
		return FormatConsole
	case "json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// ParseLevel converts a string to a zap level, defaulting to Info.
func ParseLevel(s string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// Encoding resolves FormatAuto against whether stderr is a terminal.
func Encoding(format Format, tty bool) string {
	switch format {
	case FormatConsole:
		return "console"
	case FormatJSON:
		return "json"
	}
	if tty {
		return "console"
	}
	return "json"
}

// Config returns the zap production config for the given format and level.
// Output goes to stderr so stdout stays free for events.
func Config(format Format, level zapcore.Level) zap.Config {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Encoding = Encoding(format, IsTTY(os.Stderr))
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if config.Encoding == "console" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.Sampling = nil
	}
	return config
}

// New builds a logger, falling back to a no-op logger if the config is unusable.
func New(format, level string) *zap.Logger {
	logger, err := Config(ParseFormat(format), ParseLevel(level)).Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
