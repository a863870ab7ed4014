// Package logging builds the zap logger shared by every expwiz command.
package logging

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects level and destination.
type Options struct {
	Level string
	// File receives the log. When empty, Stderr decides between stderr and
	// discarding everything, since the TUI owns the terminal.
	File   string
	Stderr bool
}

// New builds a production logger tagged with a fresh session id.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.File == "" && !opts.Stderr {
		return zap.NewNop(), nil
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.File != "" {
		config.OutputPaths = []string{opts.File}
		config.ErrorOutputPaths = []string{opts.File}
	} else {
		config.Encoding = "console"
		config.OutputPaths = []string{"stderr"}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("session", uuid.NewString())), nil
}

// ParseLevel accepts zap level names; empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}
