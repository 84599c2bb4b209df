package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"alacflac/internal/logging"
)

type commandContext struct {
	logLevel  string
	logFormat string
	logFile   string
	// lockDir overrides where run locks live. Empty means the OS temp dir.
	lockDir string

	loggerOnce sync.Once
	log        *slog.Logger
	logErr     error
	closeLog   func() error
}

type logFlags struct {
	Level  string `flag:"log-level" validate:"oneof=off none debug info warn warning error"`
	Format string `flag:"log-format" validate:"oneof=console json"`
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// ensureLogger builds the process logger once. Records go to stderr and,
// with --log-file, to that file as JSON.
func (c *commandContext) ensureLogger(stderr io.Writer) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		if err := validateFlags(logFlags{
			Level:  strings.ToLower(strings.TrimSpace(c.logLevel)),
			Format: strings.ToLower(strings.TrimSpace(c.logFormat)),
		}); err != nil {
			c.logErr = err
			return
		}
		c.log, c.closeLog, c.logErr = logging.New(logging.Options{
			Level:     c.logLevel,
			Format:    c.logFormat,
			Writer:    stderr,
			FilePath:  c.logFile,
			FileLevel: c.fileLevel(),
		})
	})
	return c.log, c.logErr
}

// closeLogger flushes and closes the log file. Safe to call when no
// logger was built.
func (c *commandContext) closeLogger() error {
	if c.closeLog == nil {
		return nil
	}
	err := c.closeLog()
	c.closeLog = nil
	return err
}

// runLogger returns a logger tagged with a fresh run ID.
func (c *commandContext) runLogger() *slog.Logger {
	logger := c.log
	if logger == nil {
		logger = logging.NewNop()
	}
	return logger.With(logging.String(logging.FieldRunID, uuid.NewString()))
}

// fileLevel keeps --log-file useful when console logging is off.
func (c *commandContext) fileLevel() string {
	if logging.ParseLevel(c.logLevel) == logging.LevelOff {
		return "info"
	}
	return ""
}
