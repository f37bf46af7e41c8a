/*
DESCRIPTION
  logging.go wires a default rotating file logger for the FIASCO
  decoder and sequencer: a lumberjack.Logger provides rotation, and
  github.com/ausocean/utils/logging provides the leveled Logger
  interface threaded through the rest of the codec.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

// Package logging provides the leveled logger used by the decoder and
// sequencer. It re-exports github.com/ausocean/utils/logging's level
// constants and Logger interface, and adds a convenience constructor
// that backs the logger with a rotating file via lumberjack.
package logging

import (
	"io"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the interface the decoder, sequencer and container reader
// accept for diagnostic output.
type Logger = logging.Logger

// Level constants, re-exported for callers that don't want to import
// the upstream package directly.
const (
	Debug   = logging.Debug
	Info    = logging.Info
	Warning = logging.Warning
	Error   = logging.Error
	Fatal   = logging.Fatal
)

// FileConfig configures a rotating file-backed logger.
type FileConfig struct {
	Path       string // destination log file
	MaxSizeMB  int    // max size in megabytes before rotation
	MaxBackups int    // max number of rotated files to retain
	MaxAgeDays int    // max age in days before a rotated file is deleted
	Level      int8   // minimum level passed through to the logger
	Suppress   bool   // suppress repeated identical messages
}

// NewFile returns a Logger that writes to a lumberjack-rotated file at
// cfg.Path, applying cfg's defaults the way cmd/rv/main.go configures
// its logPath/logMaxSize/logMaxBackup/logMaxAge constants.
func NewFile(cfg FileConfig) Logger {
	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    orDefault(cfg.MaxSizeMB, 100),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		MaxAge:     orDefault(cfg.MaxAgeDays, 28),
	}
	return logging.New(cfg.Level, w, cfg.Suppress)
}

// NewWriter returns a Logger that writes to an arbitrary io.Writer,
// useful for tests that want to discard or capture output.
func NewWriter(level int8, w io.Writer, suppress bool) Logger {
	return logging.New(level, w, suppress)
}

// NoOp returns a Logger that discards everything, the default used by
// the decoder when no Logger option is supplied.
func NoOp() Logger {
	return logging.New(Fatal+1, io.Discard, true)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
