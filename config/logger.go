// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns a logger named [name] that writes colored output to
// stderr and JSON to a rotating file under the log directory.
func (c *Config) NewLogger(name string) (logging.Logger, error) {
	dir := c.LogDir
	if len(dir) == 0 {
		dir = filepath.Join(c.DataDir, "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	consoleCore := logging.NewWrappedCore(c.LogDisplayLevel, os.Stderr, logging.Colors.ConsoleEncoder())
	rw := &lumberjack.Logger{
		Filename:   filepath.Join(dir, name+".log"),
		MaxSize:    c.LogMaxSize,  // megabytes
		MaxAge:     c.LogMaxAge,   // days
		MaxBackups: c.LogMaxFiles, // files
		Compress:   c.LogCompress,
	}
	fileCore := logging.NewWrappedCore(c.LogLevel, rw, logging.JSON.FileEncoder())
	return logging.NewLogger(name, consoleCore, fileCore), nil
}
