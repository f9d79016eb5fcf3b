// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/pebble"
	"github.com/Jazz877/kleo-vesting/server"
	"github.com/Jazz877/kleo-vesting/trace"
)

const (
	defaultHTTPHost             = "127.0.0.1"
	defaultHTTPPort             = 9650
	defaultBlockInterval        = 5 * time.Second
	defaultDatabaseType         = "pebble"
	defaultDataDir              = ".vestingvm"
	defaultLogMaxSize           = 8 // MB
	defaultLogMaxFiles          = 5
	defaultLogMaxAge            = 30 // days
	defaultStreamingBacklogSize = 1_024
	defaultMaxPendingCalls      = 4_096
)

type Config struct {
	// Logging
	LogLevel        logging.Level `json:"logLevel"`
	LogDisplayLevel logging.Level `json:"logDisplayLevel"`
	LogDir          string        `json:"logDir"` // defaults to <dataDir>/logs
	LogMaxSize      int           `json:"logMaxSize"`
	LogMaxFiles     int           `json:"logMaxFiles"`
	LogMaxAge       int           `json:"logMaxAge"`
	LogCompress     bool          `json:"logCompress"`

	// Database
	DatabaseType string        `json:"databaseType"` // pebble or memdb
	DataDir      string        `json:"dataDir"`
	Pebble       pebble.Config `json:"pebble"`

	// HTTP
	HTTPHost string        `json:"httpHost"`
	HTTPPort uint16        `json:"httpPort"`
	HTTP     server.Config `json:"http"`

	// Block production
	BlockInterval   time.Duration `json:"blockInterval"`
	MaxPendingCalls int           `json:"maxPendingCalls"`
	VerifyAuth      bool          `json:"verifyAuth"`

	// Streaming
	StreamingBacklogSize int `json:"streamingBacklogSize"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"`
	TraceSampleRate float64 `json:"traceSampleRate"`
	TraceEndpoint   string  `json:"traceEndpoint"`

	// Metrics
	MetricsEnabled bool `json:"metricsEnabled"`
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.verify(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) setDefault() {
	c.LogLevel = logging.Info
	c.LogDisplayLevel = logging.Info
	c.LogMaxSize = defaultLogMaxSize
	c.LogMaxFiles = defaultLogMaxFiles
	c.LogMaxAge = defaultLogMaxAge
	c.DatabaseType = defaultDatabaseType
	c.DataDir = defaultDataDir
	c.Pebble = pebble.NewDefaultConfig()
	c.HTTPHost = defaultHTTPHost
	c.HTTPPort = defaultHTTPPort
	c.HTTP = server.NewDefaultConfig()
	c.BlockInterval = defaultBlockInterval
	c.MaxPendingCalls = defaultMaxPendingCalls
	c.VerifyAuth = true
	c.StreamingBacklogSize = defaultStreamingBacklogSize
	c.TraceSampleRate = 1
	c.TraceEndpoint = trace.DefaultEndpoint
	c.MetricsEnabled = true
}

func (c *Config) verify() error {
	switch {
	case c.BlockInterval <= 0:
		return fmt.Errorf("%w: block interval %s", ErrInvalidConfig, c.BlockInterval)
	case c.MaxPendingCalls <= 0:
		return fmt.Errorf("%w: max pending calls %d", ErrInvalidConfig, c.MaxPendingCalls)
	case c.StreamingBacklogSize <= 0:
		return fmt.Errorf("%w: streaming backlog size %d", ErrInvalidConfig, c.StreamingBacklogSize)
	case c.TraceSampleRate < 0 || c.TraceSampleRate > 1:
		return fmt.Errorf("%w: trace sample rate %f", ErrInvalidConfig, c.TraceSampleRate)
	default:
		return nil
	}
}

func (c *Config) GetHTTPAddress() string { return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort) }
func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		AppName:         consts.Name,
		Agent:           consts.Name,
		Version:         consts.Version.String(),
		Endpoint:        c.TraceEndpoint,
	}
}
