// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := map[string]struct {
		input string
		err   error
		check func(*require.Assertions, *Config)
	}{
		"defaults": {
			check: func(require *require.Assertions, c *Config) {
				require.Equal(logging.Info, c.LogLevel)
				require.Equal(defaultBlockInterval, c.BlockInterval)
				require.Equal("pebble", c.DatabaseType)
				require.Equal("127.0.0.1:9650", c.GetHTTPAddress())
				require.False(c.GetTraceConfig().Enabled)
			},
		},
		"overrides": {
			input: `{"logLevel":"debug","databaseType":"memdb","httpPort":9000,"blockInterval":1000000000,"traceEnabled":true}`,
			check: func(require *require.Assertions, c *Config) {
				require.Equal(logging.Debug, c.LogLevel)
				require.Equal("memdb", c.DatabaseType)
				require.Equal("127.0.0.1:9000", c.GetHTTPAddress())
				require.Equal(time.Second, c.BlockInterval)
				require.True(c.GetTraceConfig().Enabled)
				// untouched fields keep their defaults
				require.Equal(defaultMaxPendingCalls, c.MaxPendingCalls)
			},
		},
		"invalid block interval": {
			input: `{"blockInterval":0}`,
			err:   ErrInvalidConfig,
		},
		"invalid sample rate": {
			input: `{"traceSampleRate":2}`,
			err:   ErrInvalidConfig,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			c, err := New([]byte(tt.input))
			require.ErrorIs(err, tt.err)
			if tt.err == nil {
				tt.check(require, c)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	require := require.New(t)
	c, err := New(nil)
	require.NoError(err)
	c.DataDir = t.TempDir()
	c.LogDisplayLevel = logging.Off

	log, err := c.NewLogger("test")
	require.NoError(err)
	log.Info("hello")

	_, err = os.Stat(filepath.Join(c.DataDir, "logs", "test.log"))
	require.NoError(err)
}
