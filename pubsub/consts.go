// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

const (
	defaultReadBufferSize      = units.KiB
	defaultWriteBufferSize     = units.KiB
	defaultWriteWait           = 10 * time.Second
	defaultPongWait            = 60 * time.Second
	defaultMaxReadMessageSize  = 256 * units.KiB
	defaultMaxWriteMessageSize = 2 * units.MiB
	defaultMaxPendingMessages  = 1024
	defaultBatchTimeout        = 25 * time.Millisecond
)
