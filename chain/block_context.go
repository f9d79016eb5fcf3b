// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

// BlockContext is the block a call executes in. Actions read the time from
// it and never from the wall clock.
type BlockContext interface {
	Height() uint64
	// Timestamp is in unix milliseconds.
	Timestamp() int64
}

type block struct {
	height    uint64
	timestamp int64
}

func NewBlockContext(height uint64, timestamp int64) BlockContext {
	return block{height: height, timestamp: timestamp}
}

func (b block) Height() uint64   { return b.height }
func (b block) Timestamp() int64 { return b.timestamp }
