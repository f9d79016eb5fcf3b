// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
)

// A websocket frame carries a batch of messages: the number of messages
// followed by each length-prefixed message.

func batchSize(msgs [][]byte) int {
	size := consts.IntLen
	for _, msg := range msgs {
		size += codec.BytesLen(msg)
	}
	return size
}

func PackBatch(msgs [][]byte) ([]byte, error) {
	size := batchSize(msgs)
	p := codec.NewWriter(size, size)
	p.PackInt(uint32(len(msgs)))
	for _, msg := range msgs {
		p.PackBytes(msg)
	}
	return p.Bytes(), p.Err()
}

// ParseBatch splits a frame of at most [limit] bytes into its messages.
func ParseBatch(limit int, frame []byte) ([][]byte, error) {
	p := codec.NewReader(frame, limit)
	count := int(p.UnpackInt(false))
	// Every message takes at least its length prefix.
	if count*consts.IntLen > len(frame) {
		return nil, ErrTooManyMessages
	}
	msgs := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		var msg []byte
		p.UnpackBytes(limit, false, &msg)
		msgs = append(msgs, msg)
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return msgs, nil
}

// batchOverhead is the framing cost of one message in a batch, including
// the batch header.
const batchOverhead = 2 * consts.IntLen
