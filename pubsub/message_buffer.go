// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer"
	"go.uber.org/zap"
)

// MessageBuffer collects outbound messages and hands them to [Queue] as a
// single frame once [timeout] passes or the frame would exceed [maxSize].
type MessageBuffer struct {
	Queue chan []byte

	l           sync.Mutex
	log         logging.Logger
	pending     [][]byte
	pendingSize int
	maxSize     int
	timeout     time.Duration
	flushTimer  *timer.Timer
	closed      bool
}

func NewMessageBuffer(log logging.Logger, pending int, maxSize int, timeout time.Duration) *MessageBuffer {
	m := &MessageBuffer{
		Queue:   make(chan []byte, pending),
		log:     log,
		maxSize: maxSize,
		timeout: timeout,
	}
	m.flushTimer = timer.NewTimer(func() {
		m.l.Lock()
		defer m.l.Unlock()

		if m.closed || len(m.pending) == 0 {
			return
		}
		m.flush()
	})
	go m.flushTimer.Dispatch()
	return m
}

// Close flushes what is pending and closes [Queue].
func (m *MessageBuffer) Close() error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}
	if len(m.pending) > 0 {
		m.flush()
	}
	m.flushTimer.Stop()
	m.closed = true
	close(m.Queue)
	return nil
}

// flush must be called with [m.l] held.
func (m *MessageBuffer) flush() {
	frame, err := PackBatch(m.pending)
	if err != nil {
		m.log.Warn("failed to pack messages", zap.Int("count", len(m.pending)), zap.Error(err))
	} else {
		select {
		case m.Queue <- frame:
		default:
			m.log.Debug("dropped frame", zap.Int("count", len(m.pending)))
		}
	}
	m.pending = nil
	m.pendingSize = 0
}

func (m *MessageBuffer) Send(msg []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}
	size := len(msg) + batchOverhead
	if size > m.maxSize {
		return ErrMessageTooLarge
	}
	if m.pendingSize+size > m.maxSize {
		m.flushTimer.Cancel()
		m.flush()
	}
	m.pending = append(m.pending, msg)
	m.pendingSize += size
	if len(m.pending) == 1 {
		m.flushTimer.SetTimeoutIn(m.timeout)
	}
	return nil
}
