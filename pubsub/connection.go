// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"io"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Callback handles a message read from [c].
type Callback func(msg []byte, c *Connection)

// Connection is a websocket client of a Server.
type Connection struct {
	s    *Server
	conn *websocket.Conn
	mb   *MessageBuffer

	active atomic.Bool
}

// Send queues [msg] for delivery and reports whether it was accepted.
func (c *Connection) Send(msg []byte) bool {
	if !c.active.Load() {
		return false
	}
	if err := c.mb.Send(msg); err != nil {
		c.s.log.Debug("unable to send message", zap.Error(err))
		return false
	}
	return true
}

func (c *Connection) deactivate() {
	if c.active.CompareAndSwap(true, false) {
		_ = c.mb.Close()
	}
}

// close is called by both pumps, so one of the calls always errors.
func (c *Connection) close() {
	c.s.removeConnection(c)
	c.deactivate()
	_ = c.conn.Close()
}

// readPump is the only reader of [c.conn].
func (c *Connection) readPump() {
	defer c.close()

	cfg := c.s.config
	c.conn.SetReadLimit(int64(cfg.MaxReadMessageSize))
	if err := c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})
	for {
		_, r, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.s.log.Debug("unexpected close", zap.Error(err))
			}
			return
		}
		if c.s.callback == nil {
			continue
		}
		frame, err := io.ReadAll(r)
		if err != nil {
			c.s.log.Debug("failed to read frame", zap.Error(err))
			return
		}
		msgs, err := ParseBatch(cfg.MaxReadMessageSize, frame)
		if err != nil {
			c.s.log.Debug("failed to parse frame", zap.Error(err))
			return
		}
		for _, msg := range msgs {
			c.s.callback(msg, c)
		}
	}
}

// writePump is the only writer of [c.conn].
func (c *Connection) writePump() {
	cfg := c.s.config
	ticker := time.NewTicker(cfg.pingPeriod())
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case frame, ok := <-c.mb.Queue:
			if err := c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait)); err != nil {
				c.s.log.Debug("failed to set write deadline", zap.Error(err))
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				c.s.log.Debug("failed to write frame", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait)); err != nil {
				c.s.log.Debug("failed to set write deadline", zap.Error(err))
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
