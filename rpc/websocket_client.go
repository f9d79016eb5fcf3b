// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/pubsub"
)

// Frames larger than this are rejected by the client.
const maxFrameSize = 4 * 1024 * 1024

type WebSocketClient struct {
	conn *websocket.Conn

	wl sync.Mutex
	rl sync.Mutex
	// Messages read from the last frame that were not consumed yet.
	pending [][]byte

	cl sync.Once
}

// NewWebSocketClient dials the websocket endpoint of the node at [uri].
func NewWebSocketClient(uri string) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http", "ws", 1) + WebSocketEndpoint
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	_ = resp.Body.Close()
	conn.SetReadLimit(maxFrameSize)
	return &WebSocketClient{conn: conn}, nil
}

func (c *WebSocketClient) write(msg []byte) error {
	frame, err := pubsub.PackBatch([][]byte{msg})
	if err != nil {
		return err
	}

	c.wl.Lock()
	defer c.wl.Unlock()

	return c.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// Subscribe asks for the outcome of every executed call.
func (c *WebSocketClient) Subscribe() error {
	return c.write([]byte{SubscribeMode})
}

// SubmitCall submits [call]; its outcome is delivered through
// ListenOutcome.
func (c *WebSocketClient) SubmitCall(call *chain.Call) error {
	return c.write(append([]byte{CallMode}, call.Bytes()...))
}

// ListenOutcome blocks until the next outcome arrives.
func (c *WebSocketClient) ListenOutcome() (*chain.Outcome, error) {
	c.rl.Lock()
	defer c.rl.Unlock()

	for len(c.pending) == 0 {
		typ, frame, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if typ != websocket.BinaryMessage {
			return nil, ErrUnexpectedFrame
		}
		msgs, err := pubsub.ParseBatch(maxFrameSize, frame)
		if err != nil {
			return nil, err
		}
		c.pending = msgs
	}
	msg := c.pending[0]
	c.pending = c.pending[1:]
	return chain.UnmarshalOutcome(codec.NewReader(msg, consts.MaxInt))
}

func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		err = c.conn.Close()
	})
	return err
}
