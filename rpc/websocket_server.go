// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/pubsub"
)

// Client messages start with a mode byte.
const (
	// SubscribeMode streams the outcome of every call.
	SubscribeMode byte = 0
	// CallMode submits the call that follows and streams its outcome.
	CallMode byte = 1
)

type WebSocketServer struct {
	backend Backend
	s       *pubsub.Server

	subscribers *pubsub.Connections

	l         sync.Mutex
	listeners map[ids.ID]*pubsub.Connections
}

func NewWebSocketServer(backend Backend, cfg *pubsub.ServerConfig) (*WebSocketServer, *pubsub.Server) {
	w := &WebSocketServer{
		backend:     backend,
		subscribers: pubsub.NewConnections(),
		listeners:   map[ids.ID]*pubsub.Connections{},
	}
	w.s = pubsub.New(backend.Logger(), cfg, w.MessageCallback())
	return w, w.s
}

func (w *WebSocketServer) addListener(callID ids.ID, c *pubsub.Connection) {
	w.l.Lock()
	defer w.l.Unlock()

	if _, ok := w.listeners[callID]; !ok {
		w.listeners[callID] = pubsub.NewConnections()
	}
	w.listeners[callID].Add(c)
}

// Accept streams [outcomes] to subscribers and to the connections that
// submitted the calls.
func (w *WebSocketServer) Accept(outcomes []*chain.Outcome) error {
	msgs := make([][]byte, len(outcomes))
	for i, o := range outcomes {
		p := codec.NewWriter(o.Size(), consts.MaxInt)
		o.Marshal(p)
		if err := p.Err(); err != nil {
			return err
		}
		msgs[i] = p.Bytes()
	}

	if w.subscribers.Len() > 0 {
		for _, msg := range msgs {
			for _, conn := range w.s.Publish(msg, w.subscribers) {
				w.subscribers.Remove(conn)
			}
		}
	}

	w.l.Lock()
	defer w.l.Unlock()
	for i, o := range outcomes {
		listeners, ok := w.listeners[o.CallID]
		if !ok {
			continue
		}
		w.s.Publish(msgs[i], listeners)
		delete(w.listeners, o.CallID)
	}
	return nil
}

// reject reports a call that never made it into a block.
func (w *WebSocketServer) reject(callID ids.ID, c *pubsub.Connection, err error) {
	o := &chain.Outcome{CallID: callID, Error: err.Error()}
	p := codec.NewWriter(o.Size(), consts.MaxInt)
	o.Marshal(p)
	if p.Err() != nil {
		return
	}
	to := pubsub.NewConnections()
	to.Add(c)
	w.s.Publish(p.Bytes(), to)
}

func (w *WebSocketServer) MessageCallback() pubsub.Callback {
	var (
		log      = w.backend.Logger()
		tracer   = w.backend.Tracer()
		registry = w.backend.Registry()
	)
	return func(msg []byte, c *pubsub.Connection) {
		ctx, span := tracer.Start(context.Background(), "WebSocketServer.Callback")
		defer span.End()

		if len(msg) == 0 {
			log.Debug("dropping empty message")
			return
		}
		switch msg[0] {
		case SubscribeMode:
			w.subscribers.Add(c)
			log.Debug("added subscriber")
		case CallMode:
			call, err := chain.UnmarshalCall(msg[1:], registry)
			if err != nil {
				log.Debug("failed to unmarshal call",
					zap.Int("len", len(msg)),
					zap.Error(err),
				)
				return
			}
			// Listen before submitting so a fast block cannot be missed.
			w.addListener(call.ID(), c)
			if err := w.backend.Submit(ctx, call); err != nil {
				w.l.Lock()
				delete(w.listeners, call.ID())
				w.l.Unlock()
				w.reject(call.ID(), c, err)
				log.Debug("failed to submit call",
					zap.Stringer("callID", call.ID()),
					zap.Error(err),
				)
			}
		default:
			log.Debug("unexpected message mode",
				zap.Int("len", len(msg)),
				zap.Uint8("mode", msg[0]),
			)
		}
	}
}
