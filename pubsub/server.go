// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type ServerConfig struct {
	ReadBufferSize      int           `json:"readBufferSize"`
	WriteBufferSize     int           `json:"writeBufferSize"`
	WriteWait           time.Duration `json:"writeWait"`
	PongWait            time.Duration `json:"pongWait"`
	MaxPendingMessages  int           `json:"maxPendingMessages"`
	MaxReadMessageSize  int           `json:"maxReadMessageSize"`
	MaxWriteMessageSize int           `json:"maxWriteMessageSize"`
	BatchTimeout        time.Duration `json:"batchTimeout"`
}

func NewDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:      defaultReadBufferSize,
		WriteBufferSize:     defaultWriteBufferSize,
		WriteWait:           defaultWriteWait,
		PongWait:            defaultPongWait,
		MaxPendingMessages:  defaultMaxPendingMessages,
		MaxReadMessageSize:  defaultMaxReadMessageSize,
		MaxWriteMessageSize: defaultMaxWriteMessageSize,
		BatchTimeout:        defaultBatchTimeout,
	}
}

// Pings are sent before the peer gives up waiting for a pong.
func (c *ServerConfig) pingPeriod() time.Duration {
	return c.PongWait * 9 / 10
}

// Server upgrades HTTP requests to websocket connections and publishes
// messages to them.
type Server struct {
	log      logging.Logger
	config   *ServerConfig
	callback Callback
	upgrader websocket.Upgrader

	conns *Connections
}

// New returns a Server calling [callback], if not nil, for every message a
// client sends.
func New(log logging.Logger, config *ServerConfig, callback Callback) *Server {
	return &Server{
		log:      log,
		config:   config,
		callback: callback,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns: NewConnections(),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// No extra response headers are needed.
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade", zap.Error(err))
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		mb: NewMessageBuffer(
			s.log,
			s.config.MaxPendingMessages,
			s.config.MaxWriteMessageSize,
			s.config.BatchTimeout,
		),
	}
	conn.active.Store(true)
	s.conns.Add(conn)

	go conn.writePump()
	go conn.readPump()
}

// Publish sends [msg] to every connection in [to] that is still connected
// to s. It returns the connections that are gone.
func (s *Server) Publish(msg []byte, to *Connections) []*Connection {
	var inactive []*Connection
	for _, conn := range to.List() {
		if !s.conns.Has(conn) {
			inactive = append(inactive, conn)
			continue
		}
		if !conn.Send(msg) {
			s.log.Verbo("dropping message to subscriber")
		}
	}
	return inactive
}

// Connections returns every connection of s.
func (s *Server) Connections() *Connections {
	return s.conns
}

func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
}
