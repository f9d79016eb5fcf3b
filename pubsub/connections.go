// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Connections is a concurrent set of connections, such as the subscribers
// of a topic.
type Connections struct {
	l     sync.RWMutex
	conns set.Set[*Connection]
}

func NewConnections() *Connections {
	return &Connections{}
}

func (c *Connections) Add(conn *Connection) {
	c.l.Lock()
	defer c.l.Unlock()

	c.conns.Add(conn)
}

func (c *Connections) Remove(conn *Connection) {
	c.l.Lock()
	defer c.l.Unlock()

	c.conns.Remove(conn)
}

func (c *Connections) Has(conn *Connection) bool {
	c.l.RLock()
	defer c.l.RUnlock()

	return c.conns.Contains(conn)
}

func (c *Connections) Len() int {
	c.l.RLock()
	defer c.l.RUnlock()

	return c.conns.Len()
}

// List returns a copy of the connections in c.
func (c *Connections) List() []*Connection {
	c.l.RLock()
	defer c.l.RUnlock()

	return c.conns.List()
}
