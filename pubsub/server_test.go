// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, s *Server) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(s)
	uri := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return conn, func() {
		_ = conn.Close()
		srv.Close()
	}
}

func waitForConnections(t *testing.T, s *Server, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.Connections().Len() == n
	}, time.Second, 10*time.Millisecond)
}

func TestServerPublish(t *testing.T) {
	require := require.New(t)
	s := New(logging.NoLog{}, NewDefaultServerConfig(), nil)
	conn, closeFn := dial(t, s)
	defer closeFn()
	waitForConnections(t, s, 1)

	inactive := s.Publish([]byte("first"), s.Connections())
	require.Empty(inactive)
	s.Publish([]byte("second"), s.Connections())

	var received [][]byte
	for len(received) < 2 {
		_, frame, err := conn.ReadMessage()
		require.NoError(err)
		msgs, err := ParseBatch(defaultMaxWriteMessageSize, frame)
		require.NoError(err)
		received = append(received, msgs...)
	}
	require.Equal([][]byte{[]byte("first"), []byte("second")}, received)

	// Closed clients are dropped from the server.
	require.NoError(conn.Close())
	waitForConnections(t, s, 0)
}

func TestServerCallback(t *testing.T) {
	require := require.New(t)
	received := make(chan []byte, 2)
	s := New(logging.NoLog{}, NewDefaultServerConfig(), func(msg []byte, _ *Connection) {
		received <- msg
	})
	conn, closeFn := dial(t, s)
	defer closeFn()

	frame, err := PackBatch([][]byte{{1}, {2, 3}})
	require.NoError(err)
	require.NoError(conn.WriteMessage(websocket.BinaryMessage, frame))

	for _, expected := range [][]byte{{1}, {2, 3}} {
		select {
		case msg := <-received:
			require.Equal(expected, msg)
		case <-time.After(time.Second):
			require.FailNow("callback not called")
		}
	}
}

func TestParseBatch(t *testing.T) {
	require := require.New(t)

	frame, err := PackBatch([][]byte{[]byte("a"), {}, []byte("bc")})
	require.NoError(err)
	msgs, err := ParseBatch(len(frame), frame)
	require.NoError(err)
	require.Len(msgs, 3)
	require.Equal([]byte("bc"), msgs[2])

	_, err = ParseBatch(len(frame)+1, append(frame, 0))
	require.Error(err)

	// A count that cannot fit in the frame is rejected before allocating.
	_, err = ParseBatch(8, []byte{0xff, 0xff, 0xff, 0xff})
	require.ErrorIs(err, ErrTooManyMessages)
}

func TestMessageBufferSplitsLargeBatches(t *testing.T) {
	require := require.New(t)
	mb := NewMessageBuffer(logging.NoLog{}, 10, 3*(4+batchOverhead), time.Hour)

	for i := 0; i < 4; i++ {
		require.NoError(mb.Send([]byte("abcd")))
	}
	// The fourth message did not fit with the first three.
	frame := <-mb.Queue
	msgs, err := ParseBatch(1024, frame)
	require.NoError(err)
	require.Len(msgs, 3)

	require.ErrorIs(mb.Send(make([]byte, 100)), ErrMessageTooLarge)

	require.NoError(mb.Close())
	frame = <-mb.Queue
	msgs, err = ParseBatch(1024, frame)
	require.NoError(err)
	require.Len(msgs, 1)
	_, ok := <-mb.Queue
	require.False(ok)
	require.ErrorIs(mb.Send([]byte("x")), ErrClosed)
	require.ErrorIs(mb.Close(), ErrClosed)
}
