// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type EchoArgs struct {
	Message string `json:"message"`
}

type EchoReply struct {
	Message string `json:"message"`
}

type echoService struct{}

func (*echoService) Echo(_ *http.Request, args *EchoArgs, reply *EchoReply) error {
	reply.Message = args.Message
	return nil
}

func TestServerRoutes(t *testing.T) {
	require := require.New(t)

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "echoes"})
	require.NoError(registry.Register(counter))
	counter.Inc()

	s := New(logging.NoLog{}, NewDefaultConfig())
	handler, err := NewJSONRPCHandler("echo", &echoService{})
	require.NoError(err)
	s.AddRoute(handler, "/rpc")
	s.AddRoute(NewMetricsHandler(registry), MetricsEndpoint)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + HealthEndpoint)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusOK, resp.StatusCode)

	resp, err = http.Post(
		ts.URL+"/rpc",
		"application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"echo.echo","params":{"message":"hi"}}`),
	)
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Contains(string(body), `"message":"hi"`)

	resp, err = http.Get(ts.URL + MetricsEndpoint)
	require.NoError(err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Contains(string(body), "echoes 1")

	resp, err = http.Get(ts.URL + "/missing")
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusNotFound, resp.StatusCode)
}
