// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/Jazz877/kleo-vesting/actions"
	"github.com/Jazz877/kleo-vesting/auth"
	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/config"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/crypto/ed25519"
	"github.com/Jazz877/kleo-vesting/genesis"
	"github.com/Jazz877/kleo-vesting/rpc"
	"github.com/Jazz877/kleo-vesting/server"
	"github.com/Jazz877/kleo-vesting/vesting"
)

// Far enough in the future that genesis, instantiated with the wall clock,
// precedes every block built by the tests.
const start = int64(4_000_000_000_000)

type testNode struct {
	*Node

	owner *auth.ED25519Factory
	alice *auth.ED25519Factory
	json  *rpc.JSONRPCClient
	url   string
}

func newFactory(t *testing.T) *auth.ED25519Factory {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return auth.NewED25519Factory(priv)
}

func newTestNode(t *testing.T, modify func(*config.Config)) *testNode {
	require := require.New(t)

	cfg, err := config.New(nil)
	require.NoError(err)
	cfg.DatabaseType = "memdb"
	cfg.DataDir = t.TempDir()
	if modify != nil {
		modify(cfg)
	}

	owner := newFactory(t)
	g := genesis.Default()
	g.Owner = codec.MustAddressBech32(consts.HRP, owner.Address())
	g.Token = codec.MustAddressBech32(consts.HRP, codec.CreateAddress(consts.ContractID, [32]byte{0xee}))
	g.ContractBalance = 10_000

	n, err := New(context.Background(), logging.NoLog{}, cfg, g)
	require.NoError(err)
	n.clock.Set(time.UnixMilli(start))

	ts := httptest.NewServer(n.Handler())
	t.Cleanup(func() {
		ts.Close()
		require.NoError(n.Close())
	})
	return &testNode{
		Node:  n,
		owner: owner,
		alice: newFactory(t),
		json:  rpc.NewJSONRPCClient(ts.URL),
		url:   ts.URL,
	}
}

func (tn *testNode) register(t *testing.T, amount uint64, duration int64) {
	require := require.New(t)
	ctx := context.Background()

	call, err := chain.SignCall(0, &actions.Register{
		Address:       tn.alice.Address(),
		StartTime:     start,
		EndTime:       start + duration,
		VestingAmount: amount,
	}, tn.owner)
	require.NoError(err)
	_, err = tn.json.Submit(ctx, call)
	require.NoError(err)

	outcomes, err := tn.BuildBlock(ctx)
	require.NoError(err)
	require.Len(outcomes, 1)
	require.True(outcomes[0].Success, outcomes[0].Error)
}

func TestSubmitAndQuery(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tn := newTestNode(t, nil)

	tn.register(t, 1_000, 1_000)

	height, timestamp, err := tn.json.LastBlock(ctx)
	require.NoError(err)
	require.Equal(uint64(1), height)
	require.Equal(start, timestamp)

	tn.clock.Set(time.UnixMilli(start + 500))
	call, err := chain.SignCall(0, &actions.Claim{}, tn.alice)
	require.NoError(err)
	callID, err := tn.json.Submit(ctx, call)
	require.NoError(err)
	require.Equal(call.ID(), callID)
	require.Equal(1, tn.PendingCalls())

	outcomes, err := tn.BuildBlock(ctx)
	require.NoError(err)
	require.Len(outcomes, 1)
	require.True(outcomes[0].Success, outcomes[0].Error)
	require.Zero(tn.PendingCalls())

	balance, err := tn.json.Balance(ctx, tn.alice.Address())
	require.NoError(err)
	require.Equal(uint64(500), balance)

	d, found, err := tn.json.VestingAccount(ctx, tn.alice.Address(), nil, false)
	require.NoError(err)
	require.True(found)
	require.Equal(uint64(500), d.ClaimedAmount)
	require.Zero(d.ClaimableAmount)

	totals, err := tn.json.VestingTotal(ctx, nil)
	require.NoError(err)
	require.Equal(uint64(1_000), totals.VestingAmount)

	_, model, err := tn.json.Info(ctx)
	require.NoError(err)
	require.Equal(vesting.Continuous, model)
}

func TestSubmitRejections(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tn := newTestNode(t, func(c *config.Config) {
		c.MaxPendingCalls = 2
	})

	unsigned, err := chain.NewCall(tn.owner.Address(), 0, &actions.Snapshot{})
	require.NoError(err)
	_, err = tn.json.Submit(ctx, unsigned)
	require.ErrorContains(err, chain.ErrMissingAuth.Error())

	first, err := chain.SignCall(0, &actions.Snapshot{}, tn.owner)
	require.NoError(err)
	require.NoError(tn.Submit(ctx, first))
	require.ErrorIs(tn.Submit(ctx, first), ErrDuplicateCall)

	second, err := chain.SignCall(1, &actions.Snapshot{}, tn.owner)
	require.NoError(err)
	require.NoError(tn.Submit(ctx, second))
	third, err := chain.SignCall(2, &actions.Snapshot{}, tn.owner)
	require.NoError(err)
	require.ErrorIs(tn.Submit(ctx, third), ErrTooManyPendingCalls)
}

func TestInvalidSignatureFailsInBlock(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tn := newTestNode(t, nil)

	valid, err := chain.SignCall(0, &actions.Snapshot{}, tn.owner)
	require.NoError(err)
	forged, err := chain.SignCall(1, &actions.Snapshot{}, tn.owner)
	require.NoError(err)
	forged.Auth.Signature[0]++
	require.NoError(tn.Submit(ctx, valid))
	require.NoError(tn.Submit(ctx, forged))

	outcomes, err := tn.BuildBlock(ctx)
	require.NoError(err)
	require.Len(outcomes, 2)
	require.True(outcomes[0].Success, outcomes[0].Error)
	require.False(outcomes[1].Success)
	require.Equal(ed25519.ErrInvalidSignature.Error(), outcomes[1].Error)
	require.Equal(forged.ID(), outcomes[1].CallID)
}

func TestUnsignedCallsWithoutVerifyAuth(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tn := newTestNode(t, func(c *config.Config) {
		c.VerifyAuth = false
	})

	call, err := chain.NewCall(tn.owner.Address(), 0, &actions.Snapshot{})
	require.NoError(err)
	require.NoError(tn.Submit(ctx, call))
	outcomes, err := tn.BuildBlock(ctx)
	require.NoError(err)
	require.True(outcomes[0].Success, outcomes[0].Error)
}

func TestWebSocketOutcome(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tn := newTestNode(t, nil)
	tn.register(t, 1_000, 1_000)

	ws, err := rpc.NewWebSocketClient(tn.url)
	require.NoError(err)
	defer ws.Close()

	tn.clock.Set(time.UnixMilli(start + 250))
	call, err := chain.SignCall(0, &actions.Claim{}, tn.alice)
	require.NoError(err)
	require.NoError(ws.SubmitCall(call))
	require.Eventually(func() bool {
		return tn.PendingCalls() == 1
	}, 5*time.Second, 10*time.Millisecond)

	_, err = tn.BuildBlock(ctx)
	require.NoError(err)

	outcome, err := ws.ListenOutcome()
	require.NoError(err)
	require.Equal(call.ID(), outcome.CallID)
	require.True(outcome.Success, outcome.Error)
	require.Equal(uint64(2), outcome.Height)
	require.Len(outcome.Result.Transfers, 1)
	require.Equal(uint64(250), outcome.Result.Transfers[0].Amount)
}

func TestMetricsEndpoint(t *testing.T) {
	require := require.New(t)
	tn := newTestNode(t, nil)
	tn.register(t, 1_000, 1_000)

	resp, err := http.Get(tn.url + server.MetricsEndpoint)
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Contains(string(body), "contract_accounts 1")
	require.Contains(string(body), "node_calls_submitted 1")
}

func TestRun(t *testing.T) {
	require := require.New(t)
	tn := newTestNode(t, func(c *config.Config) {
		c.BlockInterval = 10 * time.Millisecond
	})

	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- tn.Run(ctx, listener)
	}()

	require.NoError(rpc.NewJSONRPCClient("http://"+listener.Addr().String()).WaitForHeight(ctx, 3))
	cancel()
	require.NoError(<-done)
}
