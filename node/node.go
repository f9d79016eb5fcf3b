// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/config"
	"github.com/Jazz877/kleo-vesting/contract"
	"github.com/Jazz877/kleo-vesting/genesis"
	"github.com/Jazz877/kleo-vesting/pubsub"
	"github.com/Jazz877/kleo-vesting/registry"
	"github.com/Jazz877/kleo-vesting/rpc"
	"github.com/Jazz877/kleo-vesting/server"
	"github.com/Jazz877/kleo-vesting/storage"

	htrace "github.com/Jazz877/kleo-vesting/trace"
)

var _ rpc.Backend = (*Node)(nil)

// Node orders submitted calls into blocks, executes them against the
// contract and serves the APIs.
type Node struct {
	*contract.Contract

	config   *config.Config
	log      logging.Logger
	tracer   trace.Tracer
	gatherer prometheus.Gatherer
	metrics  *metrics
	db       database.Database
	clock    mockable.Clock

	pendingL sync.Mutex
	pending  []*chain.Call
	queued   set.Set[ids.ID]

	// Blocks are built one at a time.
	buildL sync.Mutex

	ws     *rpc.WebSocketServer
	server *server.Server
	closed atomic.Bool
}

// New opens the database configured in [cfg]. An empty database is
// instantiated from [g]; an existing one is migrated to the running
// version.
func New(ctx context.Context, log logging.Logger, cfg *config.Config, g *genesis.Genesis) (*Node, error) {
	r := prometheus.NewRegistry()
	tracer, err := htrace.New(cfg.GetTraceConfig())
	if err != nil {
		return nil, err
	}
	db, err := storage.New(cfg.DatabaseType, cfg.Pebble, cfg.DataDir, r)
	if err != nil {
		return nil, err
	}
	n, err := newNode(ctx, log, cfg, g, tracer, db, r)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return n, nil
}

func newNode(
	ctx context.Context,
	log logging.Logger,
	cfg *config.Config,
	g *genesis.Genesis,
	tracer trace.Tracer,
	db database.Database,
	r *prometheus.Registry,
) (*Node, error) {
	c, err := contract.New(log, tracer, db, r)
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(r)
	if err != nil {
		return nil, err
	}
	n := &Node{
		Contract: c,
		config:   cfg,
		log:      log,
		tracer:   tracer,
		gatherer: r,
		metrics:  m,
		db:       db,
		queued:   set.Set[ids.ID]{},
	}
	if err := n.initialize(ctx, g); err != nil {
		return nil, err
	}

	streaming := pubsub.NewDefaultServerConfig()
	streaming.MaxPendingMessages = cfg.StreamingBacklogSize
	ws, pubsubServer := rpc.NewWebSocketServer(n, streaming)
	n.ws = ws

	jsonRPCHandler, err := server.NewJSONRPCHandler(rpc.Name, rpc.NewJSONRPCServer(n))
	if err != nil {
		return nil, err
	}
	n.server = server.New(log, cfg.HTTP)
	n.server.AddRoute(jsonRPCHandler, rpc.JSONRPCEndpoint)
	n.server.AddRoute(pubsubServer, rpc.WebSocketEndpoint)
	if cfg.MetricsEnabled {
		n.server.AddRoute(server.NewMetricsHandler(r), server.MetricsEndpoint)
	}
	return n, nil
}

func (n *Node) initialize(ctx context.Context, g *genesis.Genesis) error {
	_, err := n.Info(ctx)
	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		return n.Instantiate(ctx, g, chain.NewBlockContext(0, n.now()))
	case err != nil:
		return err
	default:
		_, err := n.Migrate(ctx)
		return err
	}
}

func (n *Node) now() int64 {
	return n.clock.Time().UnixMilli()
}

func (n *Node) Logger() logging.Logger { return n.log }

func (n *Node) Tracer() trace.Tracer { return n.tracer }

func (*Node) Registry() *chain.ActionRegistry { return registry.Actions }

// Gatherer exposes the metrics of the node and its contract.
func (n *Node) Gatherer() prometheus.Gatherer { return n.gatherer }

// Handler serves every API route.
func (n *Node) Handler() http.Handler { return n.server.Handler() }

// Submit queues [call] for the next block. Signatures are verified when the
// block is built.
func (n *Node) Submit(ctx context.Context, call *chain.Call) error {
	_, span := n.tracer.Start(ctx, "Node.Submit")
	defer span.End()

	if n.closed.Load() {
		return ErrClosed
	}
	if n.config.VerifyAuth {
		if err := call.CheckAuth(); err != nil {
			n.metrics.callsRejected.Inc()
			return err
		}
	}

	n.pendingL.Lock()
	defer n.pendingL.Unlock()

	if n.queued.Contains(call.ID()) {
		return ErrDuplicateCall
	}
	if len(n.pending) >= n.config.MaxPendingCalls {
		return ErrTooManyPendingCalls
	}
	n.pending = append(n.pending, call)
	n.queued.Add(call.ID())
	n.metrics.callsSubmitted.Inc()
	n.metrics.pendingCalls.Set(float64(len(n.pending)))
	return nil
}

// PendingCalls returns the number of calls waiting for the next block.
func (n *Node) PendingCalls() int {
	n.pendingL.Lock()
	defer n.pendingL.Unlock()

	return len(n.pending)
}

func (n *Node) drain() []*chain.Call {
	n.pendingL.Lock()
	defer n.pendingL.Unlock()

	calls := n.pending
	n.pending = nil
	n.queued = set.Set[ids.ID]{}
	n.metrics.pendingCalls.Set(0)
	return calls
}

// BuildBlock executes every pending call in a new block and streams the
// outcomes. Calls with an invalid signature fail without being executed.
func (n *Node) BuildBlock(ctx context.Context) ([]*chain.Outcome, error) {
	ctx, span := n.tracer.Start(ctx, "Node.BuildBlock")
	defer span.End()

	n.buildL.Lock()
	defer n.buildL.Unlock()

	start := time.Now()
	height, timestamp, err := n.LastBlock(ctx)
	if err != nil {
		return nil, err
	}
	blk := chain.NewBlockContext(height+1, max(n.now(), timestamp))
	calls := n.drain()

	var authErrs []error
	if n.config.VerifyAuth {
		authErrs = chain.VerifyCalls(calls)
	}
	outcomes := make([]*chain.Outcome, len(calls))
	valid := make([]*chain.Call, 0, len(calls))
	indices := make([]int, 0, len(calls))
	for i, call := range calls {
		if authErrs != nil && authErrs[i] != nil {
			n.metrics.callsRejected.Inc()
			outcomes[i] = &chain.Outcome{
				CallID:    call.ID(),
				Height:    blk.Height(),
				Timestamp: blk.Timestamp(),
				Error:     authErrs[i].Error(),
			}
			continue
		}
		valid = append(valid, call)
		indices = append(indices, i)
	}

	executed, err := n.ExecuteBlock(ctx, blk, valid)
	if err != nil {
		return nil, err
	}
	for j, o := range executed {
		outcomes[indices[j]] = &o.Outcome
	}
	if err := n.ws.Accept(outcomes); err != nil {
		return nil, err
	}
	n.metrics.blockBuild.Observe(float64(time.Since(start)))
	if len(calls) > 0 {
		n.log.Info("built block",
			zap.Uint64("height", blk.Height()),
			zap.Int64("timestamp", blk.Timestamp()),
			zap.Int("calls", len(calls)),
			zap.Int("rejected", len(calls)-len(valid)),
		)
	}
	return outcomes, nil
}

func (n *Node) produce(ctx context.Context) error {
	ticker := time.NewTicker(n.config.BlockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := n.BuildBlock(ctx); err != nil {
				n.log.Error("failed to build block",
					zap.Error(err),
				)
				return err
			}
		}
	}
}

// Run serves the APIs on [listener] and builds a block every block
// interval until [ctx] is done.
func (n *Node) Run(ctx context.Context, listener net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return n.server.Dispatch(listener)
	})
	g.Go(func() error {
		<-gctx.Done()
		return n.server.Shutdown()
	})
	g.Go(func() error {
		return n.produce(gctx)
	})
	return g.Wait()
}

func (n *Node) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}
	errs := wrappers.Errs{}
	errs.Add(
		n.tracer.Close(),
		n.db.Close(),
	)
	return errs.Err
}
