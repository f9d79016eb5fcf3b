// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/version"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Jazz877/kleo-vesting/actions"
	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/genesis"
	"github.com/Jazz877/kleo-vesting/registry"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/token"
	"github.com/Jazz877/kleo-vesting/tstate"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Estimated number of keys a single call changes.
const changesPerCall = 8

// Contract executes calls against the vesting state stored in [db]. Calls
// are executed one at a time; queries may run concurrently with each other.
type Contract struct {
	log     logging.Logger
	tracer  trace.Tracer
	metrics *metrics
	db      database.Database

	l sync.RWMutex
}

func New(
	log logging.Logger,
	tracer trace.Tracer,
	db database.Database,
	registerer prometheus.Registerer,
) (*Contract, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	c := &Contract{
		log:     log,
		tracer:  tracer,
		metrics: m,
		db:      db,
	}
	accts, err := storage.AccountAddresses(context.Background(), state.NewReader(db))
	if err != nil {
		return nil, err
	}
	m.accounts.Set(float64(len(accts)))
	return c, nil
}

// Instantiate loads [g] into an empty database. [blk] becomes the last
// block.
func (c *Contract) Instantiate(ctx context.Context, g *genesis.Genesis, blk chain.BlockContext) error {
	ctx, span := c.tracer.Start(ctx, "Contract.Instantiate")
	defer span.End()

	c.l.Lock()
	defer c.l.Unlock()

	ts := tstate.New(state.NewReader(c.db), 0)
	_, err := storage.GetContractInfo(ctx, ts)
	switch {
	case err == nil:
		return ErrAlreadyInstantiated
	case !errors.Is(err, storage.ErrNotInitialized):
		return err
	}

	view := ts.NewView()
	if err := g.Load(ctx, c.tracer, view); err != nil {
		return err
	}
	if err := storage.SetLastBlock(ctx, view, blk.Height(), blk.Timestamp()); err != nil {
		return err
	}
	view.Commit()
	if err := c.write(ctx, ts); err != nil {
		return err
	}
	c.log.Info("instantiated contract",
		zap.String("name", consts.ContractName),
		zap.Stringer("version", consts.Version),
		zap.Stringer("model", g.Model),
		zap.Uint64("height", blk.Height()),
	)
	return nil
}

// Migrate bumps the stored contract version to the running one.
func (c *Contract) Migrate(ctx context.Context) (*storage.ContractInfo, error) {
	ctx, span := c.tracer.Start(ctx, "Contract.Migrate")
	defer span.End()

	c.l.Lock()
	defer c.l.Unlock()

	ts := tstate.New(state.NewReader(c.db), 1)
	info, err := storage.GetContractInfo(ctx, ts)
	if err != nil {
		return nil, err
	}
	if info.Name != consts.ContractName {
		return nil, fmt.Errorf("%w: %s", ErrWrongContract, info.Name)
	}
	stored, err := version.Parse(info.Version)
	if err != nil {
		return nil, err
	}
	if stored.Compare(consts.Version) > 0 {
		return nil, fmt.Errorf("%w: %s > %s", ErrDowngrade, stored, consts.Version)
	}

	migrated := &storage.ContractInfo{
		Name:    consts.ContractName,
		Version: consts.Version.String(),
	}
	view := ts.NewView()
	if err := storage.SetContractInfo(ctx, view, migrated); err != nil {
		return nil, err
	}
	view.Commit()
	if err := c.write(ctx, ts); err != nil {
		return nil, err
	}
	c.log.Info("migrated contract",
		zap.String("from", info.Version),
		zap.String("to", migrated.Version),
	)
	return migrated, nil
}

// Execute runs [action] on behalf of [actor] as the only call of [blk].
func (c *Contract) Execute(
	ctx context.Context,
	blk chain.BlockContext,
	actor codec.Address,
	action chain.Action,
) (*chain.Result, error) {
	call, err := chain.NewCall(actor, 0, action)
	if err != nil {
		return nil, err
	}
	outcomes, err := c.ExecuteBlock(ctx, blk, []*chain.Call{call})
	if err != nil {
		return nil, err
	}
	outcome := outcomes[0]
	if !outcome.Success {
		return nil, outcome.err
	}
	return outcome.Result, nil
}

// ExecuteBlock runs [calls] in order. A failed call leaves no trace in state
// and does not affect the other calls. All successful calls are written in
// a single batch.
func (c *Contract) ExecuteBlock(
	ctx context.Context,
	blk chain.BlockContext,
	calls []*chain.Call,
) ([]*Outcome, error) {
	ctx, span := c.tracer.Start(ctx, "Contract.ExecuteBlock", oteltrace.WithAttributes(
		attribute.Int64("height", int64(blk.Height())),
		attribute.Int64("timestamp", blk.Timestamp()),
		attribute.Int("calls", len(calls)),
	))
	defer span.End()

	c.l.Lock()
	defer c.l.Unlock()

	start := time.Now()
	ts := tstate.New(state.NewReader(c.db), len(calls)*changesPerCall)
	if err := c.verifyBlock(ctx, ts, blk); err != nil {
		return nil, err
	}

	outcomes := make([]*Outcome, 0, len(calls))
	for _, call := range calls {
		outcomes = append(outcomes, c.execute(ctx, ts, blk, call))
	}

	view := ts.NewView()
	if err := storage.SetLastBlock(ctx, view, blk.Height(), blk.Timestamp()); err != nil {
		return nil, err
	}
	view.Commit()
	if err := c.write(ctx, ts); err != nil {
		return nil, err
	}

	accts, err := storage.AccountAddresses(ctx, state.NewReader(c.db))
	if err != nil {
		return nil, err
	}
	c.metrics.accounts.Set(float64(len(accts)))
	c.metrics.blocks.Inc()
	c.metrics.execute.Observe(float64(time.Since(start)))
	c.log.Debug("executed block",
		zap.Uint64("height", blk.Height()),
		zap.Int64("timestamp", blk.Timestamp()),
		zap.Int("calls", len(calls)),
		zap.Int("accounts", len(accts)),
	)
	return outcomes, nil
}

func (c *Contract) verifyBlock(ctx context.Context, im state.Immutable, blk chain.BlockContext) error {
	if _, err := storage.GetContractInfo(ctx, im); err != nil {
		return err
	}
	height, timestamp, ok, err := storage.GetLastBlock(ctx, im)
	if err != nil {
		return err
	}
	if ok && (blk.Height() < height || blk.Timestamp() < timestamp) {
		return fmt.Errorf(
			"%w: height=%d timestamp=%d last height=%d last timestamp=%d",
			ErrBlockOutOfOrder, blk.Height(), blk.Timestamp(), height, timestamp,
		)
	}
	return nil
}

func (c *Contract) execute(
	ctx context.Context,
	ts *tstate.TState,
	blk chain.BlockContext,
	call *chain.Call,
) *Outcome {
	ctx, span := c.tracer.Start(ctx, "Contract.execute")
	defer span.End()

	action, _ := registry.Actions.Name(call.Action.GetTypeID())
	c.metrics.calls.WithLabelValues(action).Inc()

	outcome := &Outcome{
		Outcome: chain.Outcome{
			CallID:    call.ID(),
			Height:    blk.Height(),
			Timestamp: blk.Timestamp(),
		},
	}
	// The view is only committed when both the action and its transfers
	// succeed.
	view := ts.NewView()
	result, err := call.Action.Execute(ctx, blk, view, call.Actor)
	if err == nil {
		err = token.Apply(ctx, view, result.Transfers)
	}
	if err != nil {
		c.metrics.failedCalls.Inc()
		c.log.Debug("call failed",
			zap.Stringer("callID", outcome.CallID),
			zap.String("action", action),
			zap.Stringer("actor", call.Actor),
			zap.Error(err),
		)
		outcome.Error = err.Error()
		outcome.err = err
		return outcome
	}
	view.Commit()

	if _, ok := result.Attribute(actions.SnapshotHeightKey); ok {
		c.metrics.snapshots.Inc()
	}
	outcome.Success = true
	outcome.Result = result
	return outcome
}

func (c *Contract) write(ctx context.Context, ts *tstate.TState) error {
	batch := c.db.NewBatch()
	if err := ts.WriteChanges(ctx, batch, c.tracer); err != nil {
		return err
	}
	return batch.Write()
}

// Outcome is a chain.Outcome that keeps the error of a failed call.
type Outcome struct {
	chain.Outcome

	err error
}

// Err returns the error of a failed call.
func (o *Outcome) Err() error {
	return o.err
}
