// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"context"
	"errors"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/snapshot"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"
	"github.com/Jazz877/kleo-vesting/voting"
)

func (c *Contract) reader() state.Immutable {
	return state.NewReader(c.db)
}

func (c *Contract) OwnerAddress(ctx context.Context) (codec.Address, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return storage.GetOwner(ctx, c.reader())
}

func (c *Contract) TokenAddress(ctx context.Context) (codec.Address, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return storage.GetToken(ctx, c.reader())
}

// BlockTime returns the block interval in milliseconds used to build
// payment schedules.
func (c *Contract) BlockTime(ctx context.Context) (int64, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return storage.GetBlockTime(ctx, c.reader())
}

func (c *Contract) Model(ctx context.Context) (vesting.Model, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return storage.GetModel(ctx, c.reader())
}

func (c *Contract) Info(ctx context.Context) (*storage.ContractInfo, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return storage.GetContractInfo(ctx, c.reader())
}

func (c *Contract) VotingConfig(ctx context.Context) (*storage.VotingConfig, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return storage.GetVotingConfig(ctx, c.reader())
}

// LastBlock returns the height and timestamp of the last executed block.
func (c *Contract) LastBlock(ctx context.Context) (uint64, int64, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	height, timestamp, ok, err := storage.GetLastBlock(ctx, c.reader())
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, storage.ErrNotInitialized
	}
	return height, timestamp, nil
}

func (c *Contract) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return storage.GetBalance(ctx, c.reader(), addr)
}

// VestingAccount returns the projection of [addr]. Without [height] the live
// account is projected at the last block. With [height] the projection
// recorded for the state entering that block is returned, which also covers
// accounts that have since been removed.
func (c *Contract) VestingAccount(
	ctx context.Context,
	addr codec.Address,
	height *uint64,
	withPayments bool,
) (*vesting.Data, bool, error) {
	ctx, span := c.tracer.Start(ctx, "Contract.VestingAccount")
	defer span.End()

	c.l.RLock()
	defer c.l.RUnlock()

	im := c.reader()
	if height != nil {
		d, found, err := snapshot.AccountAt(ctx, im, addr, *height)
		if err != nil || !found {
			return nil, false, err
		}
		if !withPayments {
			d.Payments = nil
		}
		return d, true, nil
	}

	acct, err := storage.GetAccount(ctx, im, addr)
	if errors.Is(err, storage.ErrAccountNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	model, err := storage.GetModel(ctx, im)
	if err != nil {
		return nil, false, err
	}
	lastHeight, lastTimestamp, _, err := storage.GetLastBlock(ctx, im)
	if err != nil {
		return nil, false, err
	}
	d, err := acct.Project(model, lastTimestamp, lastHeight, withPayments)
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// VestingTotal returns the aggregate recorded for the state entering
// [height] (default: the last block). Aggregates only change when a
// snapshot is taken.
func (c *Contract) VestingTotal(ctx context.Context, height *uint64) (*vesting.Totals, error) {
	ctx, span := c.tracer.Start(ctx, "Contract.VestingTotal")
	defer span.End()

	c.l.RLock()
	defer c.l.RUnlock()

	im := c.reader()
	h, err := c.heightOrLast(ctx, im, height)
	if err != nil {
		return nil, err
	}
	totals, _, err := snapshot.TotalsAt(ctx, im, h)
	return totals, err
}

func (c *Contract) VotingPowerAtHeight(ctx context.Context, addr codec.Address, height *uint64) (uint64, uint64, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	im := c.reader()
	h, err := c.heightOrLast(ctx, im, height)
	if err != nil {
		return 0, 0, err
	}
	power, err := voting.PowerAtHeight(ctx, im, addr, h)
	return power, h, err
}

func (c *Contract) TotalPowerAtHeight(ctx context.Context, height *uint64) (uint64, uint64, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	im := c.reader()
	h, err := c.heightOrLast(ctx, im, height)
	if err != nil {
		return 0, 0, err
	}
	power, err := voting.TotalPowerAtHeight(ctx, im, h)
	return power, h, err
}

func (*Contract) heightOrLast(ctx context.Context, im state.Immutable, height *uint64) (uint64, error) {
	if height != nil {
		return *height, nil
	}
	last, _, _, err := storage.GetLastBlock(ctx, im)
	return last, err
}
