// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/snapshot"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"
)

var _ chain.Action = (*Claim)(nil)

// Claim pays out what the account of [Recipient] (default: the caller) can
// claim to that same address.
type Claim struct {
	Recipient codec.Address `json:"recipient,omitempty"`
}

func (*Claim) GetTypeID() uint8 {
	return consts.ClaimID
}

func (c *Claim) Execute(
	ctx context.Context,
	blk chain.BlockContext,
	mu state.Mutable,
	actor codec.Address,
) (*chain.Result, error) {
	recipient := orDefault(c.Recipient, actor)
	acct, err := storage.GetAccount(ctx, mu, recipient)
	if err != nil {
		return nil, err
	}
	model, err := storage.GetModel(ctx, mu)
	if err != nil {
		return nil, err
	}

	var (
		now    = blk.Timestamp()
		height = blk.Height()

		claimable uint64
		done      bool
	)
	switch model {
	case vesting.Continuous:
		vested, err := acct.Vested(now)
		if err != nil {
			return nil, err
		}
		claimable, err = vesting.Claimable(vested, acct.ClaimedAmount)
		if err != nil {
			return nil, err
		}
		acct.ClaimedAmount = vested
		done = acct.ClaimedAmount == acct.VestingAmount
	case vesting.Scheduled:
		claimable, err = acct.Settle(now, height)
		if err != nil {
			return nil, err
		}
		done = !acct.HasPending()
	default:
		return nil, fmt.Errorf("%w: %d", vesting.ErrUnknownModel, model)
	}

	if done {
		final, err := acct.Project(model, now, height, false)
		if err != nil {
			return nil, err
		}
		if err := storage.RemoveAccount(ctx, mu, recipient); err != nil {
			return nil, err
		}
		if err := takeSnapshot(ctx, blk, mu, model); err != nil {
			return nil, err
		}
		if err := snapshot.RecordFinal(ctx, mu, final.Closed(), height); err != nil {
			return nil, err
		}
	} else {
		if err := storage.UpdateAccount(ctx, mu, acct); err != nil {
			return nil, err
		}
		if err := takeSnapshot(ctx, blk, mu, model); err != nil {
			return nil, err
		}
	}

	t, err := transfer(ctx, mu, recipient, claimable)
	if err != nil {
		return nil, err
	}
	return chain.NewResult(claimAction).
		Add(addressKey, recipient.String()).
		AddUint64(amountKey, claimable).
		AddUint64(SnapshotHeightKey, snapshot.Height(height)).
		AddTransfer(t), nil
}

func (c *Claim) Size() int {
	if c.Recipient == codec.EmptyAddress {
		return consts.ByteLen
	}
	return consts.ByteLen + codec.AddressLen
}

func (c *Claim) Marshal(p *codec.Packer) {
	op := codec.NewOptionalWriter(codec.AddressLen)
	op.PackAddress(c.Recipient)
	p.PackOptional(op)
}

func UnmarshalClaim(p *codec.Packer) (chain.Action, error) {
	var c Claim
	op := p.NewOptionalReader()
	op.UnpackAddress(&c.Recipient)
	op.Done()
	return &c, p.Err()
}
