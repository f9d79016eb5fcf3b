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

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ chain.Action = (*Deregister)(nil)

// Deregister ends the vesting of [Address]. What is claimable is sent to
// [VestedRecipient] (default: [Address]) and what has not vested yet is sent
// to [LeftRecipient] (default: the caller).
type Deregister struct {
	Address         codec.Address `json:"address"`
	VestedRecipient codec.Address `json:"vestedRecipient,omitempty"`
	LeftRecipient   codec.Address `json:"leftRecipient,omitempty"`
}

func (*Deregister) GetTypeID() uint8 {
	return consts.DeregisterID
}

func (d *Deregister) Execute(
	ctx context.Context,
	blk chain.BlockContext,
	mu state.Mutable,
	actor codec.Address,
) (*chain.Result, error) {
	if err := onlyOwner(ctx, mu, actor); err != nil {
		return nil, err
	}
	acct, err := storage.GetAccount(ctx, mu, d.Address)
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

		vested, claimable, left uint64
	)
	switch model {
	case vesting.Continuous:
		vested, err = acct.Vested(now)
		if err != nil {
			return nil, err
		}
		claimable, err = vesting.Claimable(vested, acct.ClaimedAmount)
		if err != nil {
			return nil, err
		}
		left, err = smath.Sub(acct.VestingAmount, vested)
		if err != nil {
			return nil, err
		}
	case vesting.Scheduled:
		// Due payments are paid out and the rest is revoked.
		claimable, err = acct.Settle(now, height)
		if err != nil {
			return nil, err
		}
		left, err = acct.Revoke(now, height)
		if err != nil {
			return nil, err
		}
		vested, err = acct.VestedAt(now, height)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %d", vesting.ErrUnknownModel, model)
	}

	final, err := acct.Project(model, now, height, false)
	if err != nil {
		return nil, err
	}
	if err := storage.RemoveAccount(ctx, mu, d.Address); err != nil {
		return nil, err
	}
	if err := takeSnapshot(ctx, blk, mu, model); err != nil {
		return nil, err
	}
	if err := snapshot.RecordFinal(ctx, mu, final.Revoked(), height); err != nil {
		return nil, err
	}

	result := chain.NewResult(deregisterAction).
		Add(addressKey, d.Address.String()).
		AddUint64(vestingAmountKey, acct.VestingAmount).
		AddUint64(vestedAmountKey, vested).
		AddUint64(claimableAmountKey, claimable).
		AddUint64(leftVestingAmountKey, left).
		AddUint64(SnapshotHeightKey, snapshot.Height(height))
	if claimable > 0 {
		t, err := transfer(ctx, mu, orDefault(d.VestedRecipient, acct.Address), claimable)
		if err != nil {
			return nil, err
		}
		result.AddTransfer(t)
	}
	if left > 0 {
		t, err := transfer(ctx, mu, orDefault(d.LeftRecipient, actor), left)
		if err != nil {
			return nil, err
		}
		result.AddTransfer(t)
	}
	return result, nil
}

func (d *Deregister) Size() int {
	size := codec.AddressLen + consts.ByteLen
	if d.VestedRecipient != codec.EmptyAddress {
		size += codec.AddressLen
	}
	if d.LeftRecipient != codec.EmptyAddress {
		size += codec.AddressLen
	}
	return size
}

func (d *Deregister) Marshal(p *codec.Packer) {
	p.PackAddress(d.Address)
	op := codec.NewOptionalWriter(codec.AddressLen * 2)
	op.PackAddress(d.VestedRecipient)
	op.PackAddress(d.LeftRecipient)
	p.PackOptional(op)
}

func UnmarshalDeregister(p *codec.Packer) (chain.Action, error) {
	var d Deregister
	p.UnpackAddress(&d.Address)
	op := p.NewOptionalReader()
	op.UnpackAddress(&d.VestedRecipient)
	op.UnpackAddress(&d.LeftRecipient)
	op.Done()
	return &d, p.Err()
}
