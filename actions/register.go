// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/snapshot"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"
)

var _ chain.Action = (*Register)(nil)

// Register creates the vesting account of [Address].
type Register struct {
	Address   codec.Address `json:"address"`
	StartTime int64         `json:"startTime"`
	EndTime   int64         `json:"endTime"`

	// VestingAmount is released linearly over [StartTime, EndTime].
	VestingAmount uint64 `json:"vestingAmount"`

	// PrevestingAmount is the governance weight guaranteed before
	// [StartTime]. It is optional.
	PrevestingAmount uint64 `json:"prevestingAmount"`
}

func (*Register) GetTypeID() uint8 {
	return consts.RegisterID
}

func (r *Register) Execute(
	ctx context.Context,
	blk chain.BlockContext,
	mu state.Mutable,
	actor codec.Address,
) (*chain.Result, error) {
	if err := onlyOwner(ctx, mu, actor); err != nil {
		return nil, err
	}
	if r.Address == codec.EmptyAddress {
		return nil, ErrEmptyAddress
	}
	now := blk.Timestamp()
	acct := &vesting.Account{
		Address:          r.Address,
		VestingAmount:    r.VestingAmount,
		PrevestingAmount: r.PrevestingAmount,
		RegistrationTime: now,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
	}
	if err := acct.Validate(now); err != nil {
		return nil, err
	}
	model, err := storage.GetModel(ctx, mu)
	if err != nil {
		return nil, err
	}
	if model == vesting.Scheduled {
		payments, err := schedule(ctx, mu, blk, acct)
		if err != nil {
			return nil, err
		}
		acct.Payments = payments
	}
	if err := storage.CreateAccount(ctx, mu, acct); err != nil {
		return nil, err
	}
	if err := takeSnapshot(ctx, blk, mu, model); err != nil {
		return nil, err
	}
	return chain.NewResult(registerAction).
		Add(addressKey, r.Address.String()).
		AddUint64(vestingAmountKey, r.VestingAmount).
		AddUint64(SnapshotHeightKey, snapshot.Height(blk.Height())), nil
}

// schedule generates the payments of [acct] with the current block time.
func schedule(
	ctx context.Context,
	im state.Immutable,
	blk chain.BlockContext,
	acct *vesting.Account,
) ([]vesting.Payment, error) {
	blockTime, err := storage.GetBlockTime(ctx, im)
	if err != nil {
		return nil, err
	}
	ticks := vesting.Ticks(blockTime, acct.StartTime, acct.EndTime)
	switch {
	case ticks == 0:
		return nil, vesting.ErrEmptySchedule
	case ticks > vesting.MaxPayments:
		return nil, vesting.ErrScheduleTooLong
	}
	payments := vesting.GenerateSchedule(
		blockTime,
		blk.Height(),
		blk.Timestamp(),
		acct.StartTime,
		acct.EndTime,
		acct.VestingAmount,
	)
	if payments[0].Amount == 0 {
		// More ticks than units to release.
		return nil, vesting.ErrEmptySchedule
	}
	return payments, nil
}

func (*Register) Size() int {
	return codec.AddressLen + consts.Int64Len*2 + consts.Uint64Len*2
}

func (r *Register) Marshal(p *codec.Packer) {
	p.PackAddress(r.Address)
	p.PackInt64(r.StartTime)
	p.PackInt64(r.EndTime)
	p.PackUint64(r.VestingAmount)
	p.PackUint64(r.PrevestingAmount)
}

func UnmarshalRegister(p *codec.Packer) (chain.Action, error) {
	var r Register
	p.UnpackAddress(&r.Address)
	r.StartTime = p.UnpackInt64(false)
	r.EndTime = p.UnpackInt64(false)
	r.VestingAmount = p.UnpackUint64(true)
	r.PrevestingAmount = p.UnpackUint64(false)
	return &r, p.Err()
}
