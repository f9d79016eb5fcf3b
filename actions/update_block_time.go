// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"
)

var _ chain.Action = (*UpdateBlockTime)(nil)

// UpdateBlockTime changes the expected block interval (in ms) and
// reschedules the pending future payments of every account.
type UpdateBlockTime struct {
	BlockTime int64 `json:"blockTime"`
}

func (*UpdateBlockTime) GetTypeID() uint8 {
	return consts.UpdateBlockTimeID
}

func (u *UpdateBlockTime) Execute(
	ctx context.Context,
	blk chain.BlockContext,
	mu state.Mutable,
	actor codec.Address,
) (*chain.Result, error) {
	if err := onlyOwner(ctx, mu, actor); err != nil {
		return nil, err
	}
	model, err := storage.GetModel(ctx, mu)
	if err != nil {
		return nil, err
	}
	if model != vesting.Scheduled {
		return nil, ErrWrongModel
	}
	if u.BlockTime <= 0 {
		return nil, vesting.ErrInvalidBlockTime
	}
	accts, err := storage.Accounts(ctx, mu)
	if err != nil {
		return nil, err
	}
	for _, acct := range accts {
		payments, err := vesting.Reschedule(
			acct.Payments,
			u.BlockTime,
			blk.Height(),
			blk.Timestamp(),
			acct.EndTime,
		)
		if err != nil {
			return nil, err
		}
		acct.Payments = payments
		if err := storage.UpdateAccount(ctx, mu, acct); err != nil {
			return nil, err
		}
	}
	if err := storage.SetBlockTime(ctx, mu, u.BlockTime); err != nil {
		return nil, err
	}
	return chain.NewResult(updateBlockTimeAction).
		Add(blockTimeKey, formatInt(u.BlockTime)).
		AddUint64(accountsKey, uint64(len(accts))), nil
}

func (*UpdateBlockTime) Size() int {
	return consts.Int64Len
}

func (u *UpdateBlockTime) Marshal(p *codec.Packer) {
	p.PackInt64(u.BlockTime)
}

func UnmarshalUpdateBlockTime(p *codec.Packer) (chain.Action, error) {
	var u UpdateBlockTime
	u.BlockTime = p.UnpackInt64(true)
	return &u, p.Err()
}
