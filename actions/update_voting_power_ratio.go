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
)

var _ chain.Action = (*UpdateVotingPowerRatio)(nil)

// UpdateVotingPowerRatio sets how many units of voting power one token is
// worth. Only the DAO may call it.
type UpdateVotingPowerRatio struct {
	// Ratio is a fixed point decimal with [consts.RatioPrecision].
	Ratio uint64 `json:"ratio"`
}

func (*UpdateVotingPowerRatio) GetTypeID() uint8 {
	return consts.UpdateVotingPowerRatioID
}

func (u *UpdateVotingPowerRatio) Execute(
	ctx context.Context,
	_ chain.BlockContext,
	mu state.Mutable,
	actor codec.Address,
) (*chain.Result, error) {
	cfg, err := storage.GetVotingConfig(ctx, mu)
	if err != nil {
		return nil, err
	}
	if actor != cfg.Dao {
		return nil, ErrUnauthorized
	}
	if u.Ratio == 0 {
		return nil, ErrZeroRatio
	}
	cfg.Ratio = u.Ratio
	if err := storage.SetVotingConfig(ctx, mu, cfg); err != nil {
		return nil, err
	}
	return chain.NewResult(updateVotingPowerRatioAction).
		AddUint64(ratioKey, u.Ratio), nil
}

func (*UpdateVotingPowerRatio) Size() int {
	return consts.Uint64Len
}

func (u *UpdateVotingPowerRatio) Marshal(p *codec.Packer) {
	p.PackUint64(u.Ratio)
}

func UnmarshalUpdateVotingPowerRatio(p *codec.Packer) (chain.Action, error) {
	var u UpdateVotingPowerRatio
	u.Ratio = p.UnpackUint64(true)
	return &u, p.Err()
}
