// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/state"
)

// VotingConfig configures the voting power module of a DAO.
type VotingConfig struct {
	Dao             codec.Address `json:"dao"`
	VestingContract codec.Address `json:"vestingContract"`
	Token           codec.Address `json:"token"`
	// Ratio is a fixed point decimal with [consts.RatioPrecision].
	Ratio uint64 `json:"ratio"`
}

const votingConfigSize = codec.AddressLen*3 + consts.Uint64Len

func VotingConfigKey() []byte {
	return singletonKey(votingConfigPrefix, VotingConfigChunks)
}

func GetVotingConfig(ctx context.Context, im state.Immutable) (*VotingConfig, error) {
	v, err := im.GetValue(ctx, VotingConfigKey())
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(v, votingConfigSize)
	var cfg VotingConfig
	p.UnpackAddress(&cfg.Dao)
	p.UnpackAddress(&cfg.VestingContract)
	p.UnpackAddress(&cfg.Token)
	cfg.Ratio = p.UnpackUint64(false)
	return &cfg, p.Err()
}

func SetVotingConfig(ctx context.Context, mu state.Mutable, cfg *VotingConfig) error {
	p := codec.NewWriter(votingConfigSize, votingConfigSize)
	p.PackAddress(cfg.Dao)
	p.PackAddress(cfg.VestingContract)
	p.PackAddress(cfg.Token)
	p.PackUint64(cfg.Ratio)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, VotingConfigKey(), p.Bytes())
}
