// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/token"
	"github.com/Jazz877/kleo-vesting/vesting"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

const defaultBlockTime = 5_000 // ms

type CustomAllocation struct {
	Address string `json:"address"` // bech32 address
	Balance uint64 `json:"balance"`
}

type Genesis struct {
	// Address prefix
	HRP string `json:"hrp"`

	// Contract parameters
	Owner     string        `json:"owner"` // bech32 address
	Token     string        `json:"token"` // bech32 address
	Model     vesting.Model `json:"model"`
	BlockTime int64         `json:"blockTime"` // ms

	// Voting power
	Dao              string `json:"dao"`              // defaults to [Owner]
	VotingPowerRatio uint64 `json:"votingPowerRatio"` // 1.0 == consts.RatioPrecision

	// Allocations
	ContractBalance  uint64              `json:"contractBalance"`
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
}

func Default() *Genesis {
	return &Genesis{
		HRP:              consts.HRP,
		Model:            vesting.Continuous,
		BlockTime:        defaultBlockTime,
		VotingPowerRatio: consts.RatioPrecision,
	}
}

func New(b []byte) (*Genesis, error) {
	g := Default()
	if len(b) > 0 {
		if err := json.Unmarshal(b, g); err != nil {
			return nil, fmt.Errorf("failed to unmarshal genesis %s: %w", string(b), err)
		}
	}
	return g, nil
}

// Load writes the initial contract state to [mu].
func (g *Genesis) Load(ctx context.Context, tracer trace.Tracer, mu state.Mutable) error {
	ctx, span := tracer.Start(ctx, "Genesis.Load")
	defer span.End()

	if consts.HRP != g.HRP {
		return ErrInvalidHRP
	}
	if g.BlockTime <= 0 {
		return vesting.ErrInvalidBlockTime
	}
	if g.VotingPowerRatio == 0 {
		return ErrInvalidRatio
	}
	owner, err := codec.ParseAddressBech32(consts.HRP, g.Owner)
	if err != nil {
		return fmt.Errorf("%w: owner %w", ErrInvalidAddress, err)
	}
	tok, err := codec.ParseAddressBech32(consts.HRP, g.Token)
	if err != nil {
		return fmt.Errorf("%w: token %w", ErrInvalidAddress, err)
	}
	dao := owner
	if len(g.Dao) > 0 {
		dao, err = codec.ParseAddressBech32(consts.HRP, g.Dao)
		if err != nil {
			return fmt.Errorf("%w: dao %w", ErrInvalidAddress, err)
		}
	}

	if err := storage.SetOwner(ctx, mu, owner); err != nil {
		return err
	}
	if err := storage.SetToken(ctx, mu, tok); err != nil {
		return err
	}
	if err := storage.SetModel(ctx, mu, g.Model); err != nil {
		return err
	}
	if err := storage.SetBlockTime(ctx, mu, g.BlockTime); err != nil {
		return err
	}
	if err := storage.SetContractInfo(ctx, mu, &storage.ContractInfo{
		Name:    consts.ContractName,
		Version: consts.Version.String(),
	}); err != nil {
		return err
	}
	if err := storage.SetVotingConfig(ctx, mu, &storage.VotingConfig{
		Dao:             dao,
		VestingContract: token.ContractAddress,
		Token:           tok,
		Ratio:           g.VotingPowerRatio,
	}); err != nil {
		return err
	}

	supply := g.ContractBalance
	if err := storage.SetBalance(ctx, mu, token.ContractAddress, g.ContractBalance); err != nil {
		return err
	}
	for _, alloc := range g.CustomAllocation {
		addr, err := codec.ParseAddressBech32(consts.HRP, alloc.Address)
		if err != nil {
			return fmt.Errorf("%w: %s", err, alloc.Address)
		}
		supply, err = smath.Add(supply, alloc.Balance)
		if err != nil {
			return err
		}
		if _, err := storage.AddBalance(ctx, mu, addr, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}
	return nil
}
