// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package voting derives DAO voting power from the vesting history.
package voting

import (
	"context"
	"fmt"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/snapshot"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// Power converts the unclaimed governance weight of a projection into
// voting power: (prevested - claimed) * ratio. A projection claiming more
// than its prevested amount is corrupt and reported.
func Power(prevested, claimed, ratio uint64) (uint64, error) {
	weight, err := smath.Sub(prevested, claimed)
	if err != nil {
		return 0, fmt.Errorf("%w: prevested=%d claimed=%d", ErrClaimedExceedsPrevested, prevested, claimed)
	}
	return vesting.MulDiv(weight, ratio, consts.RatioPrecision)
}

// PowerAtHeight returns the voting power of [addr] as of [height].
func PowerAtHeight(ctx context.Context, im state.Immutable, addr codec.Address, height uint64) (uint64, error) {
	cfg, err := storage.GetVotingConfig(ctx, im)
	if err != nil {
		return 0, err
	}
	d, found, err := snapshot.AccountAt(ctx, im, addr, height)
	if err != nil || !found {
		return 0, err
	}
	return Power(d.PrevestedAmount, d.ClaimedAmount, cfg.Ratio)
}

// TotalPowerAtHeight returns the voting power of all accounts as of
// [height].
func TotalPowerAtHeight(ctx context.Context, im state.Immutable, height uint64) (uint64, error) {
	cfg, err := storage.GetVotingConfig(ctx, im)
	if err != nil {
		return 0, err
	}
	totals, _, err := snapshot.TotalsAt(ctx, im, height)
	if err != nil {
		return 0, err
	}
	return Power(totals.PrevestedAmount, totals.ClaimedAmount, cfg.Ratio)
}
