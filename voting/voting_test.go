// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package voting

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/snapshot"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"
)

func TestPower(t *testing.T) {
	tests := map[string]struct {
		prevested uint64
		claimed   uint64
		ratio     uint64
		expected  uint64
		err       error
	}{
		"one to one":                {prevested: 100, claimed: 40, ratio: consts.RatioPrecision, expected: 60},
		"half":                      {prevested: 100, claimed: 0, ratio: consts.RatioPrecision / 2, expected: 50},
		"double":                    {prevested: 100, claimed: 0, ratio: 2 * consts.RatioPrecision, expected: 200},
		"fully claimed":             {prevested: 100, claimed: 100, ratio: consts.RatioPrecision, expected: 0},
		"claimed exceeds prevested": {prevested: 10, claimed: 20, ratio: consts.RatioPrecision, err: ErrClaimedExceedsPrevested},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			power, err := Power(tt.prevested, tt.claimed, tt.ratio)
			require.ErrorIs(err, tt.err)
			require.Equal(tt.expected, power)
		})
	}
}

func TestPowerAtHeight(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())
	addr := codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())

	_, err := PowerAtHeight(ctx, mu, addr, 10)
	require.ErrorIs(err, storage.ErrNotInitialized)

	require.NoError(storage.SetVotingConfig(ctx, mu, &storage.VotingConfig{
		Ratio: consts.RatioPrecision,
	}))
	require.NoError(storage.CreateAccount(ctx, mu, &vesting.Account{
		Address:          addr,
		VestingAmount:    100,
		PrevestingAmount: 10,
		RegistrationTime: 0,
		StartTime:        50,
		EndTime:          100,
	}))
	// Recorded while executing block 5 at time 20.
	_, _, err = snapshot.Take(ctx, mu, vesting.Continuous, 5, 20)
	require.NoError(err)

	power, err := PowerAtHeight(ctx, mu, addr, 4)
	require.NoError(err)
	require.Zero(power)

	power, err = PowerAtHeight(ctx, mu, addr, 5)
	require.NoError(err)
	require.Equal(uint64(40), power)

	total, err := TotalPowerAtHeight(ctx, mu, 5)
	require.NoError(err)
	require.Equal(uint64(40), total)

	total, err = TotalPowerAtHeight(ctx, mu, 0)
	require.NoError(err)
	require.Zero(total)
}
