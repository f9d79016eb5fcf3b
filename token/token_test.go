// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
)

func TestApply(t *testing.T) {
	var (
		tok   = codec.CreateAddress(consts.ContractID, ids.GenerateTestID())
		alice = codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())
		bob   = codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())
	)
	tests := map[string]struct {
		transfers []*chain.Transfer
		err       error
		balances  map[codec.Address]uint64
	}{
		"empty": {
			balances: map[codec.Address]uint64{ContractAddress: 100},
		},
		"two transfers": {
			transfers: []*chain.Transfer{
				{Token: tok, Recipient: alice, Amount: 60},
				{Token: tok, Recipient: bob, Amount: 40},
			},
			balances: map[codec.Address]uint64{ContractAddress: 0, alice: 60, bob: 40},
		},
		"zero amount skipped": {
			transfers: []*chain.Transfer{{Token: tok, Recipient: alice}},
			balances:  map[codec.Address]uint64{ContractAddress: 100, alice: 0},
		},
		"wrong token": {
			transfers: []*chain.Transfer{{Token: alice, Recipient: bob, Amount: 1}},
			err:       ErrUnknownToken,
		},
		"insufficient balance": {
			transfers: []*chain.Transfer{{Token: tok, Recipient: bob, Amount: 101}},
			err:       ErrInsufficientBalance,
		},
		"empty recipient": {
			transfers: []*chain.Transfer{{Token: tok, Amount: 1}},
			err:       ErrInvalidRecipient,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.TODO()
			mu := state.NewSimpleMutable(memdb.New())
			require.NoError(storage.SetToken(ctx, mu, tok))
			require.NoError(storage.SetBalance(ctx, mu, ContractAddress, 100))

			err := Apply(ctx, mu, tt.transfers)
			require.ErrorIs(err, tt.err)
			for addr, expected := range tt.balances {
				bal, err := storage.GetBalance(ctx, mu, addr)
				require.NoError(err)
				require.Equal(expected, bal)
			}
		})
	}
}
