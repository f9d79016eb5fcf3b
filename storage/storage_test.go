// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/pebble"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/vesting"
)

func newAccount(b byte, amount uint64) *vesting.Account {
	var id ids.ID
	id[0] = b
	return &vesting.Account{
		Address:       codec.CreateAddress(0, id),
		VestingAmount: amount,
		StartTime:     10,
		EndTime:       20,
	}
}

func TestAccountStore(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())

	// Insert out of order, expect ascending sweeps.
	for _, b := range []byte{3, 1, 2} {
		require.NoError(CreateAccount(ctx, mu, newAccount(b, uint64(b)*100)))
	}
	require.ErrorIs(CreateAccount(ctx, mu, newAccount(1, 5)), ErrAccountExists)

	accts, err := Accounts(ctx, mu)
	require.NoError(err)
	require.Len(accts, 3)
	for i := 1; i < len(accts); i++ {
		require.Negative(bytes.Compare(accts[i-1].Address[:], accts[i].Address[:]))
	}
	require.Equal(uint64(100), accts[0].VestingAmount)

	updated := accts[1].Clone()
	updated.ClaimedAmount = 50
	require.NoError(UpdateAccount(ctx, mu, updated))
	got, err := GetAccount(ctx, mu, updated.Address)
	require.NoError(err)
	require.Equal(uint64(50), got.ClaimedAmount)

	require.NoError(RemoveAccount(ctx, mu, updated.Address))
	_, err = GetAccount(ctx, mu, updated.Address)
	require.ErrorIs(err, ErrAccountNotFound)
	require.ErrorIs(UpdateAccount(ctx, mu, updated), ErrAccountNotFound)
	require.ErrorIs(RemoveAccount(ctx, mu, updated.Address), ErrAccountNotFound)

	addrs, err := AccountAddresses(ctx, mu)
	require.NoError(err)
	require.Equal([]codec.Address{accts[0].Address, accts[2].Address}, addrs)

	for _, addr := range addrs {
		require.NoError(RemoveAccount(ctx, mu, addr))
	}
	addrs, err = AccountAddresses(ctx, mu)
	require.NoError(err)
	require.Empty(addrs)
}

func TestSingletons(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())

	_, err := GetOwner(ctx, mu)
	require.ErrorIs(err, ErrNotInitialized)
	_, err = GetBlockTime(ctx, mu)
	require.ErrorIs(err, ErrNotInitialized)

	owner := codec.CreateAddress(0, ids.GenerateTestID())
	token := codec.CreateAddress(1, ids.GenerateTestID())
	require.NoError(SetOwner(ctx, mu, owner))
	require.NoError(SetToken(ctx, mu, token))
	require.NoError(SetBlockTime(ctx, mu, 5_000))
	require.NoError(SetModel(ctx, mu, vesting.Scheduled))
	require.NoError(SetContractInfo(ctx, mu, &ContractInfo{Name: "kleo-vesting", Version: "v0.2.0"}))
	require.NoError(SetLastBlock(ctx, mu, 7, 7_000))

	gotOwner, err := GetOwner(ctx, mu)
	require.NoError(err)
	require.Equal(owner, gotOwner)
	gotToken, err := GetToken(ctx, mu)
	require.NoError(err)
	require.Equal(token, gotToken)
	bt, err := GetBlockTime(ctx, mu)
	require.NoError(err)
	require.Equal(int64(5_000), bt)
	model, err := GetModel(ctx, mu)
	require.NoError(err)
	require.Equal(vesting.Scheduled, model)
	info, err := GetContractInfo(ctx, mu)
	require.NoError(err)
	require.Equal("v0.2.0", info.Version)
	height, ts, ok, err := GetLastBlock(ctx, mu)
	require.NoError(err)
	require.True(ok)
	require.Equal(uint64(7), height)
	require.Equal(int64(7_000), ts)
}

func TestBalances(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())
	addr := codec.CreateAddress(0, ids.GenerateTestID())

	bal, err := GetBalance(ctx, mu, addr)
	require.NoError(err)
	require.Zero(bal)

	_, err = SubBalance(ctx, mu, addr, 1)
	require.ErrorIs(err, ErrInvalidBalance)

	bal, err = AddBalance(ctx, mu, addr, 10)
	require.NoError(err)
	require.Equal(uint64(10), bal)
	bal, err = SubBalance(ctx, mu, addr, 10)
	require.NoError(err)
	require.Zero(bal)
	has, err := mu.GetValue(ctx, BalanceKey(addr))
	require.Error(err)
	require.Nil(has)
}

func TestVotingConfig(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())

	_, err := GetVotingConfig(ctx, mu)
	require.ErrorIs(err, ErrNotInitialized)

	cfg := &VotingConfig{
		Dao:             codec.CreateAddress(0, ids.GenerateTestID()),
		VestingContract: codec.CreateAddress(0, ids.GenerateTestID()),
		Token:           codec.CreateAddress(0, ids.GenerateTestID()),
		Ratio:           500_000_000_000_000_000,
	}
	require.NoError(SetVotingConfig(ctx, mu, cfg))
	got, err := GetVotingConfig(ctx, mu)
	require.NoError(err)
	require.Equal(cfg, got)
}

func TestNewDatabase(t *testing.T) {
	require := require.New(t)

	db, err := New(MemDatabase, pebble.NewDefaultConfig(), "", prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(db.Close())

	cfg := pebble.NewDefaultConfig()
	cfg.Sync = false
	db, err = New(PebbleDatabase, cfg, t.TempDir(), prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(db.Put([]byte("k"), []byte("v")))
	require.NoError(db.Close())

	_, err = New("leveldb", cfg, t.TempDir(), prometheus.NewRegistry())
	require.ErrorIs(err, ErrUnknownDatabaseType)
}
