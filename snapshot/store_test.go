// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	testrequire "github.com/stretchr/testify/require"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/keys"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"
)

var testStore = NewStore[uint64](
	7,
	func(v uint64) ([]byte, error) { return database.PackUInt64(v), nil },
	database.ParseUInt64,
)

func TestReadAtOrBefore(t *testing.T) {
	require := testrequire.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())
	key := []byte("k")

	// Written out of order.
	for _, h := range []uint64{10, 30, 20} {
		require.NoError(testStore.Write(ctx, mu, key, h, h*100))
	}
	heights, err := testStore.Heights(ctx, mu, key)
	require.NoError(err)
	require.Equal([]uint64{10, 20, 30}, heights)

	tests := map[string]struct {
		height   uint64
		expected uint64
		found    bool
	}{
		"before first": {height: 9, found: false},
		"zero":         {height: 0, found: false},
		"exact first":  {height: 10, expected: 1_000, found: true},
		"between":      {height: 15, expected: 1_000, found: true},
		"exact middle": {height: 20, expected: 2_000, found: true},
		"just before":  {height: 29, expected: 2_000, found: true},
		"after last":   {height: 1_000, expected: 3_000, found: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := testrequire.New(t)
			v, found, err := testStore.ReadAtOrBefore(ctx, mu, key, tt.height)
			require.NoError(err)
			require.Equal(tt.found, found)
			require.Equal(tt.expected, v)
		})
	}

	// Other keys are independent.
	_, found, err := testStore.ReadAtOrBefore(ctx, mu, []byte("other"), 1_000)
	require.NoError(err)
	require.False(found)
}

func TestWriteReplacesSameHeight(t *testing.T) {
	require := testrequire.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())
	key := []byte("k")

	require.NoError(testStore.Write(ctx, mu, key, 5, 1))
	require.NoError(testStore.Write(ctx, mu, key, 5, 2))

	heights, err := testStore.Heights(ctx, mu, key)
	require.NoError(err)
	require.Equal([]uint64{5}, heights)
	v, found, err := testStore.ReadAtOrBefore(ctx, mu, key, 5)
	require.NoError(err)
	require.True(found)
	require.Equal(uint64(2), v)
}

func TestReadAtOrBeforeAcrossPages(t *testing.T) {
	require := testrequire.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())
	key := []byte("k")

	recorded := []uint64{0, fanout - 1, fanout, 3*fanout + 7, 1 << 40, math.MaxUint64 - 1}
	for _, h := range recorded {
		require.NoError(testStore.Write(ctx, mu, key, h, h))
	}
	heights, err := testStore.Heights(ctx, mu, key)
	require.NoError(err)
	require.Equal(recorded, heights)

	tests := map[string]struct {
		height   uint64
		expected uint64
	}{
		"first":               {height: 0, expected: 0},
		"first page":          {height: fanout - 2, expected: 0},
		"last slot of page":   {height: fanout - 1, expected: fanout - 1},
		"first slot of page":  {height: fanout, expected: fanout},
		"empty pages between": {height: 3*fanout + 6, expected: fanout},
		"later page":          {height: 3*fanout + 7, expected: 3*fanout + 7},
		"far gap":             {height: 1<<40 - 1, expected: 3*fanout + 7},
		"above gap":           {height: 1<<40 + 1, expected: 1 << 40},
		"top of range":        {height: math.MaxUint64, expected: math.MaxUint64 - 1},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := testrequire.New(t)
			v, found, err := testStore.ReadAtOrBefore(ctx, mu, key, tt.height)
			require.NoError(err)
			require.True(found)
			require.Equal(tt.expected, v)
		})
	}
}

func TestWriteFillsPages(t *testing.T) {
	require := testrequire.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())
	key := []byte("k")

	// More heights than one page holds, each written once per block.
	const n = 3*fanout + 5
	for h := uint64(1); h <= n; h++ {
		require.NoError(testStore.Write(ctx, mu, key, h, h))
	}
	heights, err := testStore.Heights(ctx, mu, key)
	require.NoError(err)
	require.Len(heights, n)

	// A full page stays within its chunk budget.
	slots, err := testStore.page(ctx, mu, key, 0, 1)
	require.NoError(err)
	require.Len(slots, fanout)
	v, err := mu.GetValue(ctx, testStore.indexKey(key, 0, 1))
	require.NoError(err)
	require.True(keys.VerifyValue(testStore.indexKey(key, 0, 1), v))

	for _, h := range []uint64{1, fanout, 2*fanout + 1, n} {
		v, found, err := testStore.ReadAtOrBefore(ctx, mu, key, h)
		require.NoError(err)
		require.True(found)
		require.Equal(h, v)
	}
}

func TestSnapshotHeight(t *testing.T) {
	require := testrequire.New(t)
	require.Equal(uint64(999), Height(1_000))
	require.Equal(uint64(0), Height(1))
	require.Equal(uint64(0), Height(0))
}

func TestTake(t *testing.T) {
	require := testrequire.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())

	// No accounts yields a zero aggregate, not an error.
	totals, n, err := Take(ctx, mu, vesting.Continuous, 5, 0)
	require.NoError(err)
	require.Zero(n)
	require.Equal(&vesting.Totals{}, totals)
	got, found, err := TotalsAt(ctx, mu, 5)
	require.NoError(err)
	require.True(found)
	require.Equal(&vesting.Totals{}, got)

	a := &vesting.Account{
		Address:       codec.CreateAddress(0, ids.GenerateTestID()),
		VestingAmount: 100,
		StartTime:     100,
		EndTime:       200,
	}
	b := &vesting.Account{
		Address:       codec.CreateAddress(0, ids.GenerateTestID()),
		VestingAmount: 1_000,
		StartTime:     100,
		EndTime:       1_100,
		ClaimedAmount: 3,
	}
	require.NoError(storage.CreateAccount(ctx, mu, a))
	require.NoError(storage.CreateAccount(ctx, mu, b))

	totals, n, err = Take(ctx, mu, vesting.Continuous, 11, 150)
	require.NoError(err)
	require.Equal(2, n)

	// Conservation: the aggregate is the sum of recorded projections.
	var sum vesting.Totals
	for _, acct := range []*vesting.Account{a, b} {
		d, found, err := AccountAt(ctx, mu, acct.Address, 11)
		require.NoError(err)
		require.True(found)
		require.NoError(sum.Add(d))
	}
	require.Equal(sum, *totals)
	require.Equal(uint64(50+50), totals.VestedAmount)
	require.Equal(uint64(3), totals.ClaimedAmount)

	// Recorded under height 10: invisible to a query at height 10.
	_, found, err = AccountAt(ctx, mu, a.Address, 10)
	require.NoError(err)
	require.False(found)
	got, found, err = TotalsAt(ctx, mu, 10)
	require.NoError(err)
	require.True(found)
	require.Zero(got.VestingAmount)
}

func TestRecordFinal(t *testing.T) {
	require := testrequire.New(t)
	ctx := context.TODO()
	mu := state.NewSimpleMutable(memdb.New())
	addr := codec.CreateAddress(0, ids.GenerateTestID())

	live := &vesting.Data{Address: addr, VestingAmount: 10, VestedAmount: 4, ClaimableAmount: 4}
	require.NoError(Accounts.Write(ctx, mu, addr[:], 3, live))
	require.NoError(RecordFinal(ctx, mu, live.Revoked(), 8))

	before, found, err := AccountAt(ctx, mu, addr, 7)
	require.NoError(err)
	require.True(found)
	require.Equal(live, before)

	after, found, err := AccountAt(ctx, mu, addr, 8)
	require.NoError(err)
	require.True(found)
	require.Zero(after.VestingAmount)
	require.Zero(after.ClaimableAmount)

	_, found, err = AccountAt(ctx, mu, addr, 0)
	require.NoError(err)
	require.False(found)
}
