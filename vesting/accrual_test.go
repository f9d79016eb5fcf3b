// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vesting

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/math"
	"github.com/stretchr/testify/require"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
)

func TestVestedContinuous(t *testing.T) {
	acct := &Account{VestingAmount: 100, StartTime: 0, EndTime: 100}
	tests := map[string]struct {
		t        int64
		expected uint64
	}{
		"at start":      {t: 0, expected: 0},
		"before start":  {t: -10, expected: 0},
		"halfway":       {t: 50, expected: 50},
		"at end":        {t: 100, expected: 100},
		"after end":     {t: 102, expected: 100},
		"one step in":   {t: 1, expected: 1},
		"three quarter": {t: 75, expected: 75},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			vested, err := acct.Vested(tt.t)
			require.NoError(err)
			require.Equal(tt.expected, vested)
		})
	}
}

func TestVestedTruncates(t *testing.T) {
	require := require.New(t)
	acct := &Account{VestingAmount: 10, StartTime: 0, EndTime: 3}

	vested, err := acct.Vested(1)
	require.NoError(err)
	require.Equal(uint64(3), vested)
	vested, err = acct.Vested(2)
	require.NoError(err)
	require.Equal(uint64(6), vested)
}

func TestVestedMonotonic(t *testing.T) {
	require := require.New(t)
	acct := &Account{VestingAmount: 1_000_003, StartTime: 17, EndTime: 9_973}

	var last uint64
	for ts := int64(0); ts <= 10_000; ts += 7 {
		vested, err := acct.Vested(ts)
		require.NoError(err)
		require.GreaterOrEqual(vested, last)
		last = vested
	}
	require.Equal(acct.VestingAmount, last)
}

func TestVestedWideIntermediate(t *testing.T) {
	require := require.New(t)
	acct := &Account{
		VestingAmount: consts.MaxUint64 - 1,
		StartTime:     0,
		EndTime:       1 << 62,
	}

	// VestingAmount * elapsed overflows 64 bits but the quotient does not.
	vested, err := acct.Vested(1 << 61)
	require.NoError(err)
	require.Equal((consts.MaxUint64-1)/2, vested)
}

func TestMulDiv(t *testing.T) {
	require := require.New(t)

	_, err := MulDiv(1, 1, 0)
	require.ErrorIs(err, ErrDivideByZero)

	_, err = MulDiv(consts.MaxUint64, 2, 1)
	require.ErrorIs(err, math.ErrOverflow)

	v, err := MulDiv(consts.MaxUint64, consts.MaxUint64, consts.MaxUint64)
	require.NoError(err)
	require.Equal(consts.MaxUint64, v)
}

func TestPrevested(t *testing.T) {
	acct := &Account{
		VestingAmount:    100,
		PrevestingAmount: 10,
		RegistrationTime: 0,
		StartTime:        50,
		EndTime:          100,
	}
	tests := map[string]struct {
		t         int64
		vested    uint64
		prevested uint64
	}{
		"at registration": {t: 0, vested: 0, prevested: 10},
		"floor":           {t: 4, vested: 0, prevested: 10},
		"ramp":            {t: 20, vested: 0, prevested: 40},
		"late ramp":       {t: 40, vested: 0, prevested: 80},
		"vesting started": {t: 70, vested: 40, prevested: 100},
		"done":            {t: 150, vested: 100, prevested: 100},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			vested, err := acct.Vested(tt.t)
			require.NoError(err)
			require.Equal(tt.vested, vested)
			prevested, err := acct.Prevested(tt.t)
			require.NoError(err)
			require.Equal(tt.prevested, prevested)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Account{
		VestingAmount:    100,
		PrevestingAmount: 10,
		RegistrationTime: 10,
		StartTime:        20,
		EndTime:          30,
	}
	tests := map[string]struct {
		mutate func(*Account)
		err    error
	}{
		"valid":                   {mutate: func(*Account) {}},
		"zero amount":             {mutate: func(a *Account) { a.VestingAmount = 0 }, err: ErrZeroVestingAmount},
		"start before now":        {mutate: func(a *Account) { a.StartTime = 5 }, err: ErrStartBeforeNow},
		"end before start":        {mutate: func(a *Account) { a.EndTime = 19 }, err: ErrEndBeforeStart},
		"prevesting too large":    {mutate: func(a *Account) { a.PrevestingAmount = 101 }, err: ErrPrevestingExceedsVesting},
		"registration in past":    {mutate: func(a *Account) { a.RegistrationTime = 9 }, err: ErrRegistrationBeforeNow},
		"start before registered": {mutate: func(a *Account) { a.RegistrationTime = 25 }, err: ErrStartBeforeRegistration},
		"empty window":            {mutate: func(a *Account) { a.EndTime = 20 }},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			acct := valid
			tt.mutate(&acct)
			require.ErrorIs(t, acct.Validate(10), tt.err)
		})
	}
}

func TestScheduledSums(t *testing.T) {
	require := require.New(t)
	acct := &Account{
		VestingAmount: 40,
		StartTime:     100,
		EndTime:       140,
		Payments: []Payment{
			{Amount: 10, Height: 5, Timestamp: 100, Status: Paid},
			{Amount: 10, Height: 6, Timestamp: 110, Status: Pending},
			{Amount: 10, Height: 7, Timestamp: 120, Status: Pending},
			{Amount: 10, Height: 8, Timestamp: 130, Status: Revoked},
		},
	}

	// Nothing is due before the start time, whatever the height.
	vested, err := acct.VestedAt(99, 100)
	require.NoError(err)
	require.Zero(vested)

	vested, err = acct.VestedAt(120, 6)
	require.NoError(err)
	require.Equal(uint64(20), vested)
	claimed, err := acct.ClaimedAt(120, 6)
	require.NoError(err)
	require.Equal(uint64(10), claimed)
	claimable, err := acct.ClaimableAt(120, 6)
	require.NoError(err)
	require.Equal(uint64(10), claimable)

	// Revoked payments never vest.
	vested, err = acct.VestedAt(200, 100)
	require.NoError(err)
	require.Equal(uint64(30), vested)
}

func TestSettleAndRevoke(t *testing.T) {
	require := require.New(t)
	acct := &Account{
		VestingAmount: 30,
		Payments: []Payment{
			{Amount: 10, Height: 1},
			{Amount: 10, Height: 2},
			{Amount: 10, Height: 3},
		},
	}

	settled, err := acct.SettleDue(2)
	require.NoError(err)
	require.Equal(uint64(20), settled)
	require.Equal(uint64(20), acct.ClaimedAmount)

	settled, err = acct.SettleDue(2)
	require.NoError(err)
	require.Zero(settled)
	require.True(acct.HasPending())

	revoked, err := acct.RevokeFuture(2)
	require.NoError(err)
	require.Equal(uint64(10), revoked)
	require.False(acct.HasPending())
	require.Equal(Revoked, acct.Payments[2].Status)
}

func TestSettleBeforeStart(t *testing.T) {
	require := require.New(t)
	acct := &Account{
		VestingAmount: 20,
		StartTime:     100,
		EndTime:       120,
		Payments: []Payment{
			{Amount: 10, Height: 1, Timestamp: 100},
			{Amount: 10, Height: 2, Timestamp: 110},
		},
	}

	// Nothing is due before the start time, regardless of height.
	settled, err := acct.Settle(50, 5)
	require.NoError(err)
	require.Zero(settled)

	revoked, err := acct.Revoke(50, 5)
	require.NoError(err)
	require.Equal(uint64(20), revoked)
	require.False(acct.HasPending())
	require.Zero(acct.ClaimedAmount)
}

func TestClaimableUnderflow(t *testing.T) {
	require := require.New(t)
	_, err := Claimable(5, 6)
	require.ErrorIs(err, ErrClaimedExceedsVested)

	claimable, err := Claimable(6, 5)
	require.NoError(err)
	require.Equal(uint64(1), claimable)
}

func TestProjectAndTotals(t *testing.T) {
	require := require.New(t)
	a := &Account{
		Address:       codec.CreateAddress(0, ids.GenerateTestID()),
		VestingAmount: 100,
		StartTime:     100,
		EndTime:       200,
		ClaimedAmount: 5,
	}
	b := &Account{
		Address:          codec.CreateAddress(0, ids.GenerateTestID()),
		VestingAmount:    50,
		PrevestingAmount: 20,
		StartTime:        300,
		EndTime:          400,
	}

	var totals Totals
	for _, acct := range []*Account{a, b} {
		d, err := acct.Project(Continuous, 110, 0, false)
		require.NoError(err)
		require.NoError(totals.Add(d))
	}
	require.Equal(Totals{
		VestingAmount:    150,
		VestedAmount:     10,
		ClaimedAmount:    5,
		PrevestingAmount: 20,
		PrevestedAmount:  120,
	}, totals)

	d, err := a.Project(Continuous, 110, 0, false)
	require.NoError(err)
	require.Equal(uint64(5), d.ClaimableAmount)
	closed := d.Closed()
	require.Equal(d.VestedAmount, closed.ClaimedAmount)
	require.Zero(closed.ClaimableAmount)
	revoked := d.Revoked()
	require.Zero(revoked.VestingAmount)
	require.Equal(a.Address, revoked.Address)

	// Claimed beyond vested is surfaced.
	a.ClaimedAmount = 50
	_, err = a.Project(Continuous, 110, 0, false)
	require.ErrorIs(err, ErrClaimedExceedsVested)
}

func TestAccountCodec(t *testing.T) {
	require := require.New(t)
	acct := &Account{
		Address:          codec.CreateAddress(0, ids.GenerateTestID()),
		VestingAmount:    100,
		PrevestingAmount: 10,
		RegistrationTime: 1,
		StartTime:        2,
		EndTime:          3,
		ClaimedAmount:    4,
		Payments: []Payment{
			{Amount: 50, Height: 9, Timestamp: 2, Status: Paid},
			{Amount: 50, Height: 10, Timestamp: 3, Status: Revoked},
		},
	}
	p := codec.NewWriter(acct.Size(), acct.Size())
	acct.Marshal(p)
	require.NoError(p.Err())
	require.Len(p.Bytes(), acct.Size())

	parsed, err := UnmarshalAccount(codec.NewReader(p.Bytes(), consts.MaxInt))
	require.NoError(err)
	require.Equal(acct, parsed)

	// A truncated record is rejected.
	_, err = UnmarshalAccount(codec.NewReader(p.Bytes()[:acct.Size()-1], consts.MaxInt))
	require.Error(err)
}
