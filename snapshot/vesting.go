// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"context"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"
)

const (
	accountsNamespace byte = iota
	totalsNamespace
)

var (
	// Accounts holds the per address projections.
	Accounts = NewStore(accountsNamespace, marshalData, unmarshalData)
	// Totals holds the aggregate of all live accounts.
	Totals = NewStore(totalsNamespace, marshalTotals, unmarshalTotals)
)

func marshalData(d *vesting.Data) ([]byte, error) {
	p := codec.NewWriter(d.Size(), d.Size())
	d.Marshal(p)
	return p.Bytes(), p.Err()
}

func unmarshalData(b []byte) (*vesting.Data, error) {
	return vesting.UnmarshalData(codec.NewReader(b, len(b)))
}

func marshalTotals(t *vesting.Totals) ([]byte, error) {
	p := codec.NewWriter(vesting.TotalsSize, vesting.TotalsSize)
	t.Marshal(p)
	return p.Bytes(), p.Err()
}

func unmarshalTotals(b []byte) (*vesting.Totals, error) {
	return vesting.UnmarshalTotals(codec.NewReader(b, len(b)))
}

// Height returns the key a snapshot taken while executing block [h] is
// recorded under. It is always one below [h] (saturating at 0).
func Height(h uint64) uint64 {
	if h == 0 {
		return 0
	}
	return h - 1
}

// Take records the projection of every live account and their aggregate at
// Height([height]). Accounts are visited in ascending address order.
func Take(
	ctx context.Context,
	mu state.Mutable,
	model vesting.Model,
	height uint64,
	timestamp int64,
) (*vesting.Totals, int, error) {
	accts, err := storage.Accounts(ctx, mu)
	if err != nil {
		return nil, 0, err
	}
	key := Height(height)
	totals := &vesting.Totals{}
	for _, acct := range accts {
		d, err := acct.Project(model, timestamp, height, true)
		if err != nil {
			return nil, 0, err
		}
		if err := Accounts.Write(ctx, mu, acct.Address[:], key, d); err != nil {
			return nil, 0, err
		}
		if err := totals.Add(d); err != nil {
			return nil, 0, err
		}
	}
	if err := Totals.Write(ctx, mu, nil, key, totals); err != nil {
		return nil, 0, err
	}
	return totals, len(accts), nil
}

// RecordFinal records the last projection of an account that left the live
// store while executing block [height].
func RecordFinal(ctx context.Context, mu state.Mutable, d *vesting.Data, height uint64) error {
	return Accounts.Write(ctx, mu, d.Address[:], Height(height), d)
}

// AccountAt returns the latest projection of [addr] taken while executing a
// block at or below [height]. It returns false if there is none.
func AccountAt(ctx context.Context, im state.Immutable, addr codec.Address, height uint64) (*vesting.Data, bool, error) {
	if height == 0 {
		return nil, false, nil
	}
	return Accounts.ReadAtOrBefore(ctx, im, addr[:], height-1)
}

// TotalsAt returns the latest aggregate taken while executing a block at or
// below [height]. It returns a zero aggregate and false if there is none.
func TotalsAt(ctx context.Context, im state.Immutable, height uint64) (*vesting.Totals, bool, error) {
	if height == 0 {
		return &vesting.Totals{}, false, nil
	}
	totals, found, err := Totals.ReadAtOrBefore(ctx, im, nil, height-1)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return &vesting.Totals{}, false, nil
	}
	return totals, true, nil
}
