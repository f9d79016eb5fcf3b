// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/Jazz877/kleo-vesting/keys"
	"github.com/Jazz877/kleo-vesting/state"
)

var _ state.Mutable = (*TStateView)(nil)

// TStateView holds the writes of a single call. They become visible to
// later views only after Commit; a failed call drops its view.
type TStateView struct {
	ts      *TState
	changes map[string]maybe.Maybe[[]byte]
	ops     int
}

func (ts *TState) NewView() *TStateView {
	return &TStateView{
		ts:      ts,
		changes: make(map[string]maybe.Maybe[[]byte]),
	}
}

// GetValue returns the value of [key] as seen by this view or
// database.ErrNotFound.
func (v *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if change, ok := v.changes[string(key)]; ok {
		if change.IsNothing() {
			return nil, database.ErrNotFound
		}
		return change.Value(), nil
	}
	return v.ts.GetValue(ctx, key)
}

// Insert sets [key] to [value]. [value] must fit in the chunk budget encoded
// in [key] and must not be modified afterwards.
func (v *TStateView) Insert(_ context.Context, key []byte, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	v.changes[string(key)] = maybe.Some(value)
	v.ops++
	return nil
}

// Remove deletes [key]. Removing a missing key is a no-op.
func (v *TStateView) Remove(ctx context.Context, key []byte) error {
	_, err := v.GetValue(ctx, key)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return nil
	case err != nil:
		return err
	}
	v.changes[string(key)] = maybe.Nothing[[]byte]()
	v.ops++
	return nil
}

// OpIndex returns the number of writes done through this view.
func (v *TStateView) OpIndex() int {
	return v.ops
}

// PendingChanges returns the number of keys changed by this view.
func (v *TStateView) PendingChanges() int {
	return len(v.changes)
}

// Commit makes the changes of this view visible in the parent TState.
func (v *TStateView) Commit() {
	v.ts.l.Lock()
	defer v.ts.l.Unlock()

	for k, change := range v.changes {
		v.ts.changedKeys[k] = change
	}
	v.ts.ops += v.ops
}
