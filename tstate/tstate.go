// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"go.opentelemetry.io/otel/trace"

	"github.com/Jazz877/kleo-vesting/state"
)

// TState stores the changes of all committed views of a block on top of a
// base state until they are written out.
type TState struct {
	l           sync.RWMutex
	base        state.Immutable
	changedKeys map[string]maybe.Maybe[[]byte]
	ops         int
}

// New returns a new instance of TState over [base]. [changedSize] is an
// estimate of the number of keys that will be changed.
func New(base state.Immutable, changedSize int) *TState {
	return &TState{
		base:        base,
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

func (ts *TState) getChangedValue(_ context.Context, key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	return nil, false, false
}

// GetValue returns the latest committed value of [key].
func (ts *TState) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	v, changed, exists := ts.getChangedValue(ctx, string(key))
	if !changed {
		return ts.base.GetValue(ctx, key)
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

// OpIndex returns the number of operations committed to ts.
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// PendingChanges returns the number of keys changed in ts.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// WriteChanges writes all changes in ts to [w].
//
// Once WriteChanges is called, ts should not be used again.
func (ts *TState) WriteChanges(ctx context.Context, w database.KeyValueWriterDeleter, t trace.Tracer) error {
	_, span := t.Start(ctx, "TState.WriteChanges")
	defer span.End()

	ts.l.Lock()
	defer ts.l.Unlock()

	for key, v := range ts.changedKeys {
		if v.IsNothing() {
			if err := w.Delete([]byte(key)); err != nil {
				return err
			}
			continue
		}
		if err := w.Put([]byte(key), v.Value()); err != nil {
			return err
		}
	}
	return nil
}
