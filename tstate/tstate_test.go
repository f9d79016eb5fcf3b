// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Jazz877/kleo-vesting/keys"
	"github.com/Jazz877/kleo-vesting/state"
)

var (
	testVal = []byte("value")

	key1 = keys.EncodeChunks([]byte("key1"), 1)
	key2 = keys.EncodeChunks([]byte("key2"), 2)
	key3 = keys.EncodeChunks([]byte("key3"), 3)
)

func newTestState(t *testing.T) (database.Database, *TState) {
	db := memdb.New()
	require.NoError(t, db.Put(key1, []byte("base")))
	return db, New(state.NewReader(db), 10)
}

func TestGetValueFallsThrough(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	_, ts := newTestState(t)

	tsv := ts.NewView()
	val, err := tsv.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal([]byte("base"), val)

	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestInsertInvalid(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	_, ts := newTestState(t)

	tsv := ts.NewView()
	require.ErrorIs(tsv.Insert(ctx, []byte{1}, testVal), ErrInvalidKeyValue)
	require.ErrorIs(tsv.Insert(ctx, keys.EncodeChunks([]byte("k"), 0), testVal), ErrInvalidKeyValue)
	require.Zero(tsv.OpIndex())
}

func TestDiscardedView(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db, ts := newTestState(t)

	tsv := ts.NewView()
	require.NoError(tsv.Insert(ctx, key1, []byte("changed")))
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.NoError(tsv.Remove(ctx, key2))
	require.NoError(tsv.Insert(ctx, key3, testVal))
	require.Equal(4, tsv.OpIndex())
	require.Equal(3, tsv.PendingChanges())

	_, err := tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)

	// Dropping the view leaves the committed state untouched.
	next := ts.NewView()
	val, err := next.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal([]byte("base"), val)
	_, err = next.GetValue(ctx, key3)
	require.ErrorIs(err, database.ErrNotFound)
	require.Zero(ts.OpIndex())

	batch := db.NewBatch()
	require.NoError(ts.WriteChanges(ctx, batch, noop.NewTracerProvider().Tracer("test")))
	require.Zero(batch.Size())
}

func TestRemoveMissing(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	_, ts := newTestState(t)

	tsv := ts.NewView()
	require.NoError(tsv.Remove(ctx, key2))
	require.Zero(tsv.OpIndex())
	require.Zero(tsv.PendingChanges())
}

func TestCommitAndWrite(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db, ts := newTestState(t)

	tsv := ts.NewView()
	require.NoError(tsv.Remove(ctx, key1))
	require.NoError(tsv.Insert(ctx, key2, testVal))

	// Uncommitted views are invisible to siblings.
	other := ts.NewView()
	_, err := other.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)

	tsv.Commit()
	require.Equal(2, ts.OpIndex())
	require.Equal(2, ts.PendingChanges())

	next := ts.NewView()
	_, err = next.GetValue(ctx, key1)
	require.ErrorIs(err, database.ErrNotFound)

	batch := db.NewBatch()
	require.NoError(ts.WriteChanges(ctx, batch, noop.NewTracerProvider().Tracer("test")))
	require.NoError(batch.Write())

	has, err := db.Has(key1)
	require.NoError(err)
	require.False(has)
	val, err := db.Get(key2)
	require.NoError(err)
	require.Equal(testVal, val)
}
