// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newTestDB(t testing.TB) *Database {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, err := New(t.TempDir(), cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGetPutDelete(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Put([]byte("k"), []byte("v")))
	has, err := db.Has([]byte("k"))
	require.NoError(err)
	require.True(has)
	v, err := db.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)

	require.NoError(db.Delete([]byte("k")))
	has, err = db.Has([]byte("k"))
	require.NoError(err)
	require.False(has)
}

func TestBatchReplay(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	require.NoError(db.Put([]byte("gone"), []byte("x")))

	b := db.NewBatch()
	require.NoError(b.Put([]byte("a"), []byte("1")))
	require.NoError(b.Delete([]byte("gone")))
	require.Equal(len("a")+len("1")+len("gone"), b.Size())
	require.NoError(b.Write())

	v, err := db.Get([]byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), v)
	_, err = db.Get([]byte("gone"))
	require.ErrorIs(err, database.ErrNotFound)

	other := newTestDB(t)
	require.NoError(b.Replay(other))
	v, err = other.Get([]byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), v)

	b.Reset()
	require.Zero(b.Size())
}

func TestIteratorWithPrefix(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	for _, k := range []string{"a1", "b1", "b2", "b3", "c1"} {
		require.NoError(db.Put([]byte(k), []byte(k)))
	}

	it := db.NewIteratorWithStartAndPrefix([]byte("b2"), []byte("b"))
	defer it.Release()
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
		require.Equal(it.Key(), it.Value())
	}
	require.NoError(it.Error())
	require.Equal([]string{"b2", "b3"}, keys)
}

func TestPrefixUpperBound(t *testing.T) {
	require := require.New(t)
	require.Equal([]byte{0x02}, prefixUpperBound([]byte{0x01}))
	require.Equal([]byte{0x02}, prefixUpperBound([]byte{0x01, 0xff}))
	require.Nil(prefixUpperBound([]byte{0xff, 0xff}))
}

const batchSize = 10_000

func randBytes() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

func BenchmarkBatchInsertion(b *testing.B) {
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, err := New(b.TempDir(), cfg, prometheus.NewRegistry())
			if err != nil {
				b.Fatal(err)
			}
			keys := make([][]byte, batchSize)
			for i := range keys {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				batch := db.NewBatch()
				for _, k := range keys {
					if err := batch.Put(k, randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := batch.Write(); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}
