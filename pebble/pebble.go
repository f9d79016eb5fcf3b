// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var _ database.Database = (*Database)(nil)

type Database struct {
	db      *pebble.DB
	metrics *metrics
	sync    bool

	closing   chan struct{}
	closeOnce sync.Once
	closed    sync.WaitGroup
}

type Config struct {
	CacheSize    int  `json:"cacheSize"`
	BytesPerSync int  `json:"bytesPerSync"`
	MaxOpenFiles int  `json:"maxOpenFiles"`
	Sync         bool `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:    32 * units.MiB,
		BytesPerSync: 1 * units.MiB,
		MaxOpenFiles: 4_096,
		Sync:         true,
	}
}

// New opens the pebble database at [file] and registers its metrics with
// [registerer].
func New(file string, cfg Config, registerer prometheus.Registerer) (*Database, error) {
	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	d := &Database{
		metrics: metrics,
		sync:    cfg.Sync,
		closing: make(chan struct{}),
	}
	cache := pebble.NewCache(int64(cfg.CacheSize))
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:        cache,
		BytesPerSync: cfg.BytesPerSync,
		MaxOpenFiles: cfg.MaxOpenFiles,
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, err
	}
	d.db = db

	d.closed.Add(1)
	go func() {
		defer d.closed.Done()
		d.collectMetrics()
	}()
	return d, nil
}

func (db *Database) writeOptions() *pebble.WriteOptions {
	if db.sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

func (db *Database) Close() error {
	db.closeOnce.Do(func() { close(db.closing) })
	db.closed.Wait()
	return db.db.Close()
}

func (db *Database) HealthCheck(context.Context) (interface{}, error) {
	return nil, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

func (db *Database) Get(key []byte) ([]byte, error) {
	defer db.metrics.observeGet(timeNow())
	data, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return append([]byte{}, data...), closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	return db.db.Set(key, value, db.writeOptions())
}

func (db *Database) Delete(key []byte) error {
	return db.db.Delete(key, db.writeOptions())
}

func (db *Database) Compact(start []byte, limit []byte) error {
	if limit == nil {
		// Compact the whole keyspace after [start].
		limit = []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	}
	if bytes.Compare(start, limit) >= 0 {
		return nil
	}
	return db.db.Compact(start, limit, true)
}

func (db *Database) NewIterator() database.Iterator {
	return db.newIterator(nil, nil)
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.newIterator(start, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.newIterator(nil, prefix)
}

func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	return db.newIterator(start, prefix)
}
