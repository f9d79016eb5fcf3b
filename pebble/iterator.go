// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"bytes"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Iterator = (*iterator)(nil)

type iterator struct {
	iter    *pebble.Iterator
	started bool
	err     error

	key   []byte
	value []byte
}

// prefixUpperBound returns the smallest key greater than every key with
// [prefix], or nil if there is none.
func prefixUpperBound(prefix []byte) []byte {
	upper := append([]byte{}, prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil
}

func (db *Database) newIterator(start, prefix []byte) database.Iterator {
	opts := &pebble.IterOptions{LowerBound: prefix}
	if bytes.Compare(start, prefix) > 0 {
		opts.LowerBound = start
	}
	if len(prefix) > 0 {
		opts.UpperBound = prefixUpperBound(prefix)
	}
	iter, err := db.db.NewIter(opts)
	if err != nil {
		return &database.IteratorError{Err: err}
	}
	return &iterator{iter: iter}
}

func (it *iterator) Next() bool {
	if it.iter == nil {
		return false
	}
	var valid bool
	if !it.started {
		valid = it.iter.First()
		it.started = true
	} else {
		valid = it.iter.Next()
	}
	if !valid {
		it.key, it.value = nil, nil
		it.err = it.iter.Error()
		return false
	}
	it.key = append(it.key[:0], it.iter.Key()...)
	value, err := it.iter.ValueAndErr()
	if err != nil {
		it.key, it.value = nil, nil
		it.err = err
		return false
	}
	it.value = append([]byte{}, value...)
	return true
}

func (it *iterator) Error() error {
	return it.err
}

func (it *iterator) Key() []byte {
	return it.key
}

func (it *iterator) Value() []byte {
	return it.value
}

func (it *iterator) Release() {
	if it.iter == nil {
		return
	}
	if err := it.iter.Close(); err != nil && it.err == nil {
		it.err = err
	}
	it.iter = nil
}
