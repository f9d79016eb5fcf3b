// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"golang.org/x/exp/slices"

	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/keys"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
)

// The heights recorded for a key form a radix tree of pages. A page at
// [level] holds the sorted slots, [pageBits] bits each, of the children
// present in its bucket. Level 0 slots complete a height, and the top level
// has a single bucket.
const (
	pageBits = 10
	fanout   = 1 << pageBits
	slotMask = fanout - 1
	levels   = (64 + pageBits - 1) / pageBits

	indexChunks = fanout*consts.Uint16Len/64 + 1
	valueChunks = consts.MaxUint16
)

// Store is an append-only history of values of type T, keyed by an entity
// key and the height they were recorded at. Entries are never deleted; a
// second write at the same height replaces the first.
type Store[T any] struct {
	namespace byte
	marshal   func(T) ([]byte, error)
	unmarshal func([]byte) (T, error)
}

func NewStore[T any](
	namespace byte,
	marshal func(T) ([]byte, error),
	unmarshal func([]byte) (T, error),
) *Store[T] {
	return &Store[T]{
		namespace: namespace,
		marshal:   marshal,
		unmarshal: unmarshal,
	}
}

// [SnapshotIndexPrefix] + [namespace] + [key] + [level] + [bucket]
func (s *Store[T]) indexKey(key []byte, level int, bucket uint64) []byte {
	k := make([]byte, 0, 3+len(key)+consts.Uint64Len+consts.Uint16Len)
	k = append(k, storage.SnapshotIndexPrefix, s.namespace)
	k = append(k, key...)
	k = append(k, byte(level))
	k = binary.BigEndian.AppendUint64(k, bucket)
	return keys.EncodeChunks(k, indexChunks)
}

// [SnapshotValuePrefix] + [namespace] + [key] + [height]
func (s *Store[T]) valueKey(key []byte, height uint64) []byte {
	k := make([]byte, 0, 2+len(key)+consts.Uint64Len+consts.Uint16Len)
	k = append(k, storage.SnapshotValuePrefix, s.namespace)
	k = append(k, key...)
	k = binary.BigEndian.AppendUint64(k, height)
	return keys.EncodeChunks(k, valueChunks)
}

// split returns the bucket of [height] at [level] and its slot in that
// bucket. The slot is also the low bits of the bucket one level down.
func split(height uint64, level int) (uint64, uint16) {
	shift := uint(pageBits * level)
	return height >> (shift + pageBits), uint16((height >> shift) & slotMask)
}

func (s *Store[T]) page(ctx context.Context, im state.Immutable, key []byte, level int, bucket uint64) ([]uint16, error) {
	v, err := im.GetValue(ctx, s.indexKey(key, level, bucket))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(v)%consts.Uint16Len != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptIndex, len(v))
	}
	slots := make([]uint16, len(v)/consts.Uint16Len)
	for i := range slots {
		slots[i] = binary.BigEndian.Uint16(v[i*consts.Uint16Len:])
	}
	return slots, nil
}

func (s *Store[T]) putPage(ctx context.Context, mu state.Mutable, key []byte, level int, bucket uint64, slots []uint16) error {
	v := make([]byte, 0, len(slots)*consts.Uint16Len)
	for _, slot := range slots {
		v = binary.BigEndian.AppendUint16(v, slot)
	}
	return mu.Insert(ctx, s.indexKey(key, level, bucket), v)
}

// Heights returns the heights recorded for [key] in ascending order.
func (s *Store[T]) Heights(ctx context.Context, im state.Immutable, key []byte) ([]uint64, error) {
	return s.collect(ctx, im, key, levels-1, 0, nil)
}

func (s *Store[T]) collect(ctx context.Context, im state.Immutable, key []byte, level int, bucket uint64, heights []uint64) ([]uint64, error) {
	slots, err := s.page(ctx, im, key, level, bucket)
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		node := bucket<<pageBits | uint64(slot)
		if level == 0 {
			heights = append(heights, node)
			continue
		}
		heights, err = s.collect(ctx, im, key, level-1, node, heights)
		if err != nil {
			return nil, err
		}
	}
	return heights, nil
}

// Write records [value] for [key] at [height].
func (s *Store[T]) Write(ctx context.Context, mu state.Mutable, key []byte, height uint64, value T) error {
	for level := 0; level < levels; level++ {
		bucket, slot := split(height, level)
		slots, err := s.page(ctx, mu, key, level, bucket)
		if err != nil {
			return err
		}
		i, found := slices.BinarySearch(slots, slot)
		if found {
			break
		}
		existed := len(slots) > 0
		if err := s.putPage(ctx, mu, key, level, bucket, slices.Insert(slots, i, slot)); err != nil {
			return err
		}
		// The parents of a bucket that already had children list it.
		if existed {
			break
		}
	}
	b, err := s.marshal(value)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, s.valueKey(key, height), b)
}

// floor returns the highest height recorded for [key] at or below [height].
func (s *Store[T]) floor(ctx context.Context, im state.Immutable, key []byte, height uint64) (uint64, bool, error) {
	for level := 0; level < levels; level++ {
		bucket, slot := split(height, level)
		slots, err := s.page(ctx, im, key, level, bucket)
		if err != nil {
			return 0, false, err
		}
		i, found := slices.BinarySearch(slots, slot)
		if found && level == 0 {
			return height, true, nil
		}
		// Above level 0 the child holding [height] was already searched, so
		// only the slots below it are candidates.
		if i == 0 {
			continue
		}
		node := bucket<<pageBits | uint64(slots[i-1])
		for l := level - 1; l >= 0; l-- {
			slots, err := s.page(ctx, im, key, l, node)
			if err != nil {
				return 0, false, err
			}
			if len(slots) == 0 {
				return 0, false, fmt.Errorf("%w: empty page at level %d", ErrCorruptIndex, l)
			}
			node = node<<pageBits | uint64(slots[len(slots)-1])
		}
		return node, true, nil
	}
	return 0, false, nil
}

// ReadAtOrBefore returns the most recent value of [key] recorded at or
// before [height]. If there is none, it returns the zero value and false.
func (s *Store[T]) ReadAtOrBefore(ctx context.Context, im state.Immutable, key []byte, height uint64) (T, bool, error) {
	var empty T
	at, found, err := s.floor(ctx, im, key, height)
	if err != nil || !found {
		return empty, false, err
	}
	v, err := im.GetValue(ctx, s.valueKey(key, at))
	if err != nil {
		return empty, false, fmt.Errorf("%w: height %d: %w", ErrCorruptIndex, at, err)
	}
	value, err := s.unmarshal(v)
	if err != nil {
		return empty, false, err
	}
	return value, true, nil
}
