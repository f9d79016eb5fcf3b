// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vesting

import (
	"cmp"

	"github.com/ava-labs/avalanchego/utils/math"
	"golang.org/x/exp/slices"
)

// MaxPayments bounds the schedule of a single account so its record fits in
// one state value.
const MaxPayments = 100_000

// Ticks returns the number of whole block intervals of [blockTime] in
// [start, end). A non-positive block time or an empty interval has no ticks.
func Ticks(blockTime, start, end int64) int64 {
	if blockTime <= 0 || end <= start {
		return 0
	}
	return (end - start) / blockTime
}

// GenerateSchedule splits [amount] evenly across the block intervals of
// [start, end). The division remainder is not allocated, so the schedule may
// add up to less than [amount].
//
// [height] and [now] are the current block height and time; the first
// payment is due [start-now]/[blockTime] blocks from [height].
func GenerateSchedule(blockTime int64, height uint64, now, start, end int64, amount uint64) []Payment {
	ticks := Ticks(blockTime, start, end)
	if ticks == 0 {
		return nil
	}
	perTick := amount / uint64(ticks)
	var offset uint64
	if start > now {
		offset = uint64((start - now) / blockTime)
	}
	payments := make([]Payment, ticks)
	for i := range payments {
		payments[i] = Payment{
			Amount:    perTick,
			Height:    height + offset + uint64(i),
			Timestamp: start + int64(i)*blockTime,
			Status:    Pending,
		}
	}
	return payments
}

// Reschedule regenerates the future part of [payments] with a new block
// time. Payments that are settled, revoked or due at [height] are kept as
// they are; the pending amount after [height] is spread over
// [max(now, first replaced timestamp), end), starting no earlier than the
// next block. A block time that would leave every future payment empty is
// rejected.
func Reschedule(payments []Payment, blockTime int64, height uint64, now, end int64) ([]Payment, error) {
	var (
		kept      = make([]Payment, 0, len(payments))
		remaining uint64
		first     int64
		replaced  bool
	)
	for _, p := range payments {
		if p.Status != Pending || p.Height <= height {
			kept = append(kept, p)
			continue
		}
		var err error
		remaining, err = math.Add(remaining, p.Amount)
		if err != nil {
			return nil, err
		}
		if !replaced || p.Timestamp < first {
			first = p.Timestamp
		}
		replaced = true
	}
	if !replaced {
		return kept, nil
	}
	start := max(now, first)
	if Ticks(blockTime, start, end) > MaxPayments {
		return nil, ErrScheduleTooLong
	}
	fresh := GenerateSchedule(blockTime, height+1, now, start, end, remaining)
	if len(fresh) > 0 && fresh[0].Amount == 0 && remaining > 0 {
		// More intervals than units left to pay.
		return nil, ErrEmptySchedule
	}
	if len(fresh) == 0 && remaining > 0 {
		// Nothing left to spread over; release the rest at the next block.
		fresh = []Payment{{
			Amount:    remaining,
			Height:    height + 1,
			Timestamp: now,
			Status:    Pending,
		}}
	}
	out := append(kept, fresh...)
	slices.SortStableFunc(out, func(a, b Payment) int {
		return cmp.Compare(a.Height, b.Height)
	})
	return out, nil
}
