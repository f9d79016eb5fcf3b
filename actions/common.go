// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"strconv"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/snapshot"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"
)

func onlyOwner(ctx context.Context, im state.Immutable, actor codec.Address) error {
	owner, err := storage.GetOwner(ctx, im)
	if err != nil {
		return err
	}
	if actor != owner {
		return ErrUnauthorized
	}
	return nil
}

// orDefault returns [addr] unless it was omitted.
func orDefault(addr, def codec.Address) codec.Address {
	if addr == codec.EmptyAddress {
		return def
	}
	return addr
}

func takeSnapshot(
	ctx context.Context,
	blk chain.BlockContext,
	mu state.Mutable,
	model vesting.Model,
) error {
	_, _, err := snapshot.Take(ctx, mu, model, blk.Height(), blk.Timestamp())
	return err
}

func transfer(ctx context.Context, im state.Immutable, recipient codec.Address, amount uint64) (*chain.Transfer, error) {
	token, err := storage.GetToken(ctx, im)
	if err != nil {
		return nil, err
	}
	return &chain.Transfer{
		Token:     token,
		Recipient: recipient,
		Amount:    amount,
	}, nil
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
