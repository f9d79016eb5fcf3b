// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"
)

// Backend is the node the RPC servers expose.
type Backend interface {
	Logger() logging.Logger
	Tracer() trace.Tracer
	Registry() *chain.ActionRegistry

	// Submit queues [call] for the next block.
	Submit(ctx context.Context, call *chain.Call) error

	LastBlock(ctx context.Context) (uint64, int64, error)
	OwnerAddress(ctx context.Context) (codec.Address, error)
	TokenAddress(ctx context.Context) (codec.Address, error)
	BlockTime(ctx context.Context) (int64, error)
	Model(ctx context.Context) (vesting.Model, error)
	Info(ctx context.Context) (*storage.ContractInfo, error)
	VotingConfig(ctx context.Context) (*storage.VotingConfig, error)
	VestingAccount(ctx context.Context, addr codec.Address, height *uint64, withPayments bool) (*vesting.Data, bool, error)
	VestingTotal(ctx context.Context, height *uint64) (*vesting.Totals, error)
	Balance(ctx context.Context, addr codec.Address) (uint64, error)
	VotingPowerAtHeight(ctx context.Context, addr codec.Address, height *uint64) (uint64, uint64, error)
	TotalPowerAtHeight(ctx context.Context, height *uint64) (uint64, uint64, error)
}
