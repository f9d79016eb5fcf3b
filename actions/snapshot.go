// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/snapshot"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
)

var (
	_ chain.Action = (*Snapshot)(nil)
	_ chain.Action = (*ProposalHook)(nil)
)

// Snapshot records every live account and their aggregate. Anyone may call
// it.
type Snapshot struct{}

func (*Snapshot) GetTypeID() uint8 {
	return consts.SnapshotID
}

func (*Snapshot) Execute(
	ctx context.Context,
	blk chain.BlockContext,
	mu state.Mutable,
	_ codec.Address,
) (*chain.Result, error) {
	n, err := snapshotAll(ctx, blk, mu)
	if err != nil {
		return nil, err
	}
	return chain.NewResult(snapshotAction).
		AddUint64(heightKey, blk.Height()).
		AddUint64(accountsKey, uint64(n)).
		AddUint64(SnapshotHeightKey, snapshot.Height(blk.Height())), nil
}

func (*Snapshot) Size() int {
	return 0
}

func (*Snapshot) Marshal(*codec.Packer) {}

func UnmarshalSnapshot(p *codec.Packer) (chain.Action, error) {
	return &Snapshot{}, p.Err()
}

// ProposalHook is sent by governance when a proposal is created so the
// voting power at the proposal height is on record.
type ProposalHook struct {
	ProposalID uint64 `json:"proposalId"`
}

func (*ProposalHook) GetTypeID() uint8 {
	return consts.ProposalHookID
}

func (h *ProposalHook) Execute(
	ctx context.Context,
	blk chain.BlockContext,
	mu state.Mutable,
	_ codec.Address,
) (*chain.Result, error) {
	n, err := snapshotAll(ctx, blk, mu)
	if err != nil {
		return nil, err
	}
	return chain.NewResult(proposalHookAction).
		AddUint64(proposalIDKey, h.ProposalID).
		AddUint64(heightKey, blk.Height()).
		AddUint64(accountsKey, uint64(n)).
		AddUint64(SnapshotHeightKey, snapshot.Height(blk.Height())), nil
}

func (*ProposalHook) Size() int {
	return consts.Uint64Len
}

func (h *ProposalHook) Marshal(p *codec.Packer) {
	p.PackUint64(h.ProposalID)
}

func UnmarshalProposalHook(p *codec.Packer) (chain.Action, error) {
	var h ProposalHook
	h.ProposalID = p.UnpackUint64(false)
	return &h, p.Err()
}

func snapshotAll(ctx context.Context, blk chain.BlockContext, mu state.Mutable) (int, error) {
	model, err := storage.GetModel(ctx, mu)
	if err != nil {
		return 0, err
	}
	_, n, err := snapshot.Take(ctx, mu, model, blk.Height(), blk.Timestamp())
	return n, err
}
