// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
)

var _ chain.Action = (*UpdateOwnerAddress)(nil)

// UpdateOwnerAddress hands the owner-only actions over to [Owner].
type UpdateOwnerAddress struct {
	Owner codec.Address `json:"owner"`
}

func (*UpdateOwnerAddress) GetTypeID() uint8 {
	return consts.UpdateOwnerAddressID
}

func (u *UpdateOwnerAddress) Execute(
	ctx context.Context,
	_ chain.BlockContext,
	mu state.Mutable,
	actor codec.Address,
) (*chain.Result, error) {
	if err := onlyOwner(ctx, mu, actor); err != nil {
		return nil, err
	}
	if u.Owner == codec.EmptyAddress {
		return nil, ErrEmptyAddress
	}
	if err := storage.SetOwner(ctx, mu, u.Owner); err != nil {
		return nil, err
	}
	return chain.NewResult(updateOwnerAddressAction).
		Add(ownerAddressKey, u.Owner.String()), nil
}

func (*UpdateOwnerAddress) Size() int {
	return codec.AddressLen
}

func (u *UpdateOwnerAddress) Marshal(p *codec.Packer) {
	p.PackAddress(u.Owner)
}

func UnmarshalUpdateOwnerAddress(p *codec.Packer) (chain.Action, error) {
	var u UpdateOwnerAddress
	p.UnpackAddress(&u.Owner)
	return &u, p.Err()
}
