// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token executes the transfer instructions produced by the vesting
// contract against the balances kept in the same state.
package token

import (
	"context"
	"fmt"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/storage"
)

// ContractAddress holds the tokens that are released to beneficiaries.
var ContractAddress = codec.CreateAddress(consts.ContractID, consts.ID)

// Apply moves every transfer in [transfers] out of the contract balance.
// Zero amounts are skipped. A transfer of any token other than the one the
// contract was instantiated with is rejected.
func Apply(ctx context.Context, mu state.Mutable, transfers []*chain.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	token, err := storage.GetToken(ctx, mu)
	if err != nil {
		return err
	}
	for _, t := range transfers {
		if t.Token != token {
			return fmt.Errorf("%w: %s", ErrUnknownToken, t.Token)
		}
		if err := Transfer(ctx, mu, ContractAddress, t.Recipient, t.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Transfer moves [amount] from [from] to [to].
func Transfer(ctx context.Context, mu state.Mutable, from, to codec.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if to == codec.EmptyAddress {
		return ErrInvalidRecipient
	}
	if _, err := storage.SubBalance(ctx, mu, from, amount); err != nil {
		return fmt.Errorf("%w: %w", ErrInsufficientBalance, err)
	}
	_, err := storage.AddBalance(ctx, mu, to, amount)
	return err
}
