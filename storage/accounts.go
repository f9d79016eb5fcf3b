// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"golang.org/x/exp/slices"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/vesting"
)

// [accountPrefix] + [address]
func AccountKey(addr codec.Address) []byte {
	return addressKey(accountPrefix, addr, AccountChunks)
}

func AccountIndexKey() []byte {
	return singletonKey(accountIndexPrefix, AccountIndexChunks)
}

func HasAccount(ctx context.Context, im state.Immutable, addr codec.Address) (bool, error) {
	_, err := im.GetValue(ctx, AccountKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func GetAccount(ctx context.Context, im state.Immutable, addr codec.Address) (*vesting.Account, error) {
	v, err := im.GetValue(ctx, AccountKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	return vesting.UnmarshalAccount(codec.NewReader(v, len(v)))
}

func putAccount(ctx context.Context, mu state.Mutable, acct *vesting.Account) error {
	size := acct.Size()
	p := codec.NewWriter(size, size)
	acct.Marshal(p)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, AccountKey(acct.Address), p.Bytes())
}

// CreateAccount stores a new account and adds it to the account index.
func CreateAccount(ctx context.Context, mu state.Mutable, acct *vesting.Account) error {
	exists, err := HasAccount(ctx, mu, acct.Address)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAccountExists, acct.Address)
	}
	index, err := AccountAddresses(ctx, mu)
	if err != nil {
		return err
	}
	if len(index) >= MaxAccounts {
		return ErrTooManyAccounts
	}
	i, found := slices.BinarySearchFunc(index, acct.Address, compareAddresses)
	if found {
		return fmt.Errorf("%w: %s already indexed", ErrCorruptIndex, acct.Address)
	}
	index = slices.Insert(index, i, acct.Address)
	if err := putAccountIndex(ctx, mu, index); err != nil {
		return err
	}
	return putAccount(ctx, mu, acct)
}

// UpdateAccount overwrites an existing account.
func UpdateAccount(ctx context.Context, mu state.Mutable, acct *vesting.Account) error {
	exists, err := HasAccount(ctx, mu, acct.Address)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, acct.Address)
	}
	return putAccount(ctx, mu, acct)
}

// RemoveAccount deletes an account and drops it from the account index.
func RemoveAccount(ctx context.Context, mu state.Mutable, addr codec.Address) error {
	index, err := AccountAddresses(ctx, mu)
	if err != nil {
		return err
	}
	i, found := slices.BinarySearchFunc(index, addr, compareAddresses)
	if !found {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	index = slices.Delete(index, i, i+1)
	if err := putAccountIndex(ctx, mu, index); err != nil {
		return err
	}
	return mu.Remove(ctx, AccountKey(addr))
}

// AccountAddresses returns the addresses of all live accounts in ascending
// order.
func AccountAddresses(ctx context.Context, im state.Immutable) ([]codec.Address, error) {
	v, err := im.GetValue(ctx, AccountIndexKey())
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(v)%codec.AddressLen != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorruptIndex, len(v))
	}
	addrs := make([]codec.Address, len(v)/codec.AddressLen)
	for i := range addrs {
		copy(addrs[i][:], v[i*codec.AddressLen:])
	}
	return addrs, nil
}

// Accounts returns all live accounts in ascending address order.
func Accounts(ctx context.Context, im state.Immutable) ([]*vesting.Account, error) {
	addrs, err := AccountAddresses(ctx, im)
	if err != nil {
		return nil, err
	}
	accts := make([]*vesting.Account, len(addrs))
	for i, addr := range addrs {
		accts[i], err = GetAccount(ctx, im, addr)
		if err != nil {
			return nil, err
		}
	}
	return accts, nil
}

func putAccountIndex(ctx context.Context, mu state.Mutable, index []codec.Address) error {
	if len(index) == 0 {
		return mu.Remove(ctx, AccountIndexKey())
	}
	v := make([]byte, 0, len(index)*codec.AddressLen+consts.ByteLen)
	for _, addr := range index {
		v = append(v, addr[:]...)
	}
	return mu.Insert(ctx, AccountIndexKey(), v)
}

func compareAddresses(a, b codec.Address) int {
	return bytes.Compare(a[:], b[:])
}
