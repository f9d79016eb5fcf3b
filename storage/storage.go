// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/keys"
	"github.com/Jazz877/kleo-vesting/state"
	"github.com/Jazz877/kleo-vesting/vesting"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// State
// 0x0/ (owner)
// 0x1/ (token)
// 0x2/ (block time)
// 0x3/ (vesting model)
// 0x4/ (contract info)
// 0x5/ (accounts)
//   -> [address] => account
// 0x6/ (account index)
// 0x7/ (balances)
//   -> [address] => balance
// 0x8/ (voting config)
// 0x9/ (snapshot height index)
//   -> [namespace|key] => heights
// 0xa/ (snapshot values)
//   -> [namespace|key|height] => value
// 0xb/ (last accepted block)

const (
	ownerPrefix byte = iota
	tokenPrefix
	blockTimePrefix
	modelPrefix
	contractInfoPrefix
	accountPrefix
	accountIndexPrefix
	balancePrefix
	votingConfigPrefix
	SnapshotIndexPrefix
	SnapshotValuePrefix
	lastBlockPrefix
)

const (
	AddressChunks      uint16 = 1
	Uint64Chunks       uint16 = 1
	ContractInfoChunks uint16 = 2
	VotingConfigChunks uint16 = 2
	BalanceChunks      uint16 = 1
	LastBlockChunks    uint16 = 1

	// Accounts and the account index may grow with their schedule and the
	// number of beneficiaries.
	AccountChunks      = consts.MaxUint16
	AccountIndexChunks = consts.MaxUint16
)

// MaxAccounts is the number of addresses that fit in the account index.
const MaxAccounts = int(AccountIndexChunks-1) * 64 / codec.AddressLen

func singletonKey(prefix byte, chunks uint16) []byte {
	return keys.EncodeChunks([]byte{prefix}, chunks)
}

func addressKey(prefix byte, addr codec.Address, chunks uint16) []byte {
	k := make([]byte, 0, consts.ByteLen+codec.AddressLen+consts.Uint16Len)
	k = append(k, prefix)
	k = append(k, addr[:]...)
	return keys.EncodeChunks(k, chunks)
}

func getAddress(ctx context.Context, im state.Immutable, key []byte) (codec.Address, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, ErrNotInitialized
	}
	if err != nil {
		return codec.EmptyAddress, err
	}
	if len(v) != codec.AddressLen {
		return codec.EmptyAddress, fmt.Errorf("%w: address has %d bytes", codec.ErrInsufficientLength, len(v))
	}
	return codec.Address(v), nil
}

func OwnerKey() []byte {
	return singletonKey(ownerPrefix, AddressChunks)
}

func GetOwner(ctx context.Context, im state.Immutable) (codec.Address, error) {
	return getAddress(ctx, im, OwnerKey())
}

func SetOwner(ctx context.Context, mu state.Mutable, owner codec.Address) error {
	return mu.Insert(ctx, OwnerKey(), owner[:])
}

func TokenKey() []byte {
	return singletonKey(tokenPrefix, AddressChunks)
}

func GetToken(ctx context.Context, im state.Immutable) (codec.Address, error) {
	return getAddress(ctx, im, TokenKey())
}

func SetToken(ctx context.Context, mu state.Mutable, token codec.Address) error {
	return mu.Insert(ctx, TokenKey(), token[:])
}

func BlockTimeKey() []byte {
	return singletonKey(blockTimePrefix, Uint64Chunks)
}

// GetBlockTime returns the configured average block duration in
// milliseconds.
func GetBlockTime(ctx context.Context, im state.Immutable) (int64, error) {
	v, err := im.GetValue(ctx, BlockTimeKey())
	if errors.Is(err, database.ErrNotFound) {
		return 0, ErrNotInitialized
	}
	if err != nil {
		return 0, err
	}
	bt, err := database.ParseUInt64(v)
	return int64(bt), err
}

func SetBlockTime(ctx context.Context, mu state.Mutable, blockTime int64) error {
	return mu.Insert(ctx, BlockTimeKey(), database.PackUInt64(uint64(blockTime)))
}

func ModelKey() []byte {
	return singletonKey(modelPrefix, Uint64Chunks)
}

func GetModel(ctx context.Context, im state.Immutable) (vesting.Model, error) {
	v, err := im.GetValue(ctx, ModelKey())
	if errors.Is(err, database.ErrNotFound) {
		return 0, ErrNotInitialized
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.ByteLen {
		return 0, vesting.ErrUnknownModel
	}
	return vesting.Model(v[0]), nil
}

func SetModel(ctx context.Context, mu state.Mutable, model vesting.Model) error {
	return mu.Insert(ctx, ModelKey(), []byte{byte(model)})
}

// ContractInfo identifies the code that last wrote the state.
type ContractInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func ContractInfoKey() []byte {
	return singletonKey(contractInfoPrefix, ContractInfoChunks)
}

func GetContractInfo(ctx context.Context, im state.Immutable) (*ContractInfo, error) {
	v, err := im.GetValue(ctx, ContractInfoKey())
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(v, len(v))
	info := &ContractInfo{
		Name:    p.UnpackString(true),
		Version: p.UnpackString(true),
	}
	return info, p.Err()
}

func SetContractInfo(ctx context.Context, mu state.Mutable, info *ContractInfo) error {
	size := codec.StringLen(info.Name) + codec.StringLen(info.Version)
	p := codec.NewWriter(size, size)
	p.PackString(info.Name)
	p.PackString(info.Version)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, ContractInfoKey(), p.Bytes())
}

func LastBlockKey() []byte {
	return singletonKey(lastBlockPrefix, LastBlockChunks)
}

// GetLastBlock returns the height and timestamp of the last accepted block.
// A fresh database has neither.
func GetLastBlock(ctx context.Context, im state.Immutable) (uint64, int64, bool, error) {
	v, err := im.GetValue(ctx, LastBlockKey())
	if errors.Is(err, database.ErrNotFound) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	if len(v) != consts.Uint64Len+consts.Int64Len {
		return 0, 0, false, fmt.Errorf("%w: last block has %d bytes", codec.ErrInsufficientLength, len(v))
	}
	return binary.BigEndian.Uint64(v), int64(binary.BigEndian.Uint64(v[consts.Uint64Len:])), true, nil
}

func SetLastBlock(ctx context.Context, mu state.Mutable, height uint64, timestamp int64) error {
	v := binary.BigEndian.AppendUint64(nil, height)
	v = binary.BigEndian.AppendUint64(v, uint64(timestamp))
	return mu.Insert(ctx, LastBlockKey(), v)
}

func BalanceKey(addr codec.Address) []byte {
	return addressKey(balancePrefix, addr, BalanceChunks)
}

// GetBalance returns 0 for accounts that never received tokens.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	_, bal, _, err := getBalance(ctx, im, addr)
	return bal, err
}

func getBalance(ctx context.Context, im state.Immutable, addr codec.Address) ([]byte, uint64, bool, error) {
	k := BalanceKey(addr)
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return k, 0, false, nil
	}
	if err != nil {
		return k, 0, false, err
	}
	bal, err := database.ParseUInt64(v)
	return k, bal, true, err
}

func SetBalance(ctx context.Context, mu state.Mutable, addr codec.Address, balance uint64) error {
	return mu.Insert(ctx, BalanceKey(addr), database.PackUInt64(balance))
}

func AddBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) (uint64, error) {
	key, bal, _, err := getBalance(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not add balance (bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			bal,
			addr,
			amount,
		)
	}
	return nbal, mu.Insert(ctx, key, database.PackUInt64(nbal))
}

func SubBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) (uint64, error) {
	key, bal, _, err := getBalance(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Sub(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not subtract balance (bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			bal,
			addr,
			amount,
		)
	}
	if nbal == 0 {
		// If there is no balance left, we should delete the record instead of
		// setting it to 0.
		return 0, mu.Remove(ctx, key)
	}
	return nbal, mu.Insert(ctx, key, database.PackUInt64(nbal))
}
