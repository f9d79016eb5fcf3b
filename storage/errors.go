// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrAccountExists       = errors.New("vesting account already exists")
	ErrAccountNotFound     = errors.New("vesting account not found")
	ErrNotInitialized      = errors.New("contract not initialized")
	ErrInvalidBalance      = errors.New("invalid balance")
	ErrTooManyAccounts     = errors.New("too many vesting accounts")
	ErrCorruptIndex        = errors.New("corrupt account index")
	ErrUnknownDatabaseType = errors.New("unknown database type")
)
