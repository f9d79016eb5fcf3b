// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrWrongModel   = errors.New("action not supported by vesting model")
	ErrZeroRatio    = errors.New("voting power ratio must be greater than zero")
	ErrEmptyAddress = errors.New("address is empty")
)
