// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import "errors"

var (
	ErrUnknownToken        = errors.New("unknown token")
	ErrInvalidRecipient    = errors.New("invalid recipient")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
