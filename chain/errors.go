// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	ErrInvalidObject       = errors.New("invalid object")
	ErrActionNotRegistered = errors.New("action not registered")
	ErrTooManyAttributes   = errors.New("too many attributes")
	ErrTooManyTransfers    = errors.New("too many transfers")
	ErrMissingAuth         = errors.New("missing auth")
	ErrActorMismatch       = errors.New("signer does not control actor")
)
