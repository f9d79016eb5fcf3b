// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import "errors"

var (
	ErrAlreadyInstantiated = errors.New("contract already instantiated")
	ErrBlockOutOfOrder     = errors.New("block precedes last block")
	ErrWrongContract       = errors.New("cannot migrate from a different contract")
	ErrDowngrade           = errors.New("cannot migrate to an older version")
)
