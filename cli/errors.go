// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import "errors"

var (
	ErrDuplicate  = errors.New("duplicate")
	ErrNoEndpoint = errors.New("no endpoint set")
	ErrNoKeys     = errors.New("no available keys")
	ErrCallFailed = errors.New("call failed")
)
