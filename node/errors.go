// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import "errors"

var (
	ErrClosed              = errors.New("node closed")
	ErrDuplicateCall       = errors.New("call already pending")
	ErrTooManyPendingCalls = errors.New("too many pending calls")
)
