// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/state"
)

// ActionRegistry decodes actions by type ID.
type ActionRegistry = codec.TypeParser[Action]

// Action is a message executed against the contract state.
type Action interface {
	codec.Typed

	// Size is the number of bytes Marshal writes.
	Size() int
	Marshal(p *codec.Packer)

	// Execute applies the action on behalf of [actor]. Any returned error
	// aborts the call and every change made through [mu] is discarded.
	Execute(
		ctx context.Context,
		blk BlockContext,
		mu state.Mutable,
		actor codec.Address,
	) (*Result, error)
}
