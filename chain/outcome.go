// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
)

// Outcome is what happened to a call included in a block.
type Outcome struct {
	CallID    ids.ID  `json:"callId"`
	Height    uint64  `json:"height"`
	Timestamp int64   `json:"timestamp"`
	Success   bool    `json:"success"`
	Error     string  `json:"error,omitempty"`
	Result    *Result `json:"result,omitempty"`
}

func (o *Outcome) Size() int {
	size := consts.IDLen + consts.Uint64Len + consts.Int64Len + consts.BoolLen + codec.StringLen(o.Error)
	if o.Success {
		size += o.Result.Size()
	}
	return size
}

func (o *Outcome) Marshal(p *codec.Packer) {
	p.PackID(o.CallID)
	p.PackUint64(o.Height)
	p.PackInt64(o.Timestamp)
	p.PackBool(o.Success)
	p.PackString(o.Error)
	if o.Success {
		o.Result.Marshal(p)
	}
}

func UnmarshalOutcome(p *codec.Packer) (*Outcome, error) {
	var o Outcome
	p.UnpackID(true, &o.CallID)
	o.Height = p.UnpackUint64(false)
	o.Timestamp = p.UnpackInt64(false)
	o.Success = p.UnpackBool()
	o.Error = p.UnpackString(false)
	if o.Success {
		result, err := UnmarshalResult(p)
		if err != nil {
			return nil, err
		}
		o.Result = result
	}
	return &o, p.Err()
}
