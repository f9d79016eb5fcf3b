// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"strconv"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
)

const (
	MaxAttributes     = 16
	MaxTransfers      = 2
	MaxAttributeValue = 256
)

// Attribute is a key/value pair describing what an action did.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Transfer is an instruction to move [Amount] of [Token] from the contract
// to [Recipient].
type Transfer struct {
	Token     codec.Address `json:"token"`
	Recipient codec.Address `json:"recipient"`
	Amount    uint64        `json:"amount"`
}

const transferSize = codec.AddressLen*2 + consts.Uint64Len

// Result is the output of a successful action.
type Result struct {
	Attributes []Attribute `json:"attributes"`
	Transfers  []*Transfer `json:"transfers,omitempty"`
}

func NewResult(action string) *Result {
	return &Result{Attributes: []Attribute{{Key: "action", Value: action}}}
}

// Add appends an attribute and returns r for chaining.
func (r *Result) Add(key, value string) *Result {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

func (r *Result) AddUint64(key string, value uint64) *Result {
	return r.Add(key, strconv.FormatUint(value, 10))
}

func (r *Result) AddTransfer(t *Transfer) *Result {
	r.Transfers = append(r.Transfers, t)
	return r
}

// Attribute returns the value of the first attribute named [key].
func (r *Result) Attribute(key string) (string, bool) {
	for _, attr := range r.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

func (r *Result) Size() int {
	size := consts.ByteLen
	for _, attr := range r.Attributes {
		size += codec.StringLen(attr.Key) + codec.StringLen(attr.Value)
	}
	return size + consts.ByteLen + len(r.Transfers)*transferSize
}

func (r *Result) Marshal(p *codec.Packer) {
	p.PackByte(uint8(len(r.Attributes)))
	for _, attr := range r.Attributes {
		p.PackString(attr.Key)
		p.PackString(attr.Value)
	}
	p.PackByte(uint8(len(r.Transfers)))
	for _, t := range r.Transfers {
		p.PackAddress(t.Token)
		p.PackAddress(t.Recipient)
		p.PackUint64(t.Amount)
	}
}

func UnmarshalResult(p *codec.Packer) (*Result, error) {
	var r Result
	numAttributes := p.UnpackByte()
	if numAttributes > MaxAttributes {
		return nil, ErrTooManyAttributes
	}
	for i := uint8(0); i < numAttributes; i++ {
		r.Attributes = append(r.Attributes, Attribute{
			Key:   p.UnpackString(true),
			Value: p.UnpackString(false),
		})
	}
	numTransfers := p.UnpackByte()
	if numTransfers > MaxTransfers {
		return nil, ErrTooManyTransfers
	}
	for i := uint8(0); i < numTransfers; i++ {
		var t Transfer
		p.UnpackAddress(&t.Token)
		p.UnpackAddress(&t.Recipient)
		t.Amount = p.UnpackUint64(false)
		r.Transfers = append(r.Transfers, &t)
	}
	return &r, p.Err()
}
