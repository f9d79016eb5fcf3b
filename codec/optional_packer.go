// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"github.com/Jazz877/kleo-vesting/consts"
)

// MaxOptionalFields is the number of fields a presence mask can describe.
const MaxOptionalFields = consts.ByteLen * 8

// OptionalPacker encodes a group of addresses that may be omitted. A leading
// presence mask records which of them follow.
type OptionalPacker struct {
	mask   uint8
	offset uint8
	ip     *Packer
}

func NewOptionalWriter(initial int) *OptionalPacker {
	return &OptionalPacker{
		ip: NewWriter(initial, consts.MaxInt),
	}
}

// NewOptionalReader reads the presence mask from [p]. Fields are decoded
// from [p] as they are unpacked.
func (p *Packer) NewOptionalReader() *OptionalPacker {
	return &OptionalPacker{
		mask: p.UnpackByte(),
		ip:   p,
	}
}

// next reports whether the field at the current offset is present and moves
// to the following one.
func (o *OptionalPacker) next() bool {
	if o.offset >= MaxOptionalFields {
		o.ip.addErr(ErrTooManyItems)
		return false
	}
	present := o.mask&(1<<o.offset) != 0
	o.offset++
	return present
}

// PackAddress packs [addr] unless it is empty.
func (o *OptionalPacker) PackAddress(addr Address) {
	if o.offset >= MaxOptionalFields {
		o.ip.addErr(ErrTooManyItems)
		return
	}
	if addr != EmptyAddress {
		o.mask |= 1 << o.offset
		o.ip.PackAddress(addr)
	}
	o.offset++
}

// UnpackAddress sets [dest] to the next address, or to EmptyAddress when it
// was omitted.
func (o *OptionalPacker) UnpackAddress(dest *Address) {
	if o.next() {
		o.ip.UnpackAddress(dest)
		return
	}
	*dest = EmptyAddress
}

// PackOptional writes the presence mask of [o] followed by its fields.
func (p *Packer) PackOptional(o *OptionalPacker) {
	p.PackByte(o.mask)
	p.PackFixedBytes(o.ip.Bytes())
	if err := o.ip.Err(); err != nil {
		p.addErr(err)
	}
}

// Done rejects masks that mark fields beyond the last one read.
func (o *OptionalPacker) Done() {
	if o.offset < MaxOptionalFields && o.mask>>o.offset != 0 {
		o.ip.addErr(ErrInvalidBitset)
	}
}

func (o *OptionalPacker) Err() error {
	return o.ip.Err()
}
