// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting/address"

	"github.com/Jazz877/kleo-vesting/consts"
)

const AddressLen = 33

// Address represents the 33 byte address of an account: a type prefix
// followed by a 32 byte identifier.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	a := make([]byte, AddressLen)
	a[0] = typeID
	copy(a[1:], id[:])
	return Address(a)
}

// AddressBech32 returns the bech32 encoding of [p] under [hrp].
func AddressBech32(hrp string, p Address) (string, error) {
	return address.FormatBech32(hrp, p[:])
}

// MustAddressBech32 is like AddressBech32 but panics on error.
func MustAddressBech32(hrp string, p Address) string {
	addr, err := AddressBech32(hrp, p)
	if err != nil {
		panic(err)
	}
	return addr
}

// ParseAddressBech32 validates an untrusted bech32 string and returns the
// encoded address.
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, p, err := address.ParseBech32(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, fmt.Errorf("%w: expected %q, got %q", ErrIncorrectHRP, hrp, phrp)
	}
	// The 5 to 8 bit conversion pads the decoded bytes.
	if len(p) < AddressLen {
		return EmptyAddress, fmt.Errorf("%w: expected %d bytes, got %d", ErrInsufficientLength, AddressLen, len(p))
	}
	return Address(p[:AddressLen]), nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return MustAddressBech32(consts.HRP, a)
}

// MarshalText returns the bech32 representation of a.
func (a Address) MarshalText() ([]byte, error) {
	s, err := AddressBech32(consts.HRP, a)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText parses a bech32-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddressBech32(consts.HRP, string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
