// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vesting

import (
	"github.com/ava-labs/avalanchego/utils/math"
	"github.com/holiman/uint256"
)

// MulDiv returns a*b/c. The product is computed with a 256-bit intermediate
// so it never overflows; only a quotient that does not fit in 64 bits does.
func MulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, ErrDivideByZero
	}
	z := new(uint256.Int).SetUint64(a)
	z.Mul(z, new(uint256.Int).SetUint64(b))
	z.Div(z, new(uint256.Int).SetUint64(c))
	if !z.IsUint64() {
		return 0, math.ErrOverflow
	}
	return z.Uint64(), nil
}
