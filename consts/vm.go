// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/version"
)

const (
	HRP      = "kleo"
	Name     = "vestingvm"
	Symbol   = "KLEO"
	Decimals = 6

	// ContractName is stored with the version metadata and checked on
	// migration.
	ContractName = "kleo-vesting"

	// RatioPrecision is the fixed point denominator of decimal ratios
	// (1.0 == RatioPrecision).
	RatioPrecision uint64 = 1_000_000_000_000_000_000
)

var ID ids.ID

func init() {
	b := make([]byte, ids.IDLen)
	copy(b, []byte(Name))
	vmID, err := ids.ToID(b)
	if err != nil {
		panic(err)
	}
	ID = vmID
}

var Version = &version.Semantic{
	Major: 0,
	Minor: 2,
	Patch: 0,
}
