// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Action TypeIDs
	RegisterID               uint8 = 0
	DeregisterID             uint8 = 1
	ClaimID                  uint8 = 2
	SnapshotID               uint8 = 3
	ProposalHookID           uint8 = 4
	UpdateBlockTimeID        uint8 = 5
	UpdateOwnerAddressID     uint8 = 6
	UpdateVotingPowerRatioID uint8 = 7
)

const (
	// Address TypeIDs
	ED25519ID  uint8 = 0
	ContractID uint8 = 1
)
