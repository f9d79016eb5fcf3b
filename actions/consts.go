// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

// Attribute keys and action names reported in results.
const (
	registerAction               = "register"
	deregisterAction             = "deregister"
	claimAction                  = "claim"
	snapshotAction               = "snapshot"
	proposalHookAction           = "proposal_hook"
	updateBlockTimeAction        = "update_block_time"
	updateOwnerAddressAction     = "update_owner_address"
	updateVotingPowerRatioAction = "update_voting_power_ratio"

	addressKey           = "address"
	amountKey            = "amount"
	heightKey            = "height"
	vestingAmountKey     = "vesting_amount"
	vestedAmountKey      = "vested_amount"
	claimableAmountKey   = "claimable_amount"
	leftVestingAmountKey = "left_vesting_amount"
	proposalIDKey        = "proposal_id"
	blockTimeKey         = "block_time"
	ownerAddressKey      = "owner_address"
	ratioKey             = "ratio"
	accountsKey          = "accounts"

	// SnapshotHeightKey is reported by every action that records a snapshot.
	SnapshotHeightKey = "snapshot_height"
)
