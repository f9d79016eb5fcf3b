// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/Jazz877/kleo-vesting/actions"
	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
)

// Actions decodes every action the contract executes.
var Actions *chain.ActionRegistry

// Setup types
func init() {
	Actions = codec.NewTypeParser[chain.Action]()

	errs := &wrappers.Errs{}
	errs.Add(
		// When registering new actions, ALWAYS make sure to append at the end.
		Actions.Register(&actions.Register{}, "register", actions.UnmarshalRegister),
		Actions.Register(&actions.Deregister{}, "deregister", actions.UnmarshalDeregister),
		Actions.Register(&actions.Claim{}, "claim", actions.UnmarshalClaim),
		Actions.Register(&actions.Snapshot{}, "snapshot", actions.UnmarshalSnapshot),
		Actions.Register(&actions.ProposalHook{}, "proposalHook", actions.UnmarshalProposalHook),
		Actions.Register(&actions.UpdateBlockTime{}, "updateBlockTime", actions.UnmarshalUpdateBlockTime),
		Actions.Register(&actions.UpdateOwnerAddress{}, "updateOwnerAddress", actions.UnmarshalUpdateOwnerAddress),
		Actions.Register(&actions.UpdateVotingPowerRatio{}, "updateVotingPowerRatio", actions.UnmarshalUpdateVotingPowerRatio),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}
