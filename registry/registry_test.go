// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/Jazz877/kleo-vesting/actions"
	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
)

func TestCallEncoding(t *testing.T) {
	var (
		actor = codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())
		other = codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())
	)
	tests := map[string]chain.Action{
		"register": &actions.Register{
			Address:          other,
			StartTime:        100,
			EndTime:          200,
			VestingAmount:    1_000,
			PrevestingAmount: 10,
		},
		"deregister with recipients": &actions.Deregister{
			Address:         other,
			VestedRecipient: other,
			LeftRecipient:   actor,
		},
		"deregister without recipients": &actions.Deregister{Address: other},
		"deregister left recipient only": &actions.Deregister{
			Address:       other,
			LeftRecipient: actor,
		},
		"claim":                     &actions.Claim{},
		"claim for recipient":       &actions.Claim{Recipient: other},
		"snapshot":                  &actions.Snapshot{},
		"proposal hook":             &actions.ProposalHook{ProposalID: 7},
		"update block time":         &actions.UpdateBlockTime{BlockTime: 5_000},
		"update owner address":      &actions.UpdateOwnerAddress{Owner: other},
		"update voting power ratio": &actions.UpdateVotingPowerRatio{Ratio: consts.RatioPrecision},
	}
	for name, action := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			call, err := chain.NewCall(actor, 3, action)
			require.NoError(err)
			require.Len(call.Bytes(), call.Size())

			parsed, err := chain.UnmarshalCall(call.Bytes(), Actions)
			require.NoError(err)
			require.Equal(call.ID(), parsed.ID())
			require.Equal(actor, parsed.Actor)
			require.Equal(uint64(3), parsed.Nonce)
			require.Equal(action, parsed.Action)
		})
	}
}

func TestUnknownAction(t *testing.T) {
	require := require.New(t)
	p := codec.NewWriter(codec.AddressLen+consts.Uint64Len+1, chain.MaxCallSize)
	p.PackAddress(codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID()))
	p.PackUint64(0)
	p.PackByte(0xff)
	require.NoError(p.Err())

	_, err := chain.UnmarshalCall(p.Bytes(), Actions)
	require.ErrorIs(err, chain.ErrActionNotRegistered)
}

func TestTrailingBytes(t *testing.T) {
	require := require.New(t)
	call, err := chain.NewCall(codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID()), 0, &actions.Snapshot{})
	require.NoError(err)

	_, err = chain.UnmarshalCall(append(call.Bytes(), 0), Actions)
	require.ErrorIs(err, chain.ErrInvalidObject)
}
