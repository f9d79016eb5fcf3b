// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Jazz877/kleo-vesting/actions"
	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/cli/prompt"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/rpc"
	"github.com/Jazz877/kleo-vesting/utils"
)

// SubmitAction signs [action] with the default key, submits it over the
// websocket API and waits for its outcome.
func (h *Handler) SubmitAction(ctx context.Context, action chain.Action, confirm bool) (*chain.Outcome, error) {
	_, factory, err := h.GetDefaultKey()
	if err != nil {
		return nil, err
	}
	uri, err := h.GetEndpoint()
	if err != nil {
		return nil, err
	}
	if confirm {
		cont, err := prompt.Continue()
		if err != nil || !cont {
			return nil, err
		}
	}
	call, err := chain.SignCall(uint64(time.Now().UnixNano()), action, factory)
	if err != nil {
		return nil, err
	}

	ws, err := rpc.NewWebSocketClient(uri)
	if err != nil {
		return nil, err
	}
	defer ws.Close()
	if err := ws.SubmitCall(call); err != nil {
		return nil, err
	}
	utils.Outf("{{yellow}}submitted call:{{/}} %s\n", call.ID())

	type result struct {
		outcome *chain.Outcome
		err     error
	}
	done := make(chan result, 1)
	go func() {
		for {
			outcome, err := ws.ListenOutcome()
			if err != nil || outcome.CallID == call.ID() {
				done <- result{outcome, err}
				return
			}
		}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		printOutcome(r.outcome)
		if !r.outcome.Success {
			return r.outcome, fmt.Errorf("%w: %s", ErrCallFailed, r.outcome.Error)
		}
		return r.outcome, nil
	}
}

func printOutcome(o *chain.Outcome) {
	if !o.Success {
		utils.Outf("{{red}}call failed{{/}} {{yellow}}height:{{/}} %d {{yellow}}error:{{/}} %s\n", o.Height, o.Error)
		return
	}
	utils.Outf("{{green}}call succeeded{{/}} {{yellow}}height:{{/}} %d\n", o.Height)
	for _, attr := range o.Result.Attributes {
		utils.Outf("  {{cyan}}%s:{{/}} %s\n", attr.Key, attr.Value)
	}
	for _, t := range o.Result.Transfers {
		utils.Outf(
			"  {{cyan}}transfer:{{/}} %s %s -> %s\n",
			utils.FormatBalance(t.Amount),
			consts.Symbol,
			codec.MustAddressBech32(consts.HRP, t.Recipient),
		)
	}
}

func (h *Handler) Register(ctx context.Context) error {
	addr, err := prompt.Address("beneficiary")
	if err != nil {
		return err
	}
	amount, err := prompt.Amount("vesting amount", consts.MaxUint64)
	if err != nil {
		return err
	}
	prevesting, err := prompt.Amount("prevesting amount", amount)
	if err != nil {
		return err
	}
	start, err := prompt.Time("start time")
	if err != nil {
		return err
	}
	end, err := prompt.Time("end time")
	if err != nil {
		return err
	}
	_, err = h.SubmitAction(ctx, &actions.Register{
		Address:          addr,
		StartTime:        start,
		EndTime:          end,
		VestingAmount:    amount,
		PrevestingAmount: prevesting,
	}, true)
	return err
}

func (h *Handler) Deregister(ctx context.Context) error {
	addr, err := prompt.Address("beneficiary")
	if err != nil {
		return err
	}
	vested, err := prompt.OptionalAddress("recipient of the claimable amount")
	if err != nil {
		return err
	}
	left, err := prompt.OptionalAddress("recipient of the unvested amount")
	if err != nil {
		return err
	}
	_, err = h.SubmitAction(ctx, &actions.Deregister{
		Address:         addr,
		VestedRecipient: vested,
		LeftRecipient:   left,
	}, true)
	return err
}

func (h *Handler) Claim(ctx context.Context) error {
	recipient, err := prompt.OptionalAddress("account to claim for")
	if err != nil {
		return err
	}
	_, err = h.SubmitAction(ctx, &actions.Claim{Recipient: recipient}, true)
	return err
}

func (h *Handler) Snapshot(ctx context.Context) error {
	_, err := h.SubmitAction(ctx, &actions.Snapshot{}, false)
	return err
}

func (h *Handler) UpdateBlockTime(ctx context.Context, blockTime int64) error {
	_, err := h.SubmitAction(ctx, &actions.UpdateBlockTime{BlockTime: blockTime}, true)
	return err
}

func (h *Handler) UpdateOwnerAddress(ctx context.Context) error {
	owner, err := prompt.Address("new owner")
	if err != nil {
		return err
	}
	_, err = h.SubmitAction(ctx, &actions.UpdateOwnerAddress{Owner: owner}, true)
	return err
}

func (h *Handler) UpdateVotingPowerRatio(ctx context.Context) error {
	ratio, err := prompt.Ratio("voting power ratio")
	if err != nil {
		return err
	}
	_, err = h.SubmitAction(ctx, &actions.UpdateVotingPowerRatio{Ratio: ratio}, true)
	return err
}
