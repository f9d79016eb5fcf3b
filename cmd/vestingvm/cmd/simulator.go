// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/cli/prompt"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/contract"
	"github.com/Jazz877/kleo-vesting/genesis"
	"github.com/Jazz877/kleo-vesting/trace"
	"github.com/Jazz877/kleo-vesting/utils"
	"github.com/Jazz877/kleo-vesting/vesting"
)

// Action params holding an address. Aliases are resolved before decoding.
var addressParams = map[string]struct{}{
	"address":         {},
	"vestedRecipient": {},
	"leftRecipient":   {},
	"recipient":       {},
	"owner":           {},
}

type Simulator struct {
	log      logging.Logger
	plan     *Plan
	contract *contract.Contract

	clock   int64
	aliases map[string]codec.Address
}

// NewSimulator instantiates the contract described by [plan] in memory.
func NewSimulator(ctx context.Context, log logging.Logger, plan *Plan) (*Simulator, error) {
	c, err := contract.New(log, trace.Noop(), memdb.New(), prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}
	s := &Simulator{
		log:      log,
		plan:     plan,
		contract: c,
		clock:    plan.Start,
		aliases:  map[string]codec.Address{},
	}

	g := genesis.Default()
	g.Owner = s.bech32(plan.Genesis.Owner)
	g.Token = codec.MustAddressBech32(consts.HRP, codec.CreateAddress(consts.ContractID, utils.ToID([]byte("token"))))
	if len(plan.Genesis.Dao) > 0 {
		g.Dao = s.bech32(plan.Genesis.Dao)
	}
	g.Model, err = vesting.ParseModel(plan.Genesis.Model)
	if err != nil {
		return nil, err
	}
	if plan.Genesis.BlockTime > 0 {
		g.BlockTime = plan.Genesis.BlockTime
	}
	if len(plan.Genesis.Ratio) > 0 {
		g.VotingPowerRatio, err = prompt.ParseRatio(plan.Genesis.Ratio)
		if err != nil {
			return nil, err
		}
	}
	g.ContractBalance = plan.Genesis.ContractBalance
	if err := c.Instantiate(ctx, g, chain.NewBlockContext(0, plan.Start)); err != nil {
		return nil, err
	}
	return s, nil
}

// address resolves a bech32 address or derives a stable one from an alias.
func (s *Simulator) address(alias string) codec.Address {
	if addr, err := codec.ParseAddressBech32(consts.HRP, alias); err == nil {
		return addr
	}
	if addr, ok := s.aliases[alias]; ok {
		return addr
	}
	addr := codec.CreateAddress(consts.ED25519ID, utils.ToID([]byte(alias)))
	s.aliases[alias] = addr
	return addr
}

func (s *Simulator) bech32(alias string) string {
	return codec.MustAddressBech32(consts.HRP, s.address(alias))
}

// Run replays every step and writes one response per step to [w]. It stops
// at the first unmet requirement.
func (s *Simulator) Run(ctx context.Context, w io.Writer) error {
	s.log.Info("simulation",
		zap.String("name", s.plan.Name),
		zap.String("description", s.plan.Description),
		zap.Int("steps", len(s.plan.Steps)),
	)
	for i := range s.plan.Steps {
		step := &s.plan.Steps[i]
		s.clock += step.Advance
		s.log.Debug("step",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("action", step.Action),
			zap.String("query", step.Query),
			zap.Int64("clock", s.clock),
		)

		resp, err := s.runStep(ctx, i, step)
		if err != nil {
			return err
		}
		b, err := resp.Marshal()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(b)); err != nil {
			return err
		}
		if err := check(step.Require, resp); err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Description, err)
		}
	}
	return nil
}

func (s *Simulator) runStep(ctx context.Context, i int, step *Step) (*Response, error) {
	resp := &Response{Step: i, Description: step.Description}
	if len(step.Action) > 0 {
		outcome, err := s.call(ctx, i, step)
		if err != nil {
			return nil, err
		}
		resp.Outcome = outcome
		resp.Height = outcome.Height
		resp.Timestamp = outcome.Timestamp
		return resp, nil
	}

	height, timestamp, err := s.contract.LastBlock(ctx)
	if err != nil {
		return nil, err
	}
	resp.Height = height
	resp.Timestamp = timestamp
	if err := s.query(ctx, step, resp); err != nil {
		resp.Error = err.Error()
	}
	return resp, nil
}

// call executes the step as the only call of the next block.
func (s *Simulator) call(ctx context.Context, i int, step *Step) (*chain.Outcome, error) {
	action, err := s.decodeAction(step)
	if err != nil {
		return nil, err
	}
	call, err := chain.NewCall(s.address(step.Actor), uint64(i), action)
	if err != nil {
		return nil, err
	}
	height, timestamp, err := s.contract.LastBlock(ctx)
	if err != nil {
		return nil, err
	}
	blk := chain.NewBlockContext(height+1, max(s.clock, timestamp))
	outcomes, err := s.contract.ExecuteBlock(ctx, blk, []*chain.Call{call})
	if err != nil {
		return nil, err
	}
	return &outcomes[0].Outcome, nil
}

// decodeAction resolves address aliases and decimal ratios in the params and
// decodes them into the named action.
func (s *Simulator) decodeAction(step *Step) (chain.Action, error) {
	action, err := newAction(step.Action)
	if err != nil {
		return nil, err
	}
	params := make(map[string]interface{}, len(step.Params))
	for k, v := range step.Params {
		str, isString := v.(string)
		switch {
		case !isString:
			params[k] = v
		case k == "ratio":
			ratio, err := prompt.ParseRatio(str)
			if err != nil {
				return nil, err
			}
			params[k] = ratio
		default:
			if _, ok := addressParams[k]; ok {
				params[k] = s.bech32(str)
			} else {
				params[k] = str
			}
		}
	}
	b, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, action); err != nil {
		return nil, fmt.Errorf("%w: %s params: %w", ErrInvalidStep, step.Action, err)
	}
	return action, nil
}

func (s *Simulator) query(ctx context.Context, step *Step, resp *Response) error {
	switch step.Query {
	case QueryBalance:
		balance, err := s.contract.Balance(ctx, s.address(step.Address))
		resp.Value = &balance
		return err
	case QueryAccount:
		d, found, err := s.contract.VestingAccount(ctx, s.address(step.Address), step.Height, false)
		resp.Account = d
		resp.Found = &found
		return err
	case QueryTotal:
		totals, err := s.contract.VestingTotal(ctx, step.Height)
		resp.Totals = totals
		return err
	case QueryPower:
		power, h, err := s.contract.VotingPowerAtHeight(ctx, s.address(step.Address), step.Height)
		resp.Value = &power
		resp.Height = h
		return err
	case QueryTotalPower:
		power, h, err := s.contract.TotalPowerAtHeight(ctx, step.Height)
		resp.Value = &power
		resp.Height = h
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownQuery, step.Query)
	}
}

func check(req *Require, resp *Response) error {
	if req == nil {
		return nil
	}
	failure := resp.Error
	if resp.Outcome != nil {
		failure = resp.Outcome.Error
	}
	if req.Success != nil {
		success := len(failure) == 0
		if *req.Success != success {
			return fmt.Errorf("%w: success=%t error=%q", ErrRequirementFailed, success, failure)
		}
	}
	if len(req.Error) > 0 && !strings.Contains(failure, req.Error) {
		return fmt.Errorf("%w: error %q does not contain %q", ErrRequirementFailed, failure, req.Error)
	}
	if req.Found != nil && (resp.Found == nil || *resp.Found != *req.Found) {
		return fmt.Errorf("%w: found != %t", ErrRequirementFailed, *req.Found)
	}
	if req.Value == nil {
		return nil
	}
	actual, err := resp.value(req.Field)
	if err != nil {
		return err
	}
	if actual != *req.Value {
		return fmt.Errorf("%w: %s=%d, expected %d", ErrRequirementFailed, req.Field, actual, *req.Value)
	}
	return nil
}

func (r *Response) value(field string) (uint64, error) {
	if len(field) == 0 {
		if r.Value == nil {
			return 0, fmt.Errorf("%w: no value", ErrRequirementFailed)
		}
		return *r.Value, nil
	}
	var t *vesting.Totals
	switch {
	case r.Account != nil:
		t = &vesting.Totals{
			VestingAmount:    r.Account.VestingAmount,
			VestedAmount:     r.Account.VestedAmount,
			ClaimedAmount:    r.Account.ClaimedAmount,
			PrevestingAmount: r.Account.PrevestingAmount,
			PrevestedAmount:  r.Account.PrevestedAmount,
		}
		if field == "claimableAmount" {
			return r.Account.ClaimableAmount, nil
		}
	case r.Totals != nil:
		t = r.Totals
	default:
		return 0, fmt.Errorf("%w: no account or totals for %s", ErrRequirementFailed, field)
	}
	switch field {
	case "vestingAmount":
		return t.VestingAmount, nil
	case "vestedAmount":
		return t.VestedAmount, nil
	case "claimedAmount":
		return t.ClaimedAmount, nil
	case "prevestingAmount":
		return t.PrevestingAmount, nil
	case "prevestedAmount":
		return t.PrevestedAmount, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}
