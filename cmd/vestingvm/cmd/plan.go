// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/Jazz877/kleo-vesting/actions"
	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/registry"
	"github.com/Jazz877/kleo-vesting/vesting"
)

const (
	QueryBalance    = "balance"
	QueryAccount    = "account"
	QueryTotal      = "total"
	QueryPower      = "power"
	QueryTotalPower = "totalPower"
)

// Plan is a scripted sequence of calls and queries replayed against a fresh
// in-memory contract. Addresses are written as aliases ("alice") or bech32.
type Plan struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Genesis     PlanGenesis `yaml:"genesis"`
	// Start is the genesis timestamp and initial clock (ms).
	Start int64  `yaml:"start"`
	Steps []Step `yaml:"steps"`
}

type PlanGenesis struct {
	Owner           string `yaml:"owner"`
	Dao             string `yaml:"dao"`
	Model           string `yaml:"model"`
	BlockTime       int64  `yaml:"blockTime"`
	Ratio           string `yaml:"ratio"` // decimal, 1.0 by default
	ContractBalance uint64 `yaml:"contractBalance"`
}

// Step either executes [Action] as [Actor] in a new block or runs [Query].
type Step struct {
	Description string `yaml:"description"`
	// Advance moves the clock forward (ms) before the step.
	Advance int64 `yaml:"advance"`

	Actor  string                 `yaml:"actor"`
	Action string                 `yaml:"action"`
	Params map[string]interface{} `yaml:"params"`

	Query   string  `yaml:"query"`
	Address string  `yaml:"address"`
	Height  *uint64 `yaml:"height"`

	Require *Require `yaml:"require,omitempty"`
}

type Require struct {
	Success *bool  `yaml:"success"`
	Error   string `yaml:"error"` // substring of the failure
	Found   *bool  `yaml:"found"`
	// Field names an amount of an account or total ("claimedAmount").
	// Balance and power queries compare [Value] directly.
	Field string  `yaml:"field"`
	Value *uint64 `yaml:"value"`
}

func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	if err := yaml.UnmarshalStrict(b, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	if err := p.verify(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) verify() error {
	if len(p.Genesis.Owner) == 0 {
		return fmt.Errorf("%w: no owner", ErrInvalidPlan)
	}
	if _, err := vesting.ParseModel(p.Genesis.Model); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidPlan)
	}
	for i := range p.Steps {
		if err := p.Steps[i].verify(); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (s *Step) verify() error {
	if s.Advance < 0 {
		return fmt.Errorf("negative advance %d", s.Advance)
	}
	switch {
	case len(s.Action) > 0 && len(s.Query) > 0:
		return fmt.Errorf("both action %q and query %q", s.Action, s.Query)
	case len(s.Action) > 0:
		if len(s.Actor) == 0 {
			return fmt.Errorf("action %q has no actor", s.Action)
		}
		_, err := newAction(s.Action)
		return err
	case len(s.Query) > 0:
		switch s.Query {
		case QueryBalance, QueryAccount, QueryPower:
			if len(s.Address) == 0 {
				return fmt.Errorf("query %q has no address", s.Query)
			}
		case QueryTotal, QueryTotalPower:
		default:
			return fmt.Errorf("%w: %s", ErrUnknownQuery, s.Query)
		}
		return nil
	default:
		return errNoOperation
	}
}

var errNoOperation = errors.New("neither action nor query")

func newAction(name string) (chain.Action, error) {
	id, ok := registry.Actions.LookupName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	switch id {
	case consts.RegisterID:
		return &actions.Register{}, nil
	case consts.DeregisterID:
		return &actions.Deregister{}, nil
	case consts.ClaimID:
		return &actions.Claim{}, nil
	case consts.SnapshotID:
		return &actions.Snapshot{}, nil
	case consts.ProposalHookID:
		return &actions.ProposalHook{}, nil
	case consts.UpdateBlockTimeID:
		return &actions.UpdateBlockTime{}, nil
	case consts.UpdateOwnerAddressID:
		return &actions.UpdateOwnerAddress{}, nil
	case consts.UpdateVotingPowerRatioID:
		return &actions.UpdateVotingPowerRatio{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
}

// Response is printed as one JSON line per step.
type Response struct {
	Step        int             `json:"step"`
	Description string          `json:"description,omitempty"`
	Height      uint64          `json:"height"`
	Timestamp   int64           `json:"timestamp"`
	Outcome     *chain.Outcome  `json:"outcome,omitempty"`
	Account     *vesting.Data   `json:"account,omitempty"`
	Totals      *vesting.Totals `json:"totals,omitempty"`
	Value       *uint64         `json:"value,omitempty"`
	Found       *bool           `json:"found,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
