// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"
)

type JSONRPCServer struct {
	backend Backend
}

func NewJSONRPCServer(backend Backend) *JSONRPCServer {
	return &JSONRPCServer{backend}
}

type SubmitArgs struct {
	Call []byte `json:"call"`
}

type SubmitReply struct {
	CallID ids.ID `json:"callId"`
}

func (j *JSONRPCServer) Submit(req *http.Request, args *SubmitArgs, reply *SubmitReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.Submit")
	defer span.End()

	call, err := chain.UnmarshalCall(args.Call, j.backend.Registry())
	if err != nil {
		return fmt.Errorf("%w: unable to unmarshal on public service", err)
	}
	if err := j.backend.Submit(ctx, call); err != nil {
		return err
	}
	j.backend.Logger().Debug("submitted call",
		zap.Stringer("callID", call.ID()),
		zap.Stringer("actor", call.Actor),
	)
	reply.CallID = call.ID()
	return nil
}

type LastBlockReply struct {
	Height    uint64 `json:"height"`
	Timestamp int64  `json:"timestamp"`
}

func (j *JSONRPCServer) LastBlock(req *http.Request, _ *struct{}, reply *LastBlockReply) error {
	height, timestamp, err := j.backend.LastBlock(req.Context())
	if err != nil {
		return err
	}
	reply.Height = height
	reply.Timestamp = timestamp
	return nil
}

type AddressReply struct {
	Address codec.Address `json:"address"`
}

func (j *JSONRPCServer) OwnerAddress(req *http.Request, _ *struct{}, reply *AddressReply) error {
	addr, err := j.backend.OwnerAddress(req.Context())
	if err != nil {
		return err
	}
	reply.Address = addr
	return nil
}

func (j *JSONRPCServer) TokenAddress(req *http.Request, _ *struct{}, reply *AddressReply) error {
	addr, err := j.backend.TokenAddress(req.Context())
	if err != nil {
		return err
	}
	reply.Address = addr
	return nil
}

type BlockTimeReply struct {
	BlockTime int64 `json:"blockTime"` // ms
}

func (j *JSONRPCServer) BlockTime(req *http.Request, _ *struct{}, reply *BlockTimeReply) error {
	blockTime, err := j.backend.BlockTime(req.Context())
	if err != nil {
		return err
	}
	reply.BlockTime = blockTime
	return nil
}

type InfoReply struct {
	storage.ContractInfo
	Model vesting.Model `json:"model"`
}

func (j *JSONRPCServer) Info(req *http.Request, _ *struct{}, reply *InfoReply) error {
	ctx := req.Context()
	info, err := j.backend.Info(ctx)
	if err != nil {
		return err
	}
	model, err := j.backend.Model(ctx)
	if err != nil {
		return err
	}
	reply.ContractInfo = *info
	reply.Model = model
	return nil
}

type VotingConfigReply struct {
	storage.VotingConfig
}

func (j *JSONRPCServer) VotingConfig(req *http.Request, _ *struct{}, reply *VotingConfigReply) error {
	cfg, err := j.backend.VotingConfig(req.Context())
	if err != nil {
		return err
	}
	reply.VotingConfig = *cfg
	return nil
}

type VestingAccountArgs struct {
	Address      codec.Address `json:"address"`
	Height       *uint64       `json:"height,omitempty"`
	WithPayments bool          `json:"withPayments"`
}

type VestingAccountReply struct {
	Found   bool          `json:"found"`
	Account *vesting.Data `json:"account,omitempty"`
}

func (j *JSONRPCServer) VestingAccount(req *http.Request, args *VestingAccountArgs, reply *VestingAccountReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.VestingAccount")
	defer span.End()

	d, found, err := j.backend.VestingAccount(ctx, args.Address, args.Height, args.WithPayments)
	if err != nil {
		return err
	}
	reply.Found = found
	reply.Account = d
	return nil
}

type HeightArgs struct {
	Height *uint64 `json:"height,omitempty"`
}

type VestingTotalReply struct {
	Totals *vesting.Totals `json:"totals"`
}

func (j *JSONRPCServer) VestingTotal(req *http.Request, args *HeightArgs, reply *VestingTotalReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.VestingTotal")
	defer span.End()

	totals, err := j.backend.VestingTotal(ctx, args.Height)
	if err != nil {
		return err
	}
	reply.Totals = totals
	return nil
}

type BalanceArgs struct {
	Address codec.Address `json:"address"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	amount, err := j.backend.Balance(req.Context(), args.Address)
	if err != nil {
		return err
	}
	reply.Amount = amount
	return nil
}

type VotingPowerArgs struct {
	Address codec.Address `json:"address"`
	Height  *uint64       `json:"height,omitempty"`
}

type VotingPowerReply struct {
	Power  uint64 `json:"power"`
	Height uint64 `json:"height"`
}

func (j *JSONRPCServer) VotingPowerAtHeight(req *http.Request, args *VotingPowerArgs, reply *VotingPowerReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.VotingPowerAtHeight")
	defer span.End()

	power, height, err := j.backend.VotingPowerAtHeight(ctx, args.Address, args.Height)
	if err != nil {
		return err
	}
	reply.Power = power
	reply.Height = height
	return nil
}

func (j *JSONRPCServer) TotalPowerAtHeight(req *http.Request, args *HeightArgs, reply *VotingPowerReply) error {
	ctx, span := j.backend.Tracer().Start(req.Context(), "JSONRPCServer.TotalPowerAtHeight")
	defer span.End()

	power, height, err := j.backend.TotalPowerAtHeight(ctx, args.Height)
	if err != nil {
		return err
	}
	reply.Power = power
	reply.Height = height
	return nil
}
