// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/Jazz877/kleo-vesting/chain"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/storage"
	"github.com/Jazz877/kleo-vesting/vesting"

	arpc "github.com/ava-labs/avalanchego/utils/rpc"
)

const waitSleep = 250 * time.Millisecond

type JSONRPCClient struct {
	requester arpc.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: arpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args interface{}, reply interface{}) error {
	return cli.requester.SendRequest(ctx, Name+"."+method, args, reply)
}

func (cli *JSONRPCClient) Submit(ctx context.Context, call *chain.Call) (ids.ID, error) {
	resp := new(SubmitReply)
	err := cli.send(ctx, "submit", &SubmitArgs{Call: call.Bytes()}, resp)
	return resp.CallID, err
}

func (cli *JSONRPCClient) LastBlock(ctx context.Context) (uint64, int64, error) {
	resp := new(LastBlockReply)
	err := cli.send(ctx, "lastBlock", nil, resp)
	return resp.Height, resp.Timestamp, err
}

// WaitForHeight blocks until a block at or above [height] was executed.
func (cli *JSONRPCClient) WaitForHeight(ctx context.Context, height uint64) error {
	for {
		last, _, err := cli.LastBlock(ctx)
		if err != nil {
			return err
		}
		if last >= height {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: waiting for height %d", ctx.Err(), height)
		case <-time.After(waitSleep):
		}
	}
}

func (cli *JSONRPCClient) OwnerAddress(ctx context.Context) (codec.Address, error) {
	resp := new(AddressReply)
	err := cli.send(ctx, "ownerAddress", nil, resp)
	return resp.Address, err
}

func (cli *JSONRPCClient) TokenAddress(ctx context.Context) (codec.Address, error) {
	resp := new(AddressReply)
	err := cli.send(ctx, "tokenAddress", nil, resp)
	return resp.Address, err
}

func (cli *JSONRPCClient) BlockTime(ctx context.Context) (int64, error) {
	resp := new(BlockTimeReply)
	err := cli.send(ctx, "blockTime", nil, resp)
	return resp.BlockTime, err
}

func (cli *JSONRPCClient) Info(ctx context.Context) (*storage.ContractInfo, vesting.Model, error) {
	resp := new(InfoReply)
	if err := cli.send(ctx, "info", nil, resp); err != nil {
		return nil, 0, err
	}
	return &resp.ContractInfo, resp.Model, nil
}

func (cli *JSONRPCClient) VotingConfig(ctx context.Context) (*storage.VotingConfig, error) {
	resp := new(VotingConfigReply)
	if err := cli.send(ctx, "votingConfig", nil, resp); err != nil {
		return nil, err
	}
	return &resp.VotingConfig, nil
}

func (cli *JSONRPCClient) VestingAccount(
	ctx context.Context,
	addr codec.Address,
	height *uint64,
	withPayments bool,
) (*vesting.Data, bool, error) {
	resp := new(VestingAccountReply)
	err := cli.send(ctx, "vestingAccount", &VestingAccountArgs{
		Address:      addr,
		Height:       height,
		WithPayments: withPayments,
	}, resp)
	return resp.Account, resp.Found, err
}

func (cli *JSONRPCClient) VestingTotal(ctx context.Context, height *uint64) (*vesting.Totals, error) {
	resp := new(VestingTotalReply)
	err := cli.send(ctx, "vestingTotal", &HeightArgs{Height: height}, resp)
	return resp.Totals, err
}

func (cli *JSONRPCClient) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.send(ctx, "balance", &BalanceArgs{Address: addr}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) VotingPowerAtHeight(ctx context.Context, addr codec.Address, height *uint64) (uint64, uint64, error) {
	resp := new(VotingPowerReply)
	err := cli.send(ctx, "votingPowerAtHeight", &VotingPowerArgs{Address: addr, Height: height}, resp)
	return resp.Power, resp.Height, err
}

func (cli *JSONRPCClient) TotalPowerAtHeight(ctx context.Context, height *uint64) (uint64, uint64, error) {
	resp := new(VotingPowerReply)
	err := cli.send(ctx, "totalPowerAtHeight", &HeightArgs{Height: height}, resp)
	return resp.Power, resp.Height, err
}
