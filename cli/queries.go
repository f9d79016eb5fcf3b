// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/rpc"
	"github.com/Jazz877/kleo-vesting/utils"
	"github.com/Jazz877/kleo-vesting/vesting"
)

func (h *Handler) client() (*rpc.JSONRPCClient, error) {
	uri, err := h.GetEndpoint()
	if err != nil {
		return nil, err
	}
	return rpc.NewJSONRPCClient(uri), nil
}

// ResolveAddress parses [addr], falling back to the default key when it
// is empty.
func (h *Handler) ResolveAddress(addr string) (codec.Address, error) {
	if len(addr) > 0 {
		return codec.ParseAddressBech32(consts.HRP, addr)
	}
	a, _, err := h.GetDefaultKey()
	return a, err
}

func (h *Handler) Info(ctx context.Context) error {
	cli, err := h.client()
	if err != nil {
		return err
	}
	info, model, err := cli.Info(ctx)
	if err != nil {
		return err
	}
	owner, err := cli.OwnerAddress(ctx)
	if err != nil {
		return err
	}
	blockTime, err := cli.BlockTime(ctx)
	if err != nil {
		return err
	}
	height, timestamp, err := cli.LastBlock(ctx)
	if err != nil {
		return err
	}
	voting, err := cli.VotingConfig(ctx)
	if err != nil {
		return err
	}
	utils.Outf(
		"{{cyan}}contract:{{/}} %s %s {{cyan}}model:{{/}} %s {{cyan}}block time:{{/}} %dms\n",
		info.Name, info.Version, model, blockTime,
	)
	utils.Outf(
		"{{cyan}}owner:{{/}} %s {{cyan}}dao:{{/}} %s\n",
		codec.MustAddressBech32(consts.HRP, owner),
		codec.MustAddressBech32(consts.HRP, voting.Dao),
	)
	utils.Outf("{{cyan}}last block:{{/}} %d at %d\n", height, timestamp)
	return nil
}

func (h *Handler) Balance(ctx context.Context, addr codec.Address) error {
	cli, err := h.client()
	if err != nil {
		return err
	}
	balance, err := cli.Balance(ctx, addr)
	if err != nil {
		return err
	}
	utils.Outf(
		"{{cyan}}address:{{/}} %s {{cyan}}balance:{{/}} %s %s\n",
		codec.MustAddressBech32(consts.HRP, addr),
		utils.FormatBalance(balance),
		consts.Symbol,
	)
	return nil
}

func (h *Handler) Account(ctx context.Context, addr codec.Address, height *uint64, withPayments bool) error {
	cli, err := h.client()
	if err != nil {
		return err
	}
	d, found, err := cli.VestingAccount(ctx, addr, height, withPayments)
	if err != nil {
		return err
	}
	if !found {
		utils.Outf("{{red}}no vesting account{{/}}\n")
		return nil
	}
	utils.Outf(
		"{{cyan}}vesting:{{/}} %s {{cyan}}vested:{{/}} %s {{cyan}}claimable:{{/}} %s {{cyan}}claimed:{{/}} %s\n",
		utils.FormatBalance(d.VestingAmount),
		utils.FormatBalance(d.VestedAmount),
		utils.FormatBalance(d.ClaimableAmount),
		utils.FormatBalance(d.ClaimedAmount),
	)
	utils.Outf(
		"{{cyan}}prevesting:{{/}} %s {{cyan}}prevested:{{/}} %s {{cyan}}start:{{/}} %d {{cyan}}end:{{/}} %d\n",
		utils.FormatBalance(d.PrevestingAmount),
		utils.FormatBalance(d.PrevestedAmount),
		d.StartTime,
		d.EndTime,
	)
	for _, p := range d.Payments {
		utils.Outf("  {{yellow}}height:{{/}} %d {{yellow}}amount:{{/}} %s\n", p.Height, utils.FormatBalance(p.Amount))
	}
	return nil
}

func (h *Handler) Total(ctx context.Context, height *uint64) error {
	cli, err := h.client()
	if err != nil {
		return err
	}
	totals, err := cli.VestingTotal(ctx, height)
	if err != nil {
		return err
	}
	printTotals(totals)
	return nil
}

func printTotals(t *vesting.Totals) {
	utils.Outf(
		"{{cyan}}vesting:{{/}} %s {{cyan}}vested:{{/}} %s {{cyan}}claimed:{{/}} %s {{cyan}}prevesting:{{/}} %s {{cyan}}prevested:{{/}} %s\n",
		utils.FormatBalance(t.VestingAmount),
		utils.FormatBalance(t.VestedAmount),
		utils.FormatBalance(t.ClaimedAmount),
		utils.FormatBalance(t.PrevestingAmount),
		utils.FormatBalance(t.PrevestedAmount),
	)
}

// VotingPower prints the power of [addr], or the total power when [addr]
// is nil.
func (h *Handler) VotingPower(ctx context.Context, addr *codec.Address, height *uint64) error {
	cli, err := h.client()
	if err != nil {
		return err
	}
	var power, at uint64
	if addr == nil {
		power, at, err = cli.TotalPowerAtHeight(ctx, height)
	} else {
		power, at, err = cli.VotingPowerAtHeight(ctx, *addr, height)
	}
	if err != nil {
		return err
	}
	utils.Outf("{{cyan}}height:{{/}} %d {{cyan}}voting power:{{/}} %s\n", at, utils.FormatBalance(power))
	return nil
}
