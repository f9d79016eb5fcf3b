// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"

	"github.com/Jazz877/kleo-vesting/auth"
	"github.com/Jazz877/kleo-vesting/cli/prompt"
	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/crypto/ed25519"
	"github.com/Jazz877/kleo-vesting/rpc"
	"github.com/Jazz877/kleo-vesting/utils"
)

func (h *Handler) GenerateKey() error {
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return err
	}
	return h.storeAndSelect(priv, "created")
}

func (h *Handler) ImportKey(keyPath string) error {
	priv, err := ed25519.LoadKey(keyPath)
	if err != nil {
		return err
	}
	return h.storeAndSelect(priv, "imported")
}

func (h *Handler) storeAndSelect(priv ed25519.PrivateKey, verb string) error {
	addr, err := h.StoreKey(priv)
	if err != nil {
		return err
	}
	if err := h.StoreDefaultKey(addr); err != nil {
		return err
	}
	utils.Outf(
		"{{green}}%s address:{{/}} %s\n",
		verb,
		codec.MustAddressBech32(consts.HRP, addr),
	)
	return nil
}

// ExportKey writes the default key to [keyPath].
func (h *Handler) ExportKey(keyPath string) error {
	addr, _, err := h.GetDefaultKey()
	if err != nil {
		return err
	}
	priv, err := h.GetKey(addr)
	if err != nil {
		return err
	}
	return priv.Save(keyPath)
}

// SetKey lists the stored keys with their balances and stores the chosen
// one as default.
func (h *Handler) SetKey(ctx context.Context) error {
	keys, err := h.GetKeys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		utils.Outf("{{red}}no stored keys{{/}}\n")
		return nil
	}
	uri, err := h.GetEndpoint()
	if err != nil {
		return err
	}
	cli := rpc.NewJSONRPCClient(uri)
	utils.Outf("{{cyan}}stored keys:{{/}} %d\n", len(keys))
	addrs := make([]codec.Address, len(keys))
	for i, priv := range keys {
		addrs[i] = auth.NewED25519Address(priv.PublicKey())
		balance, err := cli.Balance(ctx, addrs[i])
		if err != nil {
			return err
		}
		utils.Outf(
			"%d) {{cyan}}address:{{/}} %s {{cyan}}balance:{{/}} %s %s\n",
			i,
			codec.MustAddressBech32(consts.HRP, addrs[i]),
			utils.FormatBalance(balance),
			consts.Symbol,
		)
	}
	keyIndex, err := prompt.Choice("set default key", len(keys))
	if err != nil {
		return err
	}
	return h.StoreDefaultKey(addrs[keyIndex])
}
