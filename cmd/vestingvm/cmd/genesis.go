// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jazz877/kleo-vesting/codec"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/genesis"
	"github.com/Jazz877/kleo-vesting/vesting"
)

func newGenesisCmd() *cobra.Command {
	var (
		output          string
		owner           string
		token           string
		model           string
		blockTime       int64
		contractBalance uint64
	)
	cmd := &cobra.Command{
		Use:   "genesis",
		Short: "Write a genesis file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g := genesis.Default()
			if _, err := codec.ParseAddressBech32(consts.HRP, owner); err != nil {
				return err
			}
			if _, err := codec.ParseAddressBech32(consts.HRP, token); err != nil {
				return err
			}
			m, err := vesting.ParseModel(model)
			if err != nil {
				return err
			}
			g.Owner = owner
			g.Token = token
			g.Model = m
			if blockTime > 0 {
				g.BlockTime = blockTime
			}
			g.ContractBalance = contractBalance

			b, err := json.MarshalIndent(g, "", "  ")
			if err != nil {
				return err
			}
			if len(output) == 0 {
				_, err = cmd.OutOrStdout().Write(append(b, '\n'))
				return err
			}
			return os.WriteFile(output, b, 0o600)
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "file to write (default: stdout)")
	cmd.Flags().StringVar(&owner, "owner", "", "owner address")
	cmd.Flags().StringVar(&token, "token", "", "token address")
	cmd.Flags().StringVar(&model, "model", vesting.Continuous.String(), "vesting model (continuous or scheduled)")
	cmd.Flags().Int64Var(&blockTime, "block-time", 0, "block interval in ms used to schedule payments")
	cmd.Flags().Uint64Var(&contractBalance, "contract-balance", 0, "tokens held by the contract")
	return cmd
}
