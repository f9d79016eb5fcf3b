// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

var actionCmd = &cobra.Command{
	Use: "action",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

// newActionCmd wraps an interactive action flow with the call timeout.
func newActionCmd(use, short string, run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE:  run,
	}
}

func init() {
	actionCmd.AddCommand(
		newActionCmd("register", "Create a vesting account (owner only)", func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := callContext(cmd)
			defer cancel()
			return handler.Register(ctx)
		}),
		newActionCmd("deregister", "Remove or revoke a vesting account (owner only)", func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := callContext(cmd)
			defer cancel()
			return handler.Deregister(ctx)
		}),
		newActionCmd("claim", "Pay out the claimable amount of an account", func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := callContext(cmd)
			defer cancel()
			return handler.Claim(ctx)
		}),
		newActionCmd("snapshot", "Record the current projection of every account", func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := callContext(cmd)
			defer cancel()
			return handler.Snapshot(ctx)
		}),
		&cobra.Command{
			Use:   "update-block-time [ms]",
			Short: "Change the block interval and reschedule payments (owner only)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				blockTime, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return err
				}
				ctx, cancel := callContext(cmd)
				defer cancel()
				return handler.UpdateBlockTime(ctx, blockTime)
			},
		},
		newActionCmd("update-owner", "Transfer contract ownership (owner only)", func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := callContext(cmd)
			defer cancel()
			return handler.UpdateOwnerAddress(ctx)
		}),
		newActionCmd("update-ratio", "Change the voting power ratio (dao only)", func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := callContext(cmd)
			defer cancel()
			return handler.UpdateVotingPowerRatio(ctx)
		}),
	)
}
