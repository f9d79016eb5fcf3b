// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use: "query",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var accountCmd = &cobra.Command{
	Use:   "account [address]",
	Short: "Print a vesting account (default: default key)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := handler.ResolveAddress(optionalArg(args))
		if err != nil {
			return err
		}
		ctx, cancel := callContext(cmd)
		defer cancel()
		return handler.Account(ctx, addr, queryHeight(), withPayments)
	},
}

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Print the aggregate over every vesting account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := callContext(cmd)
		defer cancel()
		return handler.Total(ctx, queryHeight())
	},
}

var powerCmd = &cobra.Command{
	Use:   "power [address]",
	Short: "Print the voting power of an address, or the total without one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := callContext(cmd)
		defer cancel()
		if len(args) == 0 {
			return handler.VotingPower(ctx, nil, queryHeight())
		}
		addr, err := handler.ResolveAddress(args[0])
		if err != nil {
			return err
		}
		return handler.VotingPower(ctx, &addr, queryHeight())
	},
}

func init() {
	queryCmd.AddCommand(
		accountCmd,
		totalCmd,
		powerCmd,
	)
}
