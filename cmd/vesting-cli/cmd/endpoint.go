// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Jazz877/kleo-vesting/utils"
)

var endpointCmd = &cobra.Command{
	Use: "endpoint",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var setEndpointCmd = &cobra.Command{
	Use:   "set [uri]",
	Short: "Store the node URI used by every command",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := handler.StoreEndpoint(args[0]); err != nil {
			return err
		}
		utils.Outf("{{green}}stored endpoint:{{/}} %s\n", args[0])
		return nil
	},
}

var infoEndpointCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the contract configuration and last block",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := callContext(cmd)
		defer cancel()
		return handler.Info(ctx)
	},
}

func init() {
	endpointCmd.AddCommand(
		setEndpointCmd,
		infoEndpointCmd,
	)
}
