// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use: "key",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var genKeyCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an ed25519 key and make it the default",
	RunE: func(*cobra.Command, []string) error {
		return handler.GenerateKey()
	},
}

var importKeyCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import a raw ed25519 key and make it the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return handler.ImportKey(args[0])
	},
}

var exportKeyCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the default key to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return handler.ExportKey(args[0])
	},
}

var setKeyCmd = &cobra.Command{
	Use:   "set",
	Short: "Choose the default key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := callContext(cmd)
		defer cancel()
		return handler.SetKey(ctx)
	},
}

var balanceKeyCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the token balance of an address (default: default key)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := handler.ResolveAddress(optionalArg(args))
		if err != nil {
			return err
		}
		ctx, cancel := callContext(cmd)
		defer cancel()
		return handler.Balance(ctx, addr)
	},
}

func init() {
	keyCmd.AddCommand(
		genKeyCmd,
		importKeyCmd,
		exportKeyCmd,
		setKeyCmd,
		balanceKeyCmd,
	)
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
