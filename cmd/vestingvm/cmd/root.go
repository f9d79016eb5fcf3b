// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Jazz877/kleo-vesting/consts"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     consts.Name,
		Short:   "Kleo vesting node",
		Version: consts.Version.String(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.AddCommand(
		newRunCmd(),
		newGenesisCmd(),
		newSimulateCmd(),
	)
	return cmd
}
