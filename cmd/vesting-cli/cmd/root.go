// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jazz877/kleo-vesting/cli"
	"github.com/Jazz877/kleo-vesting/utils"
)

const (
	defaultDatabase = ".vesting-cli"
	defaultTimeout  = 2 * time.Minute
)

var (
	handler *cli.Handler

	dbPath       string
	timeout      time.Duration
	height       int64
	withPayments bool

	rootCmd = &cobra.Command{
		Use:        "vesting-cli",
		Short:      "Kleo vesting CLI",
		SuggestFor: []string{"vesting-cli", "vestingcli"},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		keyCmd,
		endpointCmd,
		actionCmd,
		queryCmd,
	)
	rootCmd.PersistentFlags().StringVar(
		&dbPath,
		"database",
		defaultDatabase,
		"path to database (will create it missing)",
	)
	rootCmd.PersistentFlags().DurationVar(
		&timeout,
		"timeout",
		defaultTimeout,
		"time to wait for a call or query",
	)
	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		utils.Outf("{{yellow}}database:{{/}} %s\n", dbPath)
		h, err := cli.New(dbPath)
		if err != nil {
			return err
		}
		handler = h
		return nil
	}
	rootCmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		return handler.CloseDatabase()
	}
	rootCmd.SilenceErrors = true

	// queries
	for _, c := range []*cobra.Command{accountCmd, totalCmd, powerCmd} {
		c.PersistentFlags().Int64Var(
			&height,
			"height",
			-1,
			"height to query (default: latest)",
		)
	}
	accountCmd.PersistentFlags().BoolVar(
		&withPayments,
		"payments",
		false,
		"include the payment schedule",
	)
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func callContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// queryHeight is nil when no height flag was given.
func queryHeight() *uint64 {
	if height < 0 {
		return nil
	}
	h := uint64(height)
	return &h
}
