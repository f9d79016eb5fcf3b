// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"io"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:   "simulate [path]",
		Short: "Replay a simulation plan against an in-memory contract",
		Long:  "Replay a simulation plan against an in-memory contract. Use - to read the plan from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   []byte
				err error
			)
			if args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			plan, err := unmarshalPlan(b)
			if err != nil {
				return err
			}
			log, err := newConsoleLogger(logLevel)
			if err != nil {
				return err
			}
			defer log.Stop()

			s, err := NewSimulator(cmd.Context(), log, plan)
			if err != nil {
				return err
			}
			return s.Run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}

// newConsoleLogger logs to stderr so stdout only carries responses.
func newConsoleLogger(level string) (logging.Logger, error) {
	lvl, err := logging.ToLevel(level)
	if err != nil {
		return nil, err
	}
	core := logging.NewWrappedCore(lvl, os.Stderr, logging.Colors.ConsoleEncoder())
	return logging.NewLogger("simulator", core), nil
}
