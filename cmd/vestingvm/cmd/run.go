// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jazz877/kleo-vesting/config"
	"github.com/Jazz877/kleo-vesting/consts"
	"github.com/Jazz877/kleo-vesting/genesis"
	"github.com/Jazz877/kleo-vesting/node"
)

func newRunCmd() *cobra.Command {
	var configPath, genesisPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the vesting contract and build blocks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgBytes, err := readOptional(configPath)
			if err != nil {
				return err
			}
			cfg, err := config.New(cfgBytes)
			if err != nil {
				return err
			}
			genesisBytes, err := readOptional(genesisPath)
			if err != nil {
				return err
			}
			g, err := genesis.New(genesisBytes)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, g)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the node config (JSON)")
	cmd.Flags().StringVar(&genesisPath, "genesis", "", "path to the genesis (JSON), only read for an empty database")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, g *genesis.Genesis) error {
	log, err := cfg.NewLogger(consts.Name)
	if err != nil {
		return err
	}
	defer log.Stop()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	n, err := node.New(ctx, log, cfg, g)
	if err != nil {
		log.Error("failed to start node", zap.Error(err))
		return err
	}
	defer func() {
		if err := n.Close(); err != nil {
			log.Error("failed to close node", zap.Error(err))
		}
	}()

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", cfg.GetHTTPAddress())
	if err != nil {
		return err
	}
	log.Info("serving",
		zap.String("address", listener.Addr().String()),
		zap.Duration("blockInterval", cfg.BlockInterval),
	)
	return n.Run(ctx, listener)
}

// readOptional returns nil for an empty path so defaults apply.
func readOptional(path string) ([]byte, error) {
	if len(path) == 0 {
		return nil, nil
	}
	return os.ReadFile(path)
}
