// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Jazz877/kleo-vesting/pebble"
)

// Handler keeps the keys and the endpoint of the command line wallet.
type Handler struct {
	db database.Database
}

func New(dbPath string) (*Handler, error) {
	db, err := pebble.New(dbPath, pebble.NewDefaultConfig(), prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}
	return &Handler{db}, nil
}

func (h *Handler) CloseDatabase() error {
	return h.db.Close()
}
