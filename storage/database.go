// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Jazz877/kleo-vesting/pebble"
	"github.com/Jazz877/kleo-vesting/utils"
)

const (
	PebbleDatabase = "pebble"
	MemDatabase    = "memdb"

	stateNamespace = "statedb"
)

// New opens the state database of type [dbType] under [dataDir]. Metrics of
// on-disk databases are registered with [registerer].
func New(dbType string, cfg pebble.Config, dataDir string, registerer prometheus.Registerer) (database.Database, error) {
	switch dbType {
	case MemDatabase:
		return memdb.New(), nil
	case PebbleDatabase:
		path, err := utils.InitSubDirectory(dataDir, stateNamespace)
		if err != nil {
			return nil, err
		}
		db, err := pebble.New(path, cfg, registerer)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDatabaseType, dbType)
	}
}
