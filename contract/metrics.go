// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "contract"

type metrics struct {
	calls       *prometheus.CounterVec
	failedCalls prometheus.Counter
	snapshots   prometheus.Counter
	accounts    prometheus.Gauge
	blocks      prometheus.Counter
	execute     metric.Averager
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	execute, err := metric.NewAverager(
		namespace+"_execute",
		"time spent executing a block of calls",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls",
			Help:      "number of executed calls by action",
		}, []string{"action"}),
		failedCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_calls",
			Help:      "number of calls that were rolled back",
		}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots",
			Help:      "number of snapshots taken",
		}),
		accounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accounts",
			Help:      "number of live vesting accounts",
		}),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks",
			Help:      "number of executed blocks",
		}),
		execute: execute,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.calls),
		r.Register(m.failedCalls),
		r.Register(m.snapshots),
		r.Register(m.accounts),
		r.Register(m.blocks),
	)
	return m, errs.Err
}
