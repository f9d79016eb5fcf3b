// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "node"

type metrics struct {
	callsSubmitted prometheus.Counter
	callsRejected  prometheus.Counter
	pendingCalls   prometheus.Gauge
	blockBuild     metric.Averager
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	blockBuild, err := metric.NewAverager(
		namespace+"_block_build",
		"time spent building and executing a block",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		callsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_submitted",
			Help:      "number of calls accepted for inclusion",
		}),
		callsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_rejected",
			Help:      "number of calls with missing or invalid auth",
		}),
		pendingCalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_calls",
			Help:      "number of calls waiting for the next block",
		}),
		blockBuild: blockBuild,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.callsSubmitted),
		r.Register(m.callsRejected),
		r.Register(m.pendingCalls),
	)
	return m, errs.Err
}
