package multi

// Copyright 2024 the opsmgr-dash authors
//
// This file is part of opsmgr-dash.
//
// opsmgr-dash is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, version 2 of the License.
//
// opsmgr-dash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/cache"
	"github.com/opsmgr-dash/opsmgr-dash/config"
	"github.com/opsmgr-dash/opsmgr-dash/history"
	"github.com/opsmgr-dash/opsmgr-dash/multi/api"
)

const (
	// the max number of parallel source fetches on the bulk pages
	bulkParallelLevel = 4
	// the max number of parallel reachability probes
	probeParallelLevel = 10
)

// Dashboard aggregates data from all configured Ops Manager instances. It
// owns the snapshot cache and the probe history.
type Dashboard struct {
	cfg     *config.Config
	store   *cache.Store
	history *history.Store

	probeMtx    *sync.Mutex
	lastProbe   *api.StatusResponse
	lastProbeAt time.Time
}

// New creates the dashboard aggregate. A failing history store is logged
// and probing continues without persistence.
func New(cfg *config.Config) (*Dashboard, error) {
	if cfg == nil {
		return nil, fmt.Errorf("invalid configuration")
	}

	hist, err := history.New(cfg.HistoryFile)
	if err != nil {
		zap.L().Sugar().Warnf("Probe history disabled: %s", err.Error())
		hist = nil
	}

	return &Dashboard{
		cfg:      cfg,
		store:    cache.NewStore(cfg.CacheDir),
		history:  hist,
		probeMtx: &sync.Mutex{},
	}, nil
}

// Store exposes the snapshot store (for the timestamp queries of handlers).
func (p *Dashboard) Store() *cache.Store {
	return p.store
}

// LatestCacheTimestamp returns the newest snapshot timestamp across the
// selected instances for one category. Snapshots are keyed by the instance
// URL. ISO-8601 timestamps order lexicographically, so a string max does.
func (p *Dashboard) LatestCacheTimestamp(instances []*config.OpsManagerInstance, category cache.Category) string {
	latest := ""
	for _, instance := range instances {
		if instance == nil {
			continue
		}
		path := p.store.PathFor(instance.Url, category)
		if timestamp, found := p.store.Timestamp(path); found && timestamp > latest {
			latest = timestamp
		}
	}
	return latest
}
