package multi

// Copyright 2024 the opsmgr-dash authors
//
// This file is part of opsmgr-dash.
//
// opsmgr-dash is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, version 2 of the License.
//
// opsmgr-dash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/multi/api"
	"github.com/opsmgr-dash/opsmgr-dash/opsmanager"
	opsapi "github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
)

// probes younger than this serve the status page without re-checking
const probeFreshness = 60 * time.Second

// ProbeAll checks the reachability, authentication and version of every
// configured instance. The last result serves repeat requests for a minute
// unless the caller forces a re-check.
func (p *Dashboard) ProbeAll(forceRefresh bool) *api.StatusResponse {
	p.probeMtx.Lock()
	defer p.probeMtx.Unlock()

	if !forceRefresh && p.lastProbe != nil && time.Since(p.lastProbeAt) < probeFreshness {
		zap.L().Sugar().Debugf("Serving probe results from %s ago", time.Since(p.lastProbeAt))
		cached := *p.lastProbe
		cached.RefreshRequested = false
		return &cached
	}

	instances := p.cfg.Instances
	checkedAt := time.Now()
	results := make([]*opsapi.InstanceStatus, len(instances))

	wg := &sync.WaitGroup{}
	syncChannel := make(chan bool, probeParallelLevel)

	for idx, instance := range instances {
		if instance == nil {
			continue
		}
		i, inst := idx, instance
		wg.Add(1)
		go func() {
			defer func() {
				wg.Done()
				<-syncChannel
			}()
			syncChannel <- true
			status := opsmanager.ProbeInstance(inst)
			results[i] = status
			if p.history != nil {
				if err := p.history.Record(status, checkedAt); err != nil {
					zap.L().Sugar().Warnf("Probe history write failed for [%s]: %s", inst.Url, err.Error())
				}
			}
		}()
	}
	wg.Wait()

	resp := &api.StatusResponse{
		Results:          make([]*opsapi.InstanceStatus, 0, len(results)),
		Total:            0,
		CheckTimestamp:   checkedAt.UTC().Format(time.RFC3339),
		RefreshRequested: forceRefresh,
	}
	for _, status := range results {
		if status == nil {
			continue
		}
		resp.Results = append(resp.Results, status)
		resp.Total++
		if status.Accessibility.Status == opsapi.Accessible {
			resp.Accessible++
		}
		if status.Authentication.Status == opsapi.Authenticated {
			resp.Authenticated++
		}
	}
	sort.Slice(resp.Results, func(i, j int) bool {
		a, b := resp.Results[i], resp.Results[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.Environment < b.Environment
	})

	p.lastProbe = resp
	p.lastProbeAt = checkedAt
	return resp
}
