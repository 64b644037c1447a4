package multi

// Copyright 2024 the opsmgr-dash authors
//
// This file is part of opsmgr-dash.
//
// opsmgr-dash is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, version 2 of the License.
//
// opsmgr-dash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.

import (
	"sync"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/cache"
	"github.com/opsmgr-dash/opsmgr-dash/config"
	"github.com/opsmgr-dash/opsmgr-dash/multi/api"
)

// Result is the merged outcome of one aggregation run. Records are in
// completion order on the concurrent path and in list order on the
// sequential one, callers must not depend on source order either way.
type Result[R any] struct {
	Records       []R
	StatusMessage string
	StatusType    api.StatusType
	Fetched       int
	Cached        int
	Errors        []string
}

// Aggregate drives the per-source fetch policy across the selected
// instances. A forced refresh or two and more missing snapshots take the
// concurrent path, a mostly-warm cache is served by a plain loop (the pool
// is not worth it for a single cold source).
func Aggregate[R any](
	store *cache.Store,
	instances []*config.OpsManagerInstance,
	category cache.Category,
	maxWorkers int,
	forceRefresh bool,
	adapter AdapterFunc[R],
) Result[R] {
	runId := xid.New().String()
	log := zap.L().Sugar()

	concurrent := useConcurrentPath(store, instances, category, forceRefresh)
	log.Debugf("Aggregation %s: %d instances, category %s, force=%v, concurrent=%v",
		runId, len(instances), category, forceRefresh, concurrent)

	var outcomes <-chan Outcome[R]
	if concurrent {
		outcomes = fetchConcurrent(store, instances, category, maxWorkers, forceRefresh, adapter)
	} else {
		outcomes = fetchSequential(store, instances, category, forceRefresh, adapter)
	}

	// single accumulation point: the drain loop below is the only writer of
	// the merged result
	result := Result[R]{
		Records: make([]R, 0),
		Errors:  make([]string, 0),
	}
	for outcome := range outcomes {
		result.Records = append(result.Records, outcome.Records...)
		result.Fetched += outcome.Fetched
		result.Cached += outcome.Cached
		if len(outcome.Err) > 0 {
			result.Errors = append(result.Errors, outcome.Err)
		}
	}

	result.StatusMessage, result.StatusType = Narrate(
		forceRefresh, len(instances), result.Fetched, result.Cached, result.Errors)

	log.Debugf("Aggregation %s done: %d records, fetched %d, cached %d, %d errors",
		runId, len(result.Records), result.Fetched, result.Cached, len(result.Errors))

	return result
}

// useConcurrentPath counts the instances with no snapshot on disk for the
// category. A forced refresh always parallelizes (everything will hit the
// network anyway), otherwise the pool pays off from two cold sources up.
func useConcurrentPath(store *cache.Store, instances []*config.OpsManagerInstance, category cache.Category, forceRefresh bool) bool {
	if forceRefresh {
		return true
	}
	missing := 0
	for _, instance := range instances {
		if instance == nil {
			continue
		}
		if !store.Exists(store.PathFor(instance.Url, category)) {
			missing++
		}
	}
	return missing >= 2
}

// fetchConcurrent runs the fetch policy on a fixed-size worker pool. The
// returned channel yields the outcomes in completion order and is closed
// once every instance reported.
func fetchConcurrent[R any](
	store *cache.Store,
	instances []*config.OpsManagerInstance,
	category cache.Category,
	maxWorkers int,
	forceRefresh bool,
	adapter AdapterFunc[R],
) <-chan Outcome[R] {
	outcomes := make(chan Outcome[R], len(instances))

	wg := &sync.WaitGroup{}
	syncChannel := make(chan bool, maxWorkers)

	for _, instance := range instances {
		if instance == nil {
			continue
		}
		inst := instance
		wg.Add(1)
		go func() {
			defer func() {
				wg.Done()
				<-syncChannel
			}()
			syncChannel <- true
			outcomes <- fetchOne(store, inst, category, forceRefresh, adapter)
		}()
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	return outcomes
}

// fetchSequential is the behavioral twin of fetchConcurrent without the
// pool: same per-source policy, same accumulation semantics, list order.
func fetchSequential[R any](
	store *cache.Store,
	instances []*config.OpsManagerInstance,
	category cache.Category,
	forceRefresh bool,
	adapter AdapterFunc[R],
) <-chan Outcome[R] {
	outcomes := make(chan Outcome[R], len(instances))
	for _, instance := range instances {
		if instance == nil {
			continue
		}
		outcomes <- fetchOne(store, instance, category, forceRefresh, adapter)
	}
	close(outcomes)
	return outcomes
}
