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

	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/cache"
	"github.com/opsmgr-dash/opsmgr-dash/config"
)

// AdapterFunc fetches the records of one category from one instance. An
// empty slice with a nil error means "reachable, nothing to report" and is
// a perfectly fine result.
type AdapterFunc[R any] func(instance *config.OpsManagerInstance) ([]R, error)

// Outcome is the per-source result of one fetch-or-cache decision.
type Outcome[R any] struct {
	Records []R
	Fetched int
	Cached  int
	// Err is empty on success. It is a display string because it ends up
	// on the dashboard banner as-is.
	Err string
}

// fetchOne decides for a single instance whether the snapshot can serve the
// request or the adapter has to go out. It never panics past its boundary:
// anything unexpected becomes a failure outcome tagged with the instance
// URL.
func fetchOne[R any](
	store *cache.Store,
	instance *config.OpsManagerInstance,
	category cache.Category,
	forceRefresh bool,
	adapter AdapterFunc[R],
) (outcome Outcome[R]) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome[R]{
				Records: make([]R, 0),
				Err:     fmt.Sprintf("%s: Unexpected error: %v", instance.Url, r),
			}
		}
	}()

	log := zap.L().Sugar()
	path := store.PathFor(instance.Url, category)

	cached, present, err := cache.Load[R](path)
	if err != nil {
		// a damaged snapshot must not block the fetch, treat it as absent
		log.Warnf("Ignoring unreadable cache for [%s] %s: %s", instance.Url, category, err.Error())
		cached, present = nil, false
	}

	if !forceRefresh && present {
		// cache hit short-circuits network access entirely, an empty
		// snapshot included
		log.Debugf("Using cached %s data for [%s] (%d records)", category, instance.Url, len(cached))
		return Outcome[R]{Records: cached, Cached: len(cached)}
	}

	if forceRefresh && present {
		// clear-before-fetch: a forced refresh must not leave a stale
		// snapshot behind when the fetch fails
		if err := store.Invalidate(path); err != nil {
			log.Warnf("Cache invalidation failed for [%s] %s: %s", instance.Url, category, err.Error())
		}
	}

	log.Debugf("Fetching %s data from API for [%s] (force=%v, had_cache=%v)",
		category, instance.Url, forceRefresh, present)

	fresh, err := adapter(instance)
	if err != nil {
		errMsg := fmt.Sprintf("%s: Failed to fetch %s data from %s: %s",
			instance.Label(), category, instance.Url, err.Error())
		if present {
			// the snapshot captured above still serves, even though it was
			// just invalidated on disk
			return Outcome[R]{
				Records: cached,
				Cached:  len(cached),
				Err:     errMsg + " (using cache)",
			}
		}
		return Outcome[R]{Records: make([]R, 0), Err: errMsg}
	}

	if err := cache.Save(fresh, path); err != nil {
		// fetched-but-not-cached: the data is still good for this request,
		// the next one will fetch again
		log.Warnf("Data retrieved but caching failed for [%s] %s: %s", instance.Url, category, err.Error())
	} else {
		log.Debugf("Cached %d %s records for [%s]", len(fresh), category, instance.Url)
	}

	if fresh == nil {
		fresh = make([]R, 0)
	}
	return Outcome[R]{Records: fresh, Fetched: len(fresh)}
}
