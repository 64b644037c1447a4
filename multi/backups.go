package multi

// Copyright 2024 the opsmgr-dash authors
//
// This file is part of opsmgr-dash.
//
// opsmgr-dash is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, version 2 of the License.
//
// opsmgr-dash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opsmgr-dash/opsmgr-dash/cache"
	"github.com/opsmgr-dash/opsmgr-dash/config"
	"github.com/opsmgr-dash/opsmgr-dash/multi/api"
	"github.com/opsmgr-dash/opsmgr-dash/opsmanager"
	opsapi "github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
)

const selectFirstMessage = "Please select regions or environments before refreshing data."

// RPCBackupList serves the backup dashboard page.
func (p *Dashboard) RPCBackupList(ctx *gin.Context) {
	var req api.ListRequest
	if ctx.Request.Method == http.MethodPost {
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
	}
	applySessionSelections(ctx, &req)

	resp := api.BackupListResponse{}
	resp.ListResponse = runList(p, &req, cache.Backup, false,
		func(instance *config.OpsManagerInstance) ([]opsapi.BackupRecord, error) {
			return apiClient(p.cfg, instance).BackupRecords()
		})

	resp.UniqueUsernames = uniqueValues(resp.Records,
		func(r opsapi.BackupRecord) string { return r.Username })
	resp.UniqueBackupStatuses = uniqueValues(resp.Records,
		func(r opsapi.BackupRecord) string { return r.BackupStatus })
	resp.UniqueOpsManagers = uniqueValues(resp.Records,
		func(r opsapi.BackupRecord) string { return r.OpsManager })

	ctx.JSON(http.StatusOK, &resp)
}

func apiClient(cfg *config.Config, instance *config.OpsManagerInstance) *opsmanager.Client {
	return opsmanager.NewClient(instance, cfg.Timeout)
}

// runList is the shared bulk-page flow: resolve the selection, guard the
// empty-selection refresh, aggregate and decorate the reply with the
// selection and the newest snapshot timestamp.
func runList[R any](
	p *Dashboard,
	req *api.ListRequest,
	category cache.Category,
	refreshSelectsAll bool,
	adapter AdapterFunc[R],
) api.ListResponse[R] {
	resp := api.ListResponse[R]{
		Records:              make([]R, 0),
		Errors:               make([]string, 0),
		Regions:              p.cfg.Regions(),
		Environments:         p.cfg.Environments(),
		SelectedRegions:      req.Regions,
		SelectedEnvironments: req.Environments,
	}

	if req.ForceRefresh && len(req.Regions) == 0 && len(req.Environments) == 0 {
		if refreshSelectsAll {
			req.Regions = p.cfg.Regions()
			req.Environments = p.cfg.Environments()
			resp.SelectedRegions = req.Regions
			resp.SelectedEnvironments = req.Environments
		} else {
			resp.StatusMessage = selectFirstMessage
			resp.StatusType = api.StatusWarning
			return resp
		}
	}

	instances := p.cfg.FilterInstances(req.Regions, req.Environments)
	result := Aggregate(p.store, instances, category, bulkParallelLevel, req.ForceRefresh, adapter)

	resp.Records = result.Records
	resp.StatusMessage = result.StatusMessage
	resp.StatusType = result.StatusType
	resp.Fetched = result.Fetched
	resp.Cached = result.Cached
	resp.Errors = result.Errors
	resp.CacheTimestamp = p.LatestCacheTimestamp(instances, category)
	return resp
}
