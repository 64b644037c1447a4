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
	opsapi "github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
)

// RPCMonitoringList serves the monitoring dashboard page.
func (p *Dashboard) RPCMonitoringList(ctx *gin.Context) {
	var req api.ListRequest
	if ctx.Request.Method == http.MethodPost {
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
	}
	applySessionSelections(ctx, &req)

	resp := api.MonitoringListResponse{}
	resp.ListResponse = runList(p, &req, cache.Monitoring, false,
		func(instance *config.OpsManagerInstance) ([]opsapi.MonitoringRecord, error) {
			return apiClient(p.cfg, instance).MonitoringRecords()
		})

	resp.UniqueUsernames = uniqueValues(resp.Records,
		func(r opsapi.MonitoringRecord) string { return r.Username })
	resp.UniqueOpsManagers = uniqueValues(resp.Records,
		func(r opsapi.MonitoringRecord) string { return r.OpsManager })

	ctx.JSON(http.StatusOK, &resp)
}
