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

// RPCStorageList serves the backup storage page. Unlike the other pages a
// refresh with no filters selects everything, the storage view is small
// enough to always show the whole fleet.
func (p *Dashboard) RPCStorageList(ctx *gin.Context) {
	var req api.ListRequest
	if ctx.Request.Method == http.MethodPost {
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
	}
	applySessionSelections(ctx, &req)

	resp := api.StorageListResponse{}
	resp.ListResponse = runList(p, &req, cache.BackupStorage, true,
		func(instance *config.OpsManagerInstance) ([]opsapi.StorageRecord, error) {
			return apiClient(p.cfg, instance).StorageRecords()
		})

	resp.SnapshotBlockstores = make([]opsapi.StorageRecord, 0)
	resp.SnapshotS3 = make([]opsapi.StorageRecord, 0)
	resp.OplogStores = make([]opsapi.StorageRecord, 0)
	resp.OplogS3 = make([]opsapi.StorageRecord, 0)
	for _, record := range resp.Records {
		switch record.Type {
		case opsapi.StorageTypeSnapshotBlockstore:
			resp.SnapshotBlockstores = append(resp.SnapshotBlockstores, record)
		case opsapi.StorageTypeSnapshotS3:
			resp.SnapshotS3 = append(resp.SnapshotS3, record)
		case opsapi.StorageTypeOplogStore:
			resp.OplogStores = append(resp.OplogStores, record)
		case opsapi.StorageTypeOplogS3:
			resp.OplogS3 = append(resp.OplogS3, record)
		}
	}

	resp.UniqueStorageTypes = uniqueValues(resp.Records,
		func(r opsapi.StorageRecord) string { return r.Type })
	resp.UniqueOpsManagers = uniqueValues(resp.Records,
		func(r opsapi.StorageRecord) string { return r.OpsManager })

	ctx.JSON(http.StatusOK, &resp)
}
