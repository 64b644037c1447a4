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

	"github.com/opsmgr-dash/opsmgr-dash/multi/api"
)

const historyPageSize = 20

// RPCStatus serves the fleet status page. A GET returns the recent probe
// results (re-probing only when they went stale), a POST with refresh=true
// forces a full re-check.
func (p *Dashboard) RPCStatus(ctx *gin.Context) {
	var req api.StatusRequest
	if ctx.Request.Method == http.MethodPost {
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
	}

	ctx.JSON(http.StatusOK, p.ProbeAll(req.Refresh))
}

// RPCStatusHistory returns the recent persisted probe outcomes of one
// instance.
func (p *Dashboard) RPCStatusHistory(ctx *gin.Context) {
	url := ctx.Query("url")
	if len(url) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}
	if p.cfg.InstanceByUrl(url) == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown instance url"})
		return
	}
	if p.history == nil {
		ctx.JSON(http.StatusOK, gin.H{"url": url, "entries": []interface{}{}})
		return
	}

	entries, err := p.history.Recent(url, historyPageSize)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"url": url, "entries": entries})
}
