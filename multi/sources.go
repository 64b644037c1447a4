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

// RPCSources lists the configured instances for the selection dropdowns.
// Credentials never leave the server.
func (p *Dashboard) RPCSources(ctx *gin.Context) {
	resp := api.SourcesResponse{
		Sources:      make([]api.SourceOption, 0, len(p.cfg.Instances)),
		Regions:      p.cfg.Regions(),
		Environments: p.cfg.Environments(),
	}
	for _, instance := range p.cfg.Instances {
		if instance == nil {
			continue
		}
		resp.Sources = append(resp.Sources, api.SourceOption{
			Name:        instance.DisplayName(),
			Url:         instance.Url,
			Region:      instance.Region,
			Environment: instance.Environment,
		})
	}
	ctx.JSON(http.StatusOK, &resp)
}
