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
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/multi/api"
)

const (
	sessionKeyRegions      = "selected_regions"
	sessionKeyEnvironments = "selected_environments"

	// placeholder shown for records with a blank or literal "null" value
	noneValue = "NONE"
)

// applySessionSelections fills an empty region/environment selection from
// the cookie session and saves a non-empty one back, so the next request
// without filters lands on the same view. Selections travel as
// comma-joined strings to keep the cookie codec simple.
func applySessionSelections(ctx *gin.Context, req *api.ListRequest) {
	session := sessions.Default(ctx)

	if len(req.Regions) == 0 {
		req.Regions = splitSelection(session.Get(sessionKeyRegions))
	}
	if len(req.Environments) == 0 {
		req.Environments = splitSelection(session.Get(sessionKeyEnvironments))
	}

	session.Set(sessionKeyRegions, strings.Join(req.Regions, ","))
	session.Set(sessionKeyEnvironments, strings.Join(req.Environments, ","))
	if err := session.Save(); err != nil {
		// a lost cookie only costs the sticky filters, not the reply
		zap.L().Sugar().Warnf("Session save failed: %s", err.Error())
	}
}

func splitSelection(value interface{}) []string {
	str, ok := value.(string)
	if !ok || len(str) == 0 {
		return nil
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(str, ",") {
		if trimmed := strings.TrimSpace(part); len(trimmed) > 0 {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// uniqueValues collects the distinct values for a filter dropdown. Blank
// and literal "null" entries collapse into the NONE placeholder, the
// result is sorted.
func uniqueValues[R any](records []R, value func(R) string) []string {
	seen := make(map[string]bool)
	for _, record := range records {
		seen[normalizeValue(value(record))] = true
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func normalizeValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 || strings.EqualFold(trimmed, "null") {
		return noneValue
	}
	return trimmed
}
