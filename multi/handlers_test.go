package multi

// Copyright 2024 the opsmgr-dash authors
//
// This file is part of opsmgr-dash.
//
// opsmgr-dash is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, version 2 of the License.
//
// opsmgr-dash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsmgr-dash/opsmgr-dash/cache"
	"github.com/opsmgr-dash/opsmgr-dash/config"
	"github.com/opsmgr-dash/opsmgr-dash/history"
	"github.com/opsmgr-dash/opsmgr-dash/multi/api"
)

func testDashboard(t *testing.T, cfg *config.Config) *Dashboard {
	t.Helper()
	if len(cfg.CacheDir) < 1 {
		cfg.CacheDir = t.TempDir()
	}
	hist, err := history.New(filepath.Join(t.TempDir(), "probes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { hist.Close() })
	return &Dashboard{
		cfg:      cfg,
		store:    cache.NewStore(cfg.CacheDir),
		history:  hist,
		probeMtx: &sync.Mutex{},
	}
}

func testRouter(dashboard *Dashboard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("opsmgr-dash", cookie.NewStore([]byte("test-secret"))))

	router.GET("/v1/sources", dashboard.RPCSources)
	router.POST("/v1/backup", dashboard.RPCBackupList)
	router.POST("/v1/backup-storage", dashboard.RPCStorageList)
	router.GET("/v1/status/history", dashboard.RPCStatusHistory)
	return router
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if len(body) > 0 {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestRPCSources(t *testing.T) {
	dashboard := testDashboard(t, &config.Config{
		Instances: []*config.OpsManagerInstance{
			{Url: "https://om1.example.com", Name: "East OM", Region: "us-east", Environment: "prod", PublicKey: "secret-pub", PrivateKey: "secret-priv"},
			{Url: "https://om2.example.com", Region: "eu-west", Environment: "staging"},
		},
	})

	recorder := performRequest(testRouter(dashboard), http.MethodGet, "/v1/sources", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp api.SourcesResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))

	require.Len(t, resp.Sources, 2)
	assert.Equal(t, "East OM", resp.Sources[0].Name)
	assert.Equal(t, "https://om2.example.com", resp.Sources[1].Name)
	assert.Equal(t, []string{"eu-west", "us-east"}, resp.Regions)
	assert.Equal(t, []string{"prod", "staging"}, resp.Environments)

	// credentials must never show up in the reply
	assert.NotContains(t, recorder.Body.String(), "secret-pub")
	assert.NotContains(t, recorder.Body.String(), "secret-priv")
}

func TestRPCBackupListRefreshNeedsSelection(t *testing.T) {
	dashboard := testDashboard(t, &config.Config{
		Instances: []*config.OpsManagerInstance{
			{Url: "https://om1.example.com", Region: "us-east", Environment: "prod"},
		},
	})

	recorder := performRequest(testRouter(dashboard), http.MethodPost, "/v1/backup",
		`{"force_refresh": true}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp api.BackupListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "Please select regions or environments before refreshing data.", resp.StatusMessage)
	assert.Equal(t, api.StatusWarning, resp.StatusType)
	assert.Len(t, resp.Records, 0)
}

func TestRPCBackupListServedFromCache(t *testing.T) {
	cacheDir := t.TempDir()
	store := cache.NewStore(cacheDir)
	dashboard := testDashboard(t, &config.Config{
		CacheDir: cacheDir,
		Instances: []*config.OpsManagerInstance{
			{Url: "https://om1.example.com", Region: "us-east", Environment: "prod"},
		},
	})

	require.NoError(t, cache.Save(
		[]map[string]string{{"Project": "payments", "Username": "backup-user"}},
		store.PathFor("https://om1.example.com", cache.Backup)))

	recorder := performRequest(testRouter(dashboard), http.MethodPost, "/v1/backup",
		`{"regions": ["us-east"]}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp api.BackupListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Len(t, resp.Records, 1)
	assert.Equal(t, 1, resp.Cached)
	assert.Equal(t, 0, resp.Fetched)
	assert.Empty(t, resp.StatusMessage)
	assert.NotEmpty(t, resp.CacheTimestamp)
	assert.Equal(t, []string{"us-east"}, resp.SelectedRegions)
	assert.Equal(t, []string{"backup-user"}, resp.UniqueUsernames)
}

func TestRPCStorageListGroupsByType(t *testing.T) {
	cacheDir := t.TempDir()
	store := cache.NewStore(cacheDir)
	dashboard := testDashboard(t, &config.Config{
		CacheDir: cacheDir,
		Instances: []*config.OpsManagerInstance{
			{Url: "https://om1.example.com", Region: "us-east", Environment: "prod"},
		},
	})

	require.NoError(t, cache.Save(
		[]map[string]string{
			{"type": "snapshot_blockstore", "id": "b1", "Ops Manager": "om1.example.com"},
			{"type": "snapshot_s3", "id": "s1", "bucket_name": "bucket", "Ops Manager": "om1.example.com"},
			{"type": "oplog_store", "id": "o1", "Ops Manager": "om1.example.com"},
		},
		store.PathFor("https://om1.example.com", cache.BackupStorage)))

	recorder := performRequest(testRouter(dashboard), http.MethodPost, "/v1/backup-storage", `{}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp api.StorageListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Len(t, resp.Records, 3)
	assert.Len(t, resp.SnapshotBlockstores, 1)
	assert.Len(t, resp.SnapshotS3, 1)
	assert.Len(t, resp.OplogStores, 1)
	assert.Len(t, resp.OplogS3, 0)
	assert.Equal(t, []string{"oplog_store", "snapshot_blockstore", "snapshot_s3"}, resp.UniqueStorageTypes)
}

func TestRPCStatusHistory(t *testing.T) {
	dashboard := testDashboard(t, &config.Config{
		Instances: []*config.OpsManagerInstance{
			{Url: "https://om1.example.com"},
		},
	})
	router := testRouter(dashboard)

	t.Run("missing url parameter", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet, "/v1/status/history", "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("unknown instance", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet,
			"/v1/status/history?url=https%3A%2F%2Fnope.example.com", "")
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("known instance with no history", func(t *testing.T) {
		recorder := performRequest(router, http.MethodGet,
			"/v1/status/history?url=https%3A%2F%2Fom1.example.com", "")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"entries":[]`)
	})
}
