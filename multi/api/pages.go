package api

import (
	opsapi "github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
)

// BackupListResponse adds the filter dropdown values of the backup page.
type BackupListResponse struct {
	ListResponse[opsapi.BackupRecord]
	UniqueUsernames      []string `json:"unique_usernames"`
	UniqueBackupStatuses []string `json:"unique_backup_statuses"`
	UniqueOpsManagers    []string `json:"unique_ops_managers"`
}

// MonitoringListResponse adds the filter dropdown values of the monitoring
// page.
type MonitoringListResponse struct {
	ListResponse[opsapi.MonitoringRecord]
	UniqueUsernames   []string `json:"unique_usernames"`
	UniqueOpsManagers []string `json:"unique_ops_managers"`
}

// StorageListResponse groups the storage records by kind the way the page
// renders them, next to the flat list.
type StorageListResponse struct {
	ListResponse[opsapi.StorageRecord]
	SnapshotBlockstores []opsapi.StorageRecord `json:"snapshot_blockstore_data"`
	SnapshotS3          []opsapi.StorageRecord `json:"snapshot_s3_data"`
	OplogStores         []opsapi.StorageRecord `json:"oplog_store_data"`
	OplogS3             []opsapi.StorageRecord `json:"oplog_s3_data"`
	UniqueStorageTypes  []string               `json:"unique_storage_types"`
	UniqueOpsManagers   []string               `json:"unique_ops_managers"`
}

// SourceOption is one dropdown entry, credentials stay server side.
type SourceOption struct {
	Name        string `json:"name"`
	Url         string `json:"url"`
	Region      string `json:"region,omitempty"`
	Environment string `json:"environment,omitempty"`
}

type SourcesResponse struct {
	Sources      []SourceOption `json:"sources"`
	Regions      []string       `json:"regions"`
	Environments []string       `json:"environments"`
}

type StatusRequest struct {
	Refresh bool `json:"refresh"`
}

// StatusResponse is the fleet probe summary.
type StatusResponse struct {
	Results          []*opsapi.InstanceStatus `json:"status_results"`
	Total            int                      `json:"total_ops_managers"`
	Accessible       int                      `json:"accessible_count"`
	Authenticated    int                      `json:"authenticated_count"`
	CheckTimestamp   string                   `json:"check_timestamp"`
	RefreshRequested bool                     `json:"refresh_requested"`
}
