package opsmanager

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
)

// the four admin backup storage endpoints, one per storage kind
var storageEndpoints = []struct {
	kind     string
	endpoint string
	isS3     bool
}{
	{api.StorageTypeSnapshotBlockstore, "/admin/backup/snapshot/mongoConfigs?assignableOnly=false", false},
	{api.StorageTypeSnapshotS3, "/admin/backup/snapshot/s3Configs?assignableOnly=false", true},
	{api.StorageTypeOplogStore, "/admin/backup/oplog/mongoConfigs?assignableOnly=false", false},
	{api.StorageTypeOplogS3, "/admin/backup/oplog/s3Configs?assignableOnly=false", true},
}

// StorageRecords collects the backup storage configurations from the four
// admin endpoints (snapshot blockstore, snapshot S3, oplog store, oplog S3).
// A failing endpoint is logged and skipped, an error is returned only when
// every endpoint failed and nothing was collected.
func (client *Client) StorageRecords() ([]api.StorageRecord, error) {
	log := zap.L().Sugar()

	hostname := HostnameOf(client.Instance.Url)
	records := make([]api.StorageRecord, 0)
	failed := 0
	var lastErr error

	for _, storage := range storageEndpoints {
		var resp api.StorageConfigsResponse
		if err := client.Get(storage.endpoint, &resp); err != nil {
			log.Warnf("Ops manager [%s] %s config fetch failed: %s",
				client.Instance.Url, storage.kind, err.Error())
			failed++
			lastErr = err
			continue
		}
		for _, item := range resp.Results {
			record := api.StorageRecord{
				Type:           storage.kind,
				Id:             item.Id,
				Uri:            item.Uri,
				OpsManagerHost: hostname,
				OpsManager:     hostname,
			}
			if storage.isS3 {
				record.BucketName = item.S3BucketName
				if len(record.BucketName) < 1 {
					record.BucketName = "N/A"
				}
			}
			records = append(records, record)
		}
	}

	if len(records) < 1 && failed == len(storageEndpoints) {
		return nil, fmt.Errorf("all backup storage endpoints failed, last error: %s", lastErr.Error())
	}

	return records, nil
}
