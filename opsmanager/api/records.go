package api

// Dashboard records, one row each. The JSON keys are the column labels the
// presentation layer shows and they also match the on-disk cache files
// written by earlier releases, so they must not change.

const (
	StorageTypeSnapshotBlockstore = "snapshot_blockstore"
	StorageTypeSnapshotS3         = "snapshot_s3"
	StorageTypeOplogStore         = "oplog_store"
	StorageTypeOplogS3            = "oplog_s3"
)

// BackupRecord is one cluster's backup status.
type BackupRecord struct {
	Project        string `json:"Project"`
	ReplicaSetName string `json:"Replica Set Name"`
	OpsManager     string `json:"Ops Manager"`
	Username       string `json:"Username"`
	LastPing       string `json:"Last Ping"`
	BackupStatus   string `json:"Backup Status"`
}

// MonitoringRecord is one monitored host.
type MonitoringRecord struct {
	Project        string `json:"Project"`
	OpsManager     string `json:"Ops Manager"`
	ReplicaSetName string `json:"Replica Set Name"`
	HostPort       string `json:"Hostname:Port"`
	Username       string `json:"Username"`
	LastPing       string `json:"Last Ping"`
}

// StorageRecord is one backup storage configuration. OpsManagerHost keeps
// the lowercase key older cache files used next to the display label.
type StorageRecord struct {
	Type           string `json:"type"`
	Id             string `json:"id"`
	Uri            string `json:"uri,omitempty"`
	BucketName     string `json:"bucket_name,omitempty"`
	OpsManagerHost string `json:"ops_manager"`
	OpsManager     string `json:"Ops Manager"`
}
