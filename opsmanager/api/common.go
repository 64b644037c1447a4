package api

// The Ops Manager public API wraps every list reply into a `results` envelope.
// Each endpoint gets its own typed envelope here, the way the upstream
// documents them.

const (
	// PublicApiPrefix is the URL prefix of the Ops Manager public REST API
	PublicApiPrefix = "/api/public/v1.0"

	// VersionHeader carries the service version on every reply
	VersionHeader = "X-MongoDB-Service-Version"
)

type Organization struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"isDeleted"`
}

type OrganizationsResponse struct {
	Results    []Organization `json:"results"`
	TotalCount int            `json:"totalCount"`
}

type Project struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	OrgId string `json:"orgId"`
}

type ProjectsResponse struct {
	Results    []Project `json:"results"`
	TotalCount int       `json:"totalCount"`
}

type Cluster struct {
	Id             string `json:"id"`
	ClusterName    string `json:"clusterName"`
	ReplicaSetName string `json:"replicaSetName"`
	// ShardName is only present on the per-shard entries of sharded
	// clusters, those are skipped by the backup scrape
	ShardName     string `json:"shardName,omitempty"`
	TypeName      string `json:"typeName,omitempty"`
	LastHeartbeat string `json:"lastHeartbeat,omitempty"`
}

type ClustersResponse struct {
	Results    []Cluster `json:"results"`
	TotalCount int       `json:"totalCount"`
}

// ReplicaSetOrClusterName prefers the replica set name and falls back to the
// cluster name.
func (cluster *Cluster) ReplicaSetOrClusterName() string {
	if len(cluster.ReplicaSetName) > 0 {
		return cluster.ReplicaSetName
	}
	return cluster.ClusterName
}

type Host struct {
	Id             string `json:"id"`
	Hostname       string `json:"hostname"`
	Port           int    `json:"port"`
	Username       string `json:"username"`
	ReplicaSetName string `json:"replicaSetName"`
	LastPing       string `json:"lastPing"`
}

type HostsResponse struct {
	Results    []Host `json:"results"`
	TotalCount int    `json:"totalCount"`
}

type BackupConfig struct {
	ClusterId         string `json:"clusterId"`
	StatusName        string `json:"statusName"`
	Username          string `json:"username"`
	EncryptionEnabled bool   `json:"encryptionEnabled"`
	SslEnabled        bool   `json:"sslEnabled"`
}

// StorageConfig is one backup storage definition from the admin API, the
// same shape is used by the blockstore, S3 and oplog variants.
type StorageConfig struct {
	Id           string `json:"id"`
	Uri          string `json:"uri,omitempty"`
	S3BucketName string `json:"s3BucketName,omitempty"`
}

type StorageConfigsResponse struct {
	Results    []StorageConfig `json:"results"`
	TotalCount int             `json:"totalCount"`
}
