package opsmanager

import (
	"fmt"

	"github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
)

// Organizations lists the not-deleted organizations.
func (client *Client) Organizations() ([]api.Organization, error) {
	var resp api.OrganizationsResponse
	if err := client.Get("/orgs", &resp); err != nil {
		return nil, err
	}
	orgs := make([]api.Organization, 0, len(resp.Results))
	for _, org := range resp.Results {
		if org.IsDeleted {
			continue
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

// Projects lists the projects (groups) of an organization.
func (client *Client) Projects(orgId string) ([]api.Project, error) {
	var resp api.ProjectsResponse
	if err := client.Get(fmt.Sprintf("/orgs/%s/groups", orgId), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Clusters lists the clusters of a project. Per-shard entries (the ones
// carrying a shardName) are dropped, only the top level clusters remain.
func (client *Client) Clusters(projectId string) ([]api.Cluster, error) {
	var resp api.ClustersResponse
	if err := client.Get(fmt.Sprintf("/groups/%s/clusters", projectId), &resp); err != nil {
		return nil, err
	}
	clusters := make([]api.Cluster, 0, len(resp.Results))
	for _, cluster := range resp.Results {
		if len(cluster.ShardName) > 0 {
			continue
		}
		clusters = append(clusters, cluster)
	}
	return clusters, nil
}

// BackupConfig fetches the backup configuration of one cluster. Clusters
// without backup configured reply 404, that is returned as (nil, nil).
func (client *Client) BackupConfig(projectId, clusterId string) (*api.BackupConfig, error) {
	var resp api.BackupConfig
	err := client.Get(fmt.Sprintf("/groups/%s/backupConfigs/%s", projectId, clusterId), &resp)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// HostIds lists the host ids of one cluster.
func (client *Client) HostIds(projectId, clusterId string) ([]string, error) {
	var resp api.HostsResponse
	if err := client.Get(fmt.Sprintf("/groups/%s/hosts?clusterId=%s", projectId, clusterId), &resp); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resp.Results))
	for _, host := range resp.Results {
		if len(host.Id) > 0 {
			ids = append(ids, host.Id)
		}
	}
	return ids, nil
}

// Host fetches the details of one host.
func (client *Client) Host(projectId, hostId string) (*api.Host, error) {
	var resp api.Host
	if err := client.Get(fmt.Sprintf("/groups/%s/hosts/%s", projectId, hostId), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
