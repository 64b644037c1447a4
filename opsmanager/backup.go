package opsmanager

import (
	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
)

// BackupRecords walks organizations -> projects -> clusters and pairs every
// cluster with its backup configuration. Clusters without a backup config
// are left out, a project or organization that fails to enumerate is logged
// and skipped. An error is returned only when the instance can't be talked
// to at all (the organization listing fails).
func (client *Client) BackupRecords() ([]api.BackupRecord, error) {
	log := zap.L().Sugar()

	orgs, err := client.Organizations()
	if err != nil {
		return nil, err
	}

	records := make([]api.BackupRecord, 0)
	domain := DomainOf(client.Instance.Url)

	for _, org := range orgs {
		projects, err := client.Projects(org.Id)
		if err != nil {
			log.Warnf("Ops manager [%s] project listing failed for org %s: %s",
				client.Instance.Url, org.Name, err.Error())
			continue
		}
		for _, project := range projects {
			clusters, err := client.Clusters(project.Id)
			if err != nil {
				log.Warnf("Ops manager [%s] cluster listing failed for project %s: %s",
					client.Instance.Url, project.Name, err.Error())
				continue
			}
			for _, cluster := range clusters {
				backupConfig, err := client.BackupConfig(project.Id, cluster.Id)
				if err != nil {
					log.Debugf("Ops manager [%s] backup config fetch failed for cluster %s: %s",
						client.Instance.Url, cluster.Id, err.Error())
					continue
				}
				if backupConfig == nil {
					// backup was never configured for this cluster
					continue
				}
				lastPing, _ := PingAge(cluster.LastHeartbeat)
				records = append(records, api.BackupRecord{
					Project:        project.Name,
					ReplicaSetName: cluster.ReplicaSetOrClusterName(),
					OpsManager:     domain,
					Username:       backupConfig.Username,
					LastPing:       lastPing,
					BackupStatus:   backupConfig.StatusName,
				})
			}
		}
	}

	return records, nil
}
