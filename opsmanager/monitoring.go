package opsmanager

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
)

const (
	// the max number of host detail requests made in parallel per cluster
	hostDetailParallelLevel = 3
)

// MonitoringRecords walks organizations -> projects -> clusters -> hosts and
// produces one record per monitored host. Host details of a cluster are
// fetched in parallel. An error is returned only when the organization
// listing fails, inner failures are logged and skipped.
func (client *Client) MonitoringRecords() ([]api.MonitoringRecord, error) {
	log := zap.L().Sugar()

	orgs, err := client.Organizations()
	if err != nil {
		return nil, err
	}

	records := make([]api.MonitoringRecord, 0)
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
				hosts := client.clusterHosts(project.Id, cluster.Id)
				for _, host := range hosts {
					records = append(records, monitoringRecord(domain, project.Name, &cluster, host))
				}
			}
		}
	}

	return records, nil
}

// clusterHosts fetches the details of every host of a cluster on a small
// worker pool. Hosts that fail to resolve are dropped.
func (client *Client) clusterHosts(projectId, clusterId string) []*api.Host {
	hostIds, err := client.HostIds(projectId, clusterId)
	if err != nil {
		zap.L().Sugar().Debugf("Ops manager [%s] host listing failed for cluster %s: %s",
			client.Instance.Url, clusterId, err.Error())
		return nil
	}

	// fan out the detail requests, keep the listing order
	details := make([]*api.Host, len(hostIds))
	wg := &sync.WaitGroup{}
	syncChannel := make(chan bool, hostDetailParallelLevel)

	for idx, hostId := range hostIds {
		wg.Add(1)
		go func(idx int, hostId string) {
			defer func() {
				wg.Done()
				<-syncChannel
			}()
			syncChannel <- true
			host, err := client.Host(projectId, hostId)
			if err != nil {
				zap.L().Sugar().Debugf("Ops manager [%s] host detail fetch failed for %s: %s",
					client.Instance.Url, hostId, err.Error())
				return
			}
			details[idx] = host
		}(idx, hostId)
	}
	wg.Wait()

	hosts := make([]*api.Host, 0, len(details))
	for _, host := range details {
		if host != nil {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

func monitoringRecord(domain, projectName string, cluster *api.Cluster, host *api.Host) api.MonitoringRecord {
	rsName := cluster.ReplicaSetOrClusterName()
	if len(host.ReplicaSetName) > 0 && host.ReplicaSetName != rsName {
		// hosts can belong to a differently named replica set (sharded setups)
		rsName = rsName + "-" + host.ReplicaSetName
	}

	hostPort := "Unknown"
	if len(host.Hostname) > 0 && host.Port > 0 {
		hostPort = fmt.Sprintf("%s:%d", host.Hostname, host.Port)
	}

	lastPing, _ := PingAge(host.LastPing)
	return api.MonitoringRecord{
		Project:        projectName,
		OpsManager:     domain,
		ReplicaSetName: rsName,
		HostPort:       hostPort,
		Username:       host.Username,
		LastPing:       lastPing,
	}
}
