package opsmanager

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
)

// fakeOpsManager serves a small fixed inventory: one org with two projects,
// the first project holds a replica set with backup and a cluster without,
// the second project holds a sharded cluster (plus its per-shard entry).
func fakeOpsManager(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	reply := func(pattern, body string) {
		mux.HandleFunc(api.PublicApiPrefix+pattern, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		})
	}

	reply("/orgs", `{"results":[
		{"id":"org1","name":"Acme"},
		{"id":"org2","name":"Gone","isDeleted":true}
	],"totalCount":2}`)
	reply("/orgs/org1/groups", `{"results":[
		{"id":"proj1","name":"payments","orgId":"org1"},
		{"id":"proj2","name":"analytics","orgId":"org1"}
	],"totalCount":2}`)
	reply("/groups/proj1/clusters", `{"results":[
		{"id":"c1","clusterName":"payments-cluster","replicaSetName":"payments-rs","lastHeartbeat":"2020-01-01T00:00:00Z"},
		{"id":"c2","clusterName":"scratch","replicaSetName":"scratch-rs"}
	],"totalCount":2}`)
	reply("/groups/proj2/clusters", `{"results":[
		{"id":"c3","clusterName":"events","typeName":"SHARDED_REPLICA_SET"},
		{"id":"c4","clusterName":"events-shard-0","shardName":"sh0"}
	],"totalCount":2}`)
	reply("/groups/proj1/backupConfigs/c1", `{"clusterId":"c1","statusName":"STARTED","username":"backup-user"}`)
	mux.HandleFunc(api.PublicApiPrefix+"/groups/proj1/backupConfigs/c2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	reply("/groups/proj2/backupConfigs/c3", `{"clusterId":"c3","statusName":"STOPPED","username":"backup-user2"}`)

	// host inventory, only the payments cluster has monitored hosts
	mux.HandleFunc(api.PublicApiPrefix+"/groups/proj1/hosts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("clusterId") == "c1" {
			w.Write([]byte(`{"results":[{"id":"h1"},{"id":"h2"}],"totalCount":2}`))
			return
		}
		w.Write([]byte(`{"results":[],"totalCount":0}`))
	})
	reply("/groups/proj2/hosts", `{"results":[],"totalCount":0}`)
	reply("/groups/proj1/hosts/h1", `{"id":"h1","hostname":"db1.example.com","port":27017,"username":"mms-user","replicaSetName":"payments-rs","lastPing":"2020-01-01T00:00:00Z"}`)
	reply("/groups/proj1/hosts/h2", `{"id":"h2","hostname":"db2.example.com","port":27017,"replicaSetName":"payments-rs-shard"}`)

	return httptest.NewServer(mux)
}

func TestBackupRecords(t *testing.T) {
	server := fakeOpsManager(t)
	defer server.Close()

	records, err := testClient(server.URL).BackupRecords()
	require.NoError(t, err)

	// c2 has no backup config, c4 is a per-shard entry: both skipped
	require.Len(t, records, 2)

	byName := map[string]api.BackupRecord{}
	for _, record := range records {
		byName[record.ReplicaSetName] = record
	}

	payments := byName["payments-rs"]
	assert.Equal(t, "payments", payments.Project)
	assert.Equal(t, "backup-user", payments.Username)
	assert.Equal(t, "STARTED", payments.BackupStatus)
	assert.True(t, strings.HasSuffix(payments.LastPing, "days"))
	assert.Equal(t, strings.TrimPrefix(server.URL, "http://"), payments.OpsManager)

	// no replica set name falls back to the cluster name
	events := byName["events"]
	assert.Equal(t, "analytics", events.Project)
	assert.Equal(t, "STOPPED", events.BackupStatus)
}

func TestBackupRecordsOrgListingFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).BackupRecords()
	assert.Error(t, err)
}

func TestMonitoringRecords(t *testing.T) {
	server := fakeOpsManager(t)
	defer server.Close()

	records, err := testClient(server.URL).MonitoringRecords()
	require.NoError(t, err)

	// two hosts of the proj1 replica set, proj2 has no hosts
	require.Len(t, records, 2)

	byHost := map[string]api.MonitoringRecord{}
	for _, record := range records {
		byHost[record.HostPort] = record
	}

	db1 := byHost["db1.example.com:27017"]
	assert.Equal(t, "payments", db1.Project)
	assert.Equal(t, "payments-rs", db1.ReplicaSetName)
	assert.Equal(t, "mms-user", db1.Username)

	// host in a differently named replica set gets the combined name
	db2 := byHost["db2.example.com:27017"]
	assert.Equal(t, "payments-rs-payments-rs-shard", db2.ReplicaSetName)
	assert.Equal(t, "Never", db2.LastPing)
}
