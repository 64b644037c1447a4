package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Project string `json:"Project"`
	Status  string `json:"Backup Status"`
}

func TestPathFor(t *testing.T) {
	store := NewStore("/tmp/cache-root")

	path := store.PathFor("https://opsmanager.example.com:8080", Backup)
	assert.Equal(t,
		filepath.Join("/tmp/cache-root", "backup", "cached_https___opsmanager_example_com_8080.json"),
		path)

	// same sanitized name regardless of category directory
	assert.NotEqual(t, path, store.PathFor("https://opsmanager.example.com:8080", Monitoring))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	path := store.PathFor("https://om.example.com", Backup)

	records := []row{
		{Project: "payments", Status: "STARTED"},
		{Project: "billing", Status: "STOPPED"},
	}
	require.NoError(t, Save(records, path))

	loaded, found, err := Load[row](path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, records, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())

	records, found, err := Load[row](store.PathFor("https://nope.example.com", Backup))
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, records)
}

func TestLoadEmptySnapshotIsAHit(t *testing.T) {
	store := NewStore(t.TempDir())
	path := store.PathFor("https://om.example.com", Monitoring)

	require.NoError(t, Save([]row{}, path))

	records, found, err := Load[row](path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, records, 0)
}

func TestLoadLegacyBareList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cached_legacy.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"Project":"legacy","Backup Status":"STARTED"}]`), 0644))

	records, found, err := Load[row](path)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, records, 1)
	assert.Equal(t, "legacy", records[0].Project)

	// legacy files carry no timestamp
	store := NewStore(dir)
	_, ok := store.Timestamp(path)
	assert.False(t, ok)
}

func TestLoadDamagedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cached_broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timestamp": "x", "data": 42}`), 0644))

	_, found, err := Load[row](path)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestTimestamp(t *testing.T) {
	store := NewStore(t.TempDir())
	path := store.PathFor("https://om.example.com", Backup)

	_, ok := store.Timestamp(path)
	assert.False(t, ok)

	before := time.Now().Add(-time.Second)
	require.NoError(t, Save([]row{{Project: "p"}}, path))

	stamp, ok := store.Timestamp(path)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339, stamp)
	require.NoError(t, err)
	assert.False(t, parsed.Before(before.Truncate(time.Second)))
	assert.False(t, parsed.After(time.Now().Add(time.Second)))
}

func TestInvalidate(t *testing.T) {
	store := NewStore(t.TempDir())
	path := store.PathFor("https://om.example.com", BackupStorage)

	// missing file is a no-op
	assert.NoError(t, store.Invalidate(path))

	require.NoError(t, Save([]row{{Project: "p"}}, path))
	assert.True(t, store.Exists(path))

	assert.NoError(t, store.Invalidate(path))
	assert.False(t, store.Exists(path))
}
