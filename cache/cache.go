package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/pkg/errors"
)

// Category is the kind of data a snapshot holds, it selects the cache
// subdirectory.
type Category string

const (
	Backup        Category = "backup"
	Monitoring    Category = "monitoring"
	BackupStorage Category = "backup_storage"
)

// String implements Stringer interface
func (c Category) String() string {
	return string(c)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Store keeps one snapshot file per (source, category) under its root
// directory.
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

// PathFor maps a source identity to its snapshot file. Identities that
// sanitize to the same name collide, that is a known and accepted
// limitation.
func (store *Store) PathFor(sourceUrl string, category Category) string {
	safeName := unsafeChars.ReplaceAllString(sourceUrl, "_")
	return filepath.Join(store.Root, category.String(), "cached_"+safeName+".json")
}

// envelope is the on-disk snapshot shape. Files written by earlier releases
// hold the bare record list instead, Load accepts both.
type envelope struct {
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type saveEnvelope[R any] struct {
	Timestamp string `json:"timestamp"`
	Data      []R    `json:"data"`
}

// Load reads a snapshot. The second return value tells whether the file
// exists at all, an existing snapshot with zero records is (empty, true, nil).
func Load[R any](path string) ([]R, bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, errors.Wrapf(err, "can't read cache file %s", path)
	}

	var env envelope
	if err := json.Unmarshal(contents, &env); err == nil && env.Data != nil {
		var records []R
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, true, errors.Wrapf(err, "damaged cache file %s", path)
		}
		return records, true, nil
	}

	// legacy shape: the top level is the record list itself
	var records []R
	if err := json.Unmarshal(contents, &records); err != nil {
		return nil, true, errors.Wrapf(err, "damaged cache file %s", path)
	}
	return records, true, nil
}

// Save writes a snapshot envelope, creating the category directory as
// needed. A failing write is the caller's problem: it must be able to tell
// fetched-and-cached from fetched-only.
func Save[R any](records []R, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "can't create cache directory for %s", path)
	}

	env := saveEnvelope[R]{
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      records,
	}
	contents, err := json.MarshalIndent(&env, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "can't encode cache file %s", path)
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return errors.Wrapf(err, "can't write cache file %s", path)
	}
	return nil
}

// Timestamp returns the save time of a snapshot. Legacy files carry no
// timestamp, those and missing files return ("", false).
func (store *Store) Timestamp(path string) (string, bool) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var env envelope
	if err := json.Unmarshal(contents, &env); err != nil || len(env.Timestamp) < 1 {
		return "", false
	}
	return env.Timestamp, true
}

// Exists tells whether a snapshot file is present (it may still hold zero
// records).
func (store *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Invalidate removes a snapshot file, missing files are a no-op.
func (store *Store) Invalidate(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "can't remove cache file %s", path)
	}
	return nil
}
