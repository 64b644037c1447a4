package history

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/opsmgr-dash/opsmgr-dash/opsmanager/api"
)

const (
	// probes kept per instance, older rows are pruned on insert
	keepPerInstance = 100

	schema = `
CREATE TABLE IF NOT EXISTS probes (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	url            TEXT NOT NULL,
	region         TEXT,
	environment    TEXT,
	accessibility  TEXT NOT NULL,
	authentication TEXT NOT NULL,
	version        TEXT,
	response_time  REAL,
	checked_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS probes_url_idx ON probes (url, id);`
)

// Entry is one recorded probe outcome.
type Entry struct {
	Url            string  `json:"url"`
	Region         string  `json:"region"`
	Environment    string  `json:"environment"`
	Accessibility  string  `json:"accessibility"`
	Authentication string  `json:"authentication"`
	Version        string  `json:"version"`
	ResponseTime   float64 `json:"response_time"`
	CheckedAt      string  `json:"checked_at"`
}

// Store persists probe outcomes into a local sqlite database.
type Store struct {
	db *sql.DB
}

func New(filename string) (*Store, error) {
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open history database %s", filename)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "can't initialize history database %s", filename)
	}
	return &Store{db: db}, nil
}

func (store *Store) Close() error {
	if store == nil || store.db == nil {
		return nil
	}
	return store.db.Close()
}

// Record appends one probe outcome and prunes rows beyond the per-instance
// retention.
func (store *Store) Record(status *api.InstanceStatus, checkedAt time.Time) error {
	if store == nil || status == nil {
		return nil
	}
	_, err := store.db.Exec(
		`INSERT INTO probes (url, region, environment, accessibility, authentication, version, response_time, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		status.Url, status.Region, status.Environment,
		status.Accessibility.Status.String(), status.Authentication.Status.String(),
		status.Version, status.Accessibility.ResponseTime,
		checkedAt.Format(time.RFC3339))
	if err != nil {
		return errors.Wrap(err, "can't record probe outcome")
	}

	_, err = store.db.Exec(
		`DELETE FROM probes WHERE url = ? AND id NOT IN
		 (SELECT id FROM probes WHERE url = ? ORDER BY id DESC LIMIT ?)`,
		status.Url, status.Url, keepPerInstance)
	if err != nil {
		return errors.Wrap(err, "can't prune probe history")
	}
	return nil
}

// Recent returns the newest probe outcomes of one instance, newest first.
func (store *Store) Recent(url string, limit int) ([]Entry, error) {
	if limit < 1 || limit > keepPerInstance {
		limit = keepPerInstance
	}
	rows, err := store.db.Query(
		`SELECT url, region, environment, accessibility, authentication, version, response_time, checked_at
		 FROM probes WHERE url = ? ORDER BY id DESC LIMIT ?`,
		url, limit)
	if err != nil {
		return nil, errors.Wrap(err, "can't query probe history")
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.Url, &entry.Region, &entry.Environment,
			&entry.Accessibility, &entry.Authentication, &entry.Version,
			&entry.ResponseTime, &entry.CheckedAt); err != nil {
			return nil, errors.Wrap(err, "can't read probe history row")
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
