package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
	"howett.net/plist"
	_ "modernc.org/sqlite"
)

// snapshotKey is the single well-known key the state blob lives under.
const snapshotKey = "statbar.state"

// Persister stores the serialized snapshot as one keyed row in SQLite. It
// remembers the digest of the last written payload so the save-on-every-
// mutation policy does not rewrite an unchanged blob.
type Persister struct {
	db         *sql.DB
	legacyPath string

	mu         sync.Mutex
	lastDigest uint64
	haveDigest bool
}

// OpenPersister opens (or creates) the state database at path.
// legacyPlistPath optionally names a plist export of the original menu-bar
// app's defaults, imported once when the database has no snapshot yet.
func OpenPersister(path, legacyPlistPath string) (*Persister, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open state db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Persister{db: db, legacyPath: legacyPlistPath}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    key        TEXT PRIMARY KEY,
    payload    BLOB NOT NULL,
    digest     TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

// Save serializes the snapshot and upserts it under the well-known key,
// skipping the write when the payload digest matches the last one written.
func (p *Persister) Save(s Snapshot) error {
	if p == nil {
		return nil
	}
	payload, err := encodeSnapshot(s)
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	digest := xxh3.Hash(payload)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.haveDigest && digest == p.lastDigest {
		return nil
	}
	_, err = p.db.Exec(`
INSERT INTO snapshots (key, payload, digest, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    payload = excluded.payload,
    digest = excluded.digest,
    updated_at = excluded.updated_at`,
		snapshotKey, payload, strconv.FormatUint(digest, 16), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: save snapshot: %w", err)
	}
	p.lastDigest = digest
	p.haveDigest = true
	return nil
}

// Load reads and decodes the stored snapshot. A missing row falls back to
// the legacy plist import when one is configured. ok is false when nothing
// usable exists; per the degradation policy a corrupt blob is reported as
// absent alongside the error so the caller can fall back to defaults.
func (p *Persister) Load() (Snapshot, bool, error) {
	if p == nil {
		return Snapshot{}, false, nil
	}
	var payload []byte
	err := p.db.QueryRow(`SELECT payload FROM snapshots WHERE key = ?`, snapshotKey).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return p.loadLegacy()
	case err != nil:
		return Snapshot{}, false, fmt.Errorf("store: load snapshot: %w", err)
	}

	s, err := decodeSnapshot(payload)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("store: decode snapshot: %w", err)
	}
	p.mu.Lock()
	p.lastDigest = xxh3.Hash(payload)
	p.haveDigest = true
	p.mu.Unlock()
	return s, true, nil
}

// loadLegacy imports a plist defaults export of the same logical shape.
func (p *Persister) loadLegacy() (Snapshot, bool, error) {
	if p.legacyPath == "" {
		return Snapshot{}, false, nil
	}
	data, err := os.ReadFile(p.legacyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("store: read legacy plist: %w", err)
	}
	var s Snapshot
	if _, err := plist.Unmarshal(data, &s); err != nil {
		return Snapshot{}, false, fmt.Errorf("store: decode legacy plist: %w", err)
	}
	return s, true, nil
}

func (p *Persister) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
