package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"freedesktop.org/appstream/models"
)

// schemaVersion is the on-disk cache schema revision. Readers refuse any
// other version instead of misparsing it; the caller then rebuilds.
const schemaVersion = 1

// Store is the read side of the on-disk component cache, a SQLite
// database holding the merged pool.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens an existing cache database and verifies its schema version.
// A missing file returns fs.ErrNotExist; an incompatible schema returns
// ErrVersionMismatch. Both mean "rebuild", neither is fatal.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no cache at %s: %w", path, fs.ErrNotExist)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, path: path}
	version, err := s.infoValue("schema_version")
	if err != nil {
		_ = db.Close()
		// Unreadable metadata is indistinguishable from a foreign
		// format; refuse it like a version mismatch.
		return nil, fmt.Errorf("%w: cannot read schema version: %v", ErrVersionMismatch, err)
	}
	if v, err := strconv.Atoi(version); err != nil || v != schemaVersion {
		_ = db.Close()
		return nil, fmt.Errorf("%w: on-disk version %q, want %d", ErrVersionMismatch, version, schemaVersion)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) infoValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM cache_info WHERE key = ?`, key).Scan(&value)
	return value, err
}

// CreatedAt returns when the cache was written.
func (s *Store) CreatedAt() (time.Time, error) {
	v, err := s.infoValue("created_at")
	if err != nil {
		return time.Time{}, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(n, 0), nil
}

// Count returns the number of cached components.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM components`).Scan(&n)
	return n, err
}

// LoadAll reads every cached component. Source kind is stored in its own
// column because it is not part of the serialized document.
func (s *Store) LoadAll() ([]*models.Component, error) {
	rows, err := s.db.Query(`SELECT id, source_kind, doc FROM components ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("reading cached components: %w", err)
	}
	defer rows.Close()

	var out []*models.Component
	for rows.Next() {
		var id, doc string
		var sourceKind int
		if err := rows.Scan(&id, &sourceKind, &doc); err != nil {
			return nil, err
		}
		var c models.Component
		if err := json.Unmarshal([]byte(doc), &c); err != nil {
			return nil, fmt.Errorf("corrupt cached component %s: %w", id, err)
		}
		c.Source = models.SourceKind(sourceKind)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cache_info (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS components (
			id          TEXT PRIMARY KEY,
			source_kind INTEGER NOT NULL,
			doc         TEXT NOT NULL
		);
	`)
	return err
}

// Write persists a merged pool atomically: the database is built in a
// temp file next to the target and renamed into place, so readers of the
// previous cache never observe a partial write.
func Write(path string, components []*models.Component) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmp := path + ".tmp-" + uuid.New().String()
	if err := writeDatabase(tmp, components); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func writeDatabase(path string, components []*models.Component) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer db.Close()

	if err := initSchema(db); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	tx, err := db.Begin()
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer tx.Rollback()

	info := map[string]string{
		"schema_version": strconv.Itoa(schemaVersion),
		"created_at":     strconv.FormatInt(time.Now().Unix(), 10),
	}
	for key, value := range info {
		if _, err := tx.Exec(`INSERT INTO cache_info (key, value) VALUES (?, ?)`, key, value); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO components (id, source_kind, doc) VALUES (?, ?, ?)`)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer stmt.Close()
	for _, c := range components {
		doc, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("serializing component %s: %w", c.ID, err)
		}
		if _, err := stmt.Exec(c.ID, int(c.Source), string(doc)); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
