// Package duckdb caches resolved domain descriptors in DuckDB so repeated
// runs over the same numbering files skip decoding and resolution.
package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store is a DuckDB-backed cache of resolved domain descriptors.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the descriptor cache at path, creating the file and its
// directory when needed. An empty path keeps the cache in memory.
func Open(path string) (*Store, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %s: %w", path, err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file, "" for in-memory.
func (s *Store) Path() string {
	return s.path
}

// schemaVersion changes whenever the descriptor encoding does. A cache
// written with another version is dropped on open.
const schemaVersion = "3"

// ensureSchema creates the cache tables, discarding descriptors written
// under a different schema version.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS cache_meta (
		name VARCHAR PRIMARY KEY,
		value VARCHAR
	)`); err != nil {
		return err
	}

	var version string
	err := s.db.QueryRow("SELECT value FROM cache_meta WHERE name='schema_version'").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		if _, err := s.db.Exec("DROP TABLE IF EXISTS domain_cache"); err != nil {
			return fmt.Errorf("drop stale cache: %w", err)
		}
	}

	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS domain_cache (
		key VARCHAR PRIMARY KEY,
		structure VARCHAR,
		chain VARCHAR,
		position BIGINT,
		fold_type VARCHAR,
		refpdbname VARCHAR,
		file_size BIGINT,
		file_mtime BIGINT,
		resolver VARCHAR,
		descriptor VARCHAR,
		cached_at TIMESTAMP
	)`); err != nil {
		return err
	}

	_, err = s.db.Exec("INSERT OR REPLACE INTO cache_meta VALUES ('schema_version', ?)", schemaVersion)
	return err
}
