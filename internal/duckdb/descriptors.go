package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/igalign/internal/catalog"
	"github.com/inodb/igalign/internal/igdomain"
)

// Entry is one cached descriptor without its residue mapping.
type Entry struct {
	Key       string
	Structure string
	Chain     string
	Position  int64
	FoldType  catalog.FoldType
	RefName   string
	FileSize  int64
	CachedAt  time.Time
}

// Put stores d, replacing any previous entry with the same key.
func (s *Store) Put(d *igdomain.Descriptor, fp FileFingerprint) error {
	blob, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode descriptor %s: %w", d.Key, err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO domain_cache
		(key, structure, chain, position, fold_type, refpdbname, file_size, file_mtime, resolver, descriptor, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Key, d.StructureID, d.Chain, int64(d.Position), string(d.FoldType), d.RefName,
		fp.Size, fp.ModTime.UnixNano(), fp.Resolver, string(blob), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store descriptor %s: %w", d.Key, err)
	}
	return nil
}

// PutChain batch-stores every descriptor of a chain with the Appender API.
// Existing entries for the same keys are removed first.
func (s *Store) PutChain(descs []*igdomain.Descriptor, fp FileFingerprint) error {
	if len(descs) == 0 {
		return nil
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	for _, d := range descs {
		if _, err := conn.ExecContext(ctx, "DELETE FROM domain_cache WHERE key=?", d.Key); err != nil {
			return fmt.Errorf("replace descriptor %s: %w", d.Key, err)
		}
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "domain_cache")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	now := time.Now().UTC()
	for _, d := range descs {
		blob, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode descriptor %s: %w", d.Key, err)
		}
		if err := appender.AppendRow(
			d.Key, d.StructureID, d.Chain, int64(d.Position), string(d.FoldType), d.RefName,
			fp.Size, fp.ModTime.UnixNano(), fp.Resolver, string(blob), now,
		); err != nil {
			return fmt.Errorf("append descriptor %s: %w", d.Key, err)
		}
	}

	return appender.Flush()
}

// Get returns the descriptor cached under key. A missing entry, or one
// recorded for a different version of the numbering file or a different
// resolver fingerprint, is a miss.
func (s *Store) Get(key string, fp FileFingerprint) (*igdomain.Descriptor, bool, error) {
	var size, mtime int64
	var resolver, blob string
	err := s.db.QueryRow(
		"SELECT file_size, file_mtime, resolver, descriptor FROM domain_cache WHERE key=?", key,
	).Scan(&size, &mtime, &resolver, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query descriptor %s: %w", key, err)
	}
	if !fp.matches(size, mtime, resolver) {
		return nil, false, nil
	}

	var d igdomain.Descriptor
	if err := json.Unmarshal([]byte(blob), &d); err != nil {
		return nil, false, fmt.Errorf("decode descriptor %s: %w", key, err)
	}
	return &d, true, nil
}

// List returns every cached entry ordered by key.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(`SELECT
		key, structure, chain, position, fold_type, refpdbname, file_size, cached_at
		FROM domain_cache ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list descriptors: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var fold string
		if err := rows.Scan(&e.Key, &e.Structure, &e.Chain, &e.Position, &fold, &e.RefName, &e.FileSize, &e.CachedAt); err != nil {
			return nil, fmt.Errorf("scan descriptor entry: %w", err)
		}
		e.FoldType = catalog.FoldType(fold)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate descriptor entries: %w", err)
	}
	return entries, nil
}

// DeleteStructure removes the entries of one structure and returns how many were removed.
func (s *Store) DeleteStructure(structureID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM domain_cache WHERE structure=?", structureID)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", structureID, err)
	}
	return res.RowsAffected()
}

// Clear removes all cached descriptors.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM domain_cache")
	return err
}
