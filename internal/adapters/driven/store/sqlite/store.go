// Package sqlite persists snapshots of the remote OSM tables so
// searches can run offline. Each snapshot replaces the previous rows
// for its type; the stored rows are re-served through the same source
// querier port the REST adapters implement.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/paritel/osm-search/internal/core/domain"
	"github.com/paritel/osm-search/internal/core/ports/driven"
	"github.com/paritel/osm-search/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	type       TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	records    INTEGER NOT NULL,
	taken_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_records (
	type       TEXT NOT NULL,
	record_id  TEXT NOT NULL,
	searchable TEXT NOT NULL,
	payload    TEXT NOT NULL,
	PRIMARY KEY (type, record_id)
);

CREATE INDEX IF NOT EXISTS idx_snapshot_records_type ON snapshot_records(type);
`

// Store is the SQLite-backed snapshot store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a snapshot store at the specified data directory.
// If dataDir is empty, defaults to ~/.osm-search/data/snapshot.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".osm-search", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "snapshot.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save stores records as the current snapshot for t, replacing any
// previous snapshot of that type in one transaction.
func (s *Store) Save(ctx context.Context, t domain.ResultType, records []domain.RawRecord) (driven.SnapshotInfo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return driven.SnapshotInfo{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_records WHERE type = ?`, string(t)); err != nil {
		return driven.SnapshotInfo{}, fmt.Errorf("clearing previous snapshot: %w", err)
	}

	stored := 0
	for _, rec := range records {
		id := recordID(rec)
		if id == "" {
			logger.Warn("Snapshot %s: skipping record without id", t)
			continue
		}

		payload, err := json.Marshal(rec)
		if err != nil {
			return driven.SnapshotInfo{}, fmt.Errorf("encoding record %s: %w", id, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO snapshot_records (type, record_id, searchable, payload) VALUES (?, ?, ?, ?)`,
			string(t), id, searchableText(rec), string(payload))
		if err != nil {
			return driven.SnapshotInfo{}, fmt.Errorf("inserting record %s: %w", id, err)
		}
		stored++
	}

	info := driven.SnapshotInfo{
		ID:      uuid.NewString(),
		Type:    t,
		Records: stored,
		TakenAt: time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (type, id, records, taken_at) VALUES (?, ?, ?, ?)`,
		string(t), info.ID, info.Records, info.TakenAt.Format(time.RFC3339))
	if err != nil {
		return driven.SnapshotInfo{}, fmt.Errorf("recording snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return driven.SnapshotInfo{}, fmt.Errorf("committing snapshot: %w", err)
	}

	logger.Info("Snapshot %s: stored %d records", t, stored)
	return info, nil
}

// Info returns metadata for the current snapshot of t.
func (s *Store) Info(ctx context.Context, t domain.ResultType) (driven.SnapshotInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, records, taken_at FROM snapshots WHERE type = ?`, string(t))

	var info driven.SnapshotInfo
	var takenAt string
	if err := row.Scan(&info.ID, &info.Records, &takenAt); err != nil {
		if err == sql.ErrNoRows {
			return driven.SnapshotInfo{}, fmt.Errorf("snapshot for %s: %w", t, domain.ErrSnapshotEmpty)
		}
		return driven.SnapshotInfo{}, fmt.Errorf("reading snapshot info: %w", err)
	}

	info.Type = t
	if parsed, err := time.Parse(time.RFC3339, takenAt); err == nil {
		info.TakenAt = parsed
	}
	return info, nil
}

// Querier returns a source querier serving t from the snapshot.
func (s *Store) Querier(t domain.ResultType) driven.SourceQuerier {
	return &snapshotQuerier{store: s, sourceType: t}
}

// Queriers returns one querier per result type, in display order.
func (s *Store) Queriers() []driven.SourceQuerier {
	types := domain.AllResultTypes()
	queriers := make([]driven.SourceQuerier, len(types))
	for i, t := range types {
		queriers[i] = s.Querier(t)
	}
	return queriers
}

// snapshotQuerier implements driven.SourceQuerier over stored rows.
type snapshotQuerier struct {
	store      *Store
	sourceType domain.ResultType
}

// Type returns the result type this querier serves.
func (q *snapshotQuerier) Type() domain.ResultType { return q.sourceType }

// Search returns the snapshot rows whose searchable text contains term.
func (q *snapshotQuerier) Search(ctx context.Context, term string) ([]domain.RawRecord, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	rows, err := q.store.db.QueryContext(ctx,
		`SELECT payload FROM snapshot_records WHERE type = ? AND searchable LIKE ? ESCAPE '\'`,
		string(q.sourceType), pattern)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", q.sourceType, err)
	}
	defer rows.Close()

	var records []domain.RawRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", q.sourceType, err)
		}

		var rec domain.RawRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			logger.Warn("Snapshot %s: skipping undecodable record: %v", q.sourceType, err)
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", q.sourceType, err)
	}

	return records, nil
}

// recordID extracts the identifier from whichever payload is set.
func recordID(rec domain.RawRecord) string {
	switch {
	case rec.Tender != nil:
		return rec.Tender.ID
	case rec.Product != nil:
		return rec.Product.ID
	case rec.Document != nil:
		return rec.Document.ID
	default:
		return ""
	}
}

// searchableText concatenates the matchable columns for the record's
// type, lowercased, mirroring the field sets the REST queriers filter
// on so offline and online searches agree.
func searchableText(rec domain.RawRecord) string {
	var parts []string
	switch {
	case rec.Tender != nil:
		parts = []string{rec.Tender.MarketName, rec.Tender.Organization, rec.Tender.LotNumber}
	case rec.Product != nil:
		parts = []string{rec.Product.Name, rec.Product.Reference, rec.Product.Description}
	case rec.Document != nil:
		parts = []string{rec.Document.FileName}
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}

// escapeLike escapes the LIKE wildcards in a user term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
