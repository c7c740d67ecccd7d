package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/regdash/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/regdash/internal/core/domain"
	"github.com/custodia-labs/regdash/internal/core/ports/driven"
)

// Store is a SQLite database holding table snapshots.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.regdash/data/regdash.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".regdash", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "regdash.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Record Store ====================

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Save stores a snapshot and its records in one transaction.
func (s *recordStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, source, loaded_at) VALUES (?, ?, ?)
	`, snapshot.ID, snapshot.Source, snapshot.LoadedAt.UnixNano()); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (snapshot_id, position, sector, domain, regulasi, level,
			presence, detail, sanction, level_score, intensity_score, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range snapshot.Records {
		if _, err := stmt.ExecContext(ctx, snapshot.ID, i, r.Sector, r.Domain, r.Regulasi, r.Level,
			r.Presence, r.Detail, r.Sanction, r.LevelScore, r.IntensityScore, r.Year); err != nil {
			return fmt.Errorf("saving record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Current returns the most recently saved snapshot with its records.
func (s *recordStore) Current(ctx context.Context) (*domain.Snapshot, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source, loaded_at FROM snapshots
		ORDER BY seq DESC LIMIT 1
	`)

	var snapshot domain.Snapshot
	var loadedAt int64
	if err := row.Scan(&snapshot.ID, &snapshot.Source, &loadedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	snapshot.LoadedAt = time.Unix(0, loadedAt)

	records, err := s.records(ctx, snapshot.ID)
	if err != nil {
		return nil, err
	}
	snapshot.Records = records
	return &snapshot, nil
}

// List returns stored snapshots, newest first.
func (s *recordStore) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT s.id, s.source, s.loaded_at, COUNT(r.position)
		FROM snapshots s
		LEFT JOIN records r ON r.snapshot_id = s.id
		GROUP BY s.seq
		ORDER BY s.seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	infos := make([]domain.SnapshotInfo, 0)
	for rows.Next() {
		var info domain.SnapshotInfo
		var loadedAt int64
		if err := rows.Scan(&info.ID, &info.Source, &loadedAt, &info.RecordCount); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		info.LoadedAt = time.Unix(0, loadedAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return infos, nil
}

func (s *recordStore) records(ctx context.Context, snapshotID string) ([]domain.Record, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT sector, domain, regulasi, level, presence, detail,
			sanction, level_score, intensity_score, year
		FROM records WHERE snapshot_id = ?
		ORDER BY position
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	for rows.Next() {
		var r domain.Record
		if err := rows.Scan(&r.Sector, &r.Domain, &r.Regulasi, &r.Level, &r.Presence, &r.Detail,
			&r.Sanction, &r.LevelScore, &r.IntensityScore, &r.Year); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}
