// Package sqlite provides a SQLite implementation of the RecordStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.RecordStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// An in-memory database exists per connection
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Record snapshots, one row per stored version
	CREATE TABLE IF NOT EXISTS record_versions (
		id TEXT PRIMARY KEY,
		record_type TEXT NOT NULL,
		record_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		data TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(record_type, record_id, version)
	);
	CREATE INDEX IF NOT EXISTS idx_record_versions_record ON record_versions(record_type, record_id);

	-- Latest label of every known record, used to resolve references
	CREATE TABLE IF NOT EXISTS record_refs (
		record_type TEXT NOT NULL,
		record_id TEXT NOT NULL,
		label TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY(record_type, record_id)
	);

	-- Audit log (tracks all change events)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		record_key TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_record ON audit_log(record_key);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveVersion stores a snapshot and refreshes the record's reference label
// in one transaction. Empty ID and CreatedAt are filled in.
func (r *Repository) SaveVersion(ctx context.Context, version *entities.RecordVersion) error {
	if version.ID == "" {
		version.ID = generateUUID()
	}
	if version.CreatedAt.IsZero() {
		version.CreatedAt = timeNow()
	}

	data, err := json.Marshal(version.Data)
	if err != nil {
		return fmt.Errorf("marshaling record data: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO record_versions (id, record_type, record_id, version, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		version.ID,
		version.RecordType,
		version.RecordID,
		version.Version,
		string(data),
		version.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving record version: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO record_refs (record_type, record_id, label, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(record_type, record_id) DO UPDATE SET
			label = excluded.label,
			updated_at = excluded.updated_at
	`,
		version.RecordType,
		version.RecordID,
		version.Data.Label,
		version.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving record reference: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing record version: %w", err)
	}
	return nil
}

// FindVersions lists all versions of a record, ordered by version descending.
func (r *Repository) FindVersions(ctx context.Context, recordType, recordID string) ([]entities.RecordVersion, error) {
	query := `
		SELECT id, record_type, record_id, version, data, created_at
		FROM record_versions
		WHERE record_type = ? AND record_id = ?
		ORDER BY version DESC
	`
	rows, err := r.db.QueryContext(ctx, query, recordType, recordID)
	if err != nil {
		return nil, fmt.Errorf("querying record versions: %w", err)
	}
	defer rows.Close()

	versions := make([]entities.RecordVersion, 0, 16)
	for rows.Next() {
		v, err := r.scanRecordVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *v)
	}
	return versions, rows.Err()
}

// FindLatestVersion finds the most recent version of a record.
func (r *Repository) FindLatestVersion(ctx context.Context, recordType, recordID string) (*entities.RecordVersion, error) {
	query := `
		SELECT id, record_type, record_id, version, data, created_at
		FROM record_versions
		WHERE record_type = ? AND record_id = ?
		ORDER BY version DESC
		LIMIT 1
	`
	rows, err := r.db.QueryContext(ctx, query, recordType, recordID)
	if err != nil {
		return nil, fmt.Errorf("querying latest version: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterating latest version: %w", err)
		}
		return nil, entities.ErrVersionNotFound
	}
	return r.scanRecordVersion(rows)
}

func (r *Repository) scanRecordVersion(rows *sql.Rows) (*entities.RecordVersion, error) {
	var v entities.RecordVersion
	var data string

	if err := rows.Scan(
		&v.ID,
		&v.RecordType,
		&v.RecordID,
		&v.Version,
		&data,
		&v.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("scanning record version: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &v.Data); err != nil {
		return nil, fmt.Errorf("unmarshaling record data: %w", err)
	}
	return &v, nil
}

// ResolveReference returns the latest known label of a record, or nil if it was never stored.
func (r *Repository) ResolveReference(ctx context.Context, recordType, id string) (*entities.Reference, error) {
	query := `SELECT label FROM record_refs WHERE record_type = ? AND record_id = ?`

	var label string
	err := r.db.QueryRowContext(ctx, query, recordType, id).Scan(&label)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolving reference: %w", err)
	}
	return &entities.Reference{Type: recordType, ID: id, Label: label}, nil
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action, recordKey string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var recordKeyPtr sql.NullString
	if recordKey != "" {
		recordKeyPtr = sql.NullString{String: recordKey, Valid: true}
	}

	query := `INSERT INTO audit_log (action, record_key, details, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, recordKeyPtr, detailsJSON, timeNow())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog finds audit log entries for a specific record.
func (r *Repository) FindAuditLog(ctx context.Context, recordKey string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, record_key, details, created_at
		FROM audit_log
		WHERE record_key = ?
		ORDER BY created_at DESC, id DESC
	`
	return r.queryAuditLog(ctx, query, recordKey)
}

// FindAuditLogByAction finds audit log entries by action type. A limit of
// zero or less returns every entry.
func (r *Repository) FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, action, record_key, details, created_at
		FROM audit_log
		WHERE action = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	return r.queryAuditLog(ctx, query, action, limit)
}

func (r *Repository) queryAuditLog(ctx context.Context, query string, args ...any) ([]entities.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	// Use limit parameter as capacity hint if available
	var entries []entities.AuditEntry
	if len(args) > 0 {
		if limit, ok := args[len(args)-1].(int); ok && limit > 0 {
			entries = make([]entities.AuditEntry, 0, limit)
		}
	}

	for rows.Next() {
		var entry entities.AuditEntry
		var recordKey, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&recordKey,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.RecordKey = recordKey.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
