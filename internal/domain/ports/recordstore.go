package ports

import (
	"context"

	"github.com/ersonp/record-tracker/internal/domain/entities"
)

// RecordStore persists record snapshots and the audit trail of tracked changes.
type RecordStore interface {
	RecordResolver

	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// SaveVersion stores a snapshot and refreshes the record's reference label.
	SaveVersion(ctx context.Context, version *entities.RecordVersion) error

	// FindLatestVersion returns the most recent snapshot of a record,
	// or entities.ErrVersionNotFound.
	FindLatestVersion(ctx context.Context, recordType, recordID string) (*entities.RecordVersion, error)

	// FindVersions lists snapshots of a record, newest first.
	FindVersions(ctx context.Context, recordType, recordID string) ([]entities.RecordVersion, error)

	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action, recordKey string, details map[string]any) error

	// FindAuditLog finds audit log entries for a record key.
	FindAuditLog(ctx context.Context, recordKey string) ([]entities.AuditEntry, error)

	// FindAuditLogByAction finds audit log entries by action type.
	FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error)
}
