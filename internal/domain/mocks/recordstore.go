package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/ersonp/record-tracker/internal/domain/entities"
)

// RecordStore is an in-memory implementation of ports.RecordStore.
type RecordStore struct {
	Versions   map[string][]entities.RecordVersion
	References map[string]*entities.Reference
	Audit      []entities.AuditEntry
	Err        error

	// SaveErr fails SaveVersion only.
	SaveErr error
}

// NewRecordStore creates a new mock RecordStore.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		Versions:   make(map[string][]entities.RecordVersion),
		References: make(map[string]*entities.Reference),
	}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *RecordStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the database connection.
func (m *RecordStore) Close() error {
	return nil
}

// SaveVersion stores a snapshot and its reference label.
func (m *RecordStore) SaveVersion(_ context.Context, v *entities.RecordVersion) error {
	if m.Err != nil {
		return m.Err
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	key := v.RecordType + "/" + v.RecordID
	m.Versions[key] = append(m.Versions[key], *v)
	m.References[key] = &entities.Reference{Type: v.RecordType, ID: v.RecordID, Label: v.Data.Label}
	return nil
}

// FindLatestVersion returns the highest version of a record.
func (m *RecordStore) FindLatestVersion(ctx context.Context, recordType, recordID string) (*entities.RecordVersion, error) {
	versions, err := m.FindVersions(ctx, recordType, recordID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, entities.ErrVersionNotFound
	}
	return &versions[0], nil
}

// FindVersions lists versions newest first.
func (m *RecordStore) FindVersions(_ context.Context, recordType, recordID string) ([]entities.RecordVersion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	versions := append([]entities.RecordVersion(nil), m.Versions[recordType+"/"+recordID]...)
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].Version > versions[j].Version
	})
	return versions, nil
}

// ResolveReference returns the stored reference label.
func (m *RecordStore) ResolveReference(_ context.Context, recordType, id string) (*entities.Reference, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.References[recordType+"/"+id], nil
}

// LogAction appends to the audit log.
func (m *RecordStore) LogAction(_ context.Context, action, recordKey string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:        int64(len(m.Audit) + 1),
		Action:    action,
		RecordKey: recordKey,
		Details:   details,
		CreatedAt: time.Now(),
	})
	return nil
}

// FindAuditLog finds audit log entries for a record key, newest first.
func (m *RecordStore) FindAuditLog(_ context.Context, recordKey string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for i := len(m.Audit) - 1; i >= 0; i-- {
		if m.Audit[i].RecordKey == recordKey {
			result = append(result, m.Audit[i])
		}
	}
	return result, nil
}

// FindAuditLogByAction finds audit log entries by action type, newest first.
func (m *RecordStore) FindAuditLogByAction(_ context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for i := len(m.Audit) - 1; i >= 0; i-- {
		if m.Audit[i].Action == action {
			result = append(result, m.Audit[i])
		}
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
