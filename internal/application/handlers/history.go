package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/domain/ports"
	"github.com/ersonp/record-tracker/internal/domain/services"
)

// HistoryHandler reads stored versions and the audit trail.
type HistoryHandler struct {
	store ports.RecordStore
	diff  *services.DiffService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(store ports.RecordStore, diff *services.DiffService) *HistoryHandler {
	return &HistoryHandler{
		store: store,
		diff:  diff,
	}
}

// HistoryEntry is one stored version with its changes against the version before it.
type HistoryEntry struct {
	Version   int
	Label     string
	CreatedAt time.Time
	// Changes is empty for the first version.
	Changes entities.Diff
}

// Handle lists the versions of a record, newest first.
func (h *HistoryHandler) Handle(ctx context.Context, recordType, recordID string) ([]HistoryEntry, error) {
	versions, err := h.store.FindVersions(ctx, recordType, recordID)
	if err != nil {
		return nil, fmt.Errorf("finding versions: %w", err)
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%s/%s: %w", recordType, recordID, entities.ErrVersionNotFound)
	}

	entries := make([]HistoryEntry, 0, len(versions))
	for i := range versions {
		entry := HistoryEntry{
			Version:   versions[i].Version,
			Label:     versions[i].Data.Label,
			CreatedAt: versions[i].CreatedAt,
		}
		if i+1 < len(versions) {
			entry.Changes = h.diff.Compute(ctx, &versions[i+1].Data, &versions[i].Data)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AuditOptions filters the audit trail.
type AuditOptions struct {
	RecordKey string
	Action    string
	Limit     int
}

// HandleAudit returns audit entries for a record key or an action.
func (h *HistoryHandler) HandleAudit(ctx context.Context, opts AuditOptions) ([]entities.AuditEntry, error) {
	var (
		entries []entities.AuditEntry
		err     error
	)
	switch {
	case opts.RecordKey != "":
		entries, err = h.store.FindAuditLog(ctx, opts.RecordKey)
		if err == nil && opts.Action != "" {
			entries = filterAction(entries, opts.Action)
		}
		if err == nil && opts.Limit > 0 && len(entries) > opts.Limit {
			entries = entries[:opts.Limit]
		}
	case opts.Action != "":
		entries, err = h.store.FindAuditLogByAction(ctx, opts.Action, opts.Limit)
	default:
		return nil, errors.New("either a record key or an action is required")
	}
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}
	return entries, nil
}

func filterAction(entries []entities.AuditEntry, action string) []entities.AuditEntry {
	filtered := entries[:0]
	for _, e := range entries {
		if e.Action == action {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
