package entities

import "time"

// Audit actions recorded for tracked changes.
const (
	ActionCreated   = "created"
	ActionUnchanged = "unchanged"
	ActionNotified  = "notified"
	ActionFailed    = "failed"
)

// AuditEntry represents a logged action in the system.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	RecordKey string         `json:"record_key,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
