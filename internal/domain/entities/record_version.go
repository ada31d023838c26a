package entities

import (
	"errors"
	"time"
)

// ErrVersionNotFound is returned when a record has no stored version.
var ErrVersionNotFound = errors.New("record version not found")

// RecordVersion is a stored snapshot of a record.
type RecordVersion struct {
	ID         string    `json:"id"`
	RecordType string    `json:"record_type"`
	RecordID   string    `json:"record_id"`
	Version    int       `json:"version"`
	Data       Record    `json:"data"`
	CreatedAt  time.Time `json:"created_at"`
}
