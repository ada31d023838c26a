package ports

import (
	"context"

	"github.com/ersonp/record-tracker/internal/domain/entities"
)

// DisplayRenderer renders one field value through a named display mode.
// An empty result means the mode has no rendering for the value.
type DisplayRenderer interface {
	View(ctx context.Context, name string, def entities.FieldDefinition, v entities.Value, mode string) (string, error)
}

// RecordResolver looks up the record a reference value points to.
// It returns nil when the record is unknown.
type RecordResolver interface {
	ResolveReference(ctx context.Context, recordType, id string) (*entities.Reference, error)
}
