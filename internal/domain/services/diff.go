package services

import (
	"context"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/logging"
)

// DiffService compares two versions of a record.
type DiffService struct {
	formatter *Formatter
	log       logging.Logger
}

// NewDiffService creates a new DiffService.
func NewDiffService(formatter *Formatter, log logging.Logger) *DiffService {
	if log == nil {
		log = logging.Nop()
	}
	return &DiffService{
		formatter: formatter,
		log:       log,
	}
}

// Compute returns the formatted changes between oldRec and newRec, in the
// field order of newRec. Positions are compared pairwise; a position one side
// lacks is compared as absent. An empty Diff means nothing changed.
func (s *DiffService) Compute(ctx context.Context, oldRec, newRec *entities.Record) entities.Diff {
	var diff entities.Diff
	for _, newField := range newRec.Fields {
		oldField, ok := oldRec.Field(newField.Name)
		if !ok {
			s.log.Warn(ctx, "field missing from previous version", "record", newRec.Key(), "field", newField.Name)
		}

		n := max(oldField.Len(), newField.Len())
		var changes []entities.ValueChange
		for i := range n {
			oldValue := oldField.At(i)
			newValue := newField.At(i)
			if oldValue.Equal(newValue) {
				continue
			}
			changes = append(changes, entities.ValueChange{
				Old: s.formatter.Format(ctx, newField.Name, oldFieldDefinition(oldField, newField), oldValue),
				New: s.formatter.Format(ctx, newField.Name, newField.Definition, newValue),
			})
		}

		if len(changes) > 0 {
			diff.Add(entities.FieldDiff{
				Name:   newField.Name,
				Label:  newField.Definition.Label,
				Values: changes,
			})
		}
	}
	return diff
}

// oldFieldDefinition returns the definition to format old values with. Old
// values are formatted against the previous settings so a renamed allowed
// value still shows its former label.
func oldFieldDefinition(oldField, newField entities.Field) entities.FieldDefinition {
	if oldField.Definition.Type == "" {
		return newField.Definition
	}
	return oldField.Definition
}
