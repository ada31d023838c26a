package mocks

import (
	"context"

	"github.com/ersonp/record-tracker/internal/domain/entities"
)

// DisplayRenderer is a mock implementation of ports.DisplayRenderer.
// Views maps a field type to the output rendered for any of its values.
type DisplayRenderer struct {
	Views map[entities.FieldType]string
	Err   error

	// Call tracking
	Modes []string
}

// View returns the configured output for def.Type.
func (m *DisplayRenderer) View(_ context.Context, _ string, def entities.FieldDefinition, _ entities.Value, mode string) (string, error) {
	m.Modes = append(m.Modes, mode)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Views[def.Type], nil
}
