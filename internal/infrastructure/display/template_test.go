package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/infrastructure/config"
)

const mode = "record_tracker"

var statusDef = entities.FieldDefinition{
	Type:     entities.FieldTypeListString,
	Label:    "Status",
	Settings: entities.FieldSettings{AllowedValues: map[string]string{"1": "Red"}},
}

func TestTemplateRenderer_View(t *testing.T) {
	r, err := NewTemplateRenderer(mode, config.DisplayConfig{
		Types: map[string]string{
			"list_string":      "{{.Allowed}}",
			"entity_reference": "{{with .Ref}}@{{.Label}}{{end}}",
		},
		Fields: map[string]string{
			"priority": "[{{.Raw}}]",
		},
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		fieldName string
		def       entities.FieldDefinition
		value     entities.Value
		expected  string
	}{
		{
			name:      "type template",
			fieldName: "status",
			def:       statusDef,
			value:     entities.NewValue("1"),
			expected:  "Red",
		},
		{
			name:      "field template wins over type",
			fieldName: "priority",
			def:       statusDef,
			value:     entities.NewValue("1"),
			expected:  "[1]",
		},
		{
			name:      "reference data",
			fieldName: "author",
			def:       entities.FieldDefinition{Type: entities.FieldTypeEntityReference},
			value:     entities.NewReferenceValue(entities.Reference{ID: "42", Label: "Alice"}),
			expected:  "@Alice",
		},
		{
			name:      "template rendering empty",
			fieldName: "author",
			def:       entities.FieldDefinition{Type: entities.FieldTypeEntityReference},
			value:     entities.NewValue("42"),
			expected:  "",
		},
		{
			name:      "no template",
			fieldName: "name",
			def:       entities.FieldDefinition{Type: entities.FieldTypeString},
			value:     entities.NewValue("Bob"),
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.View(t.Context(), tt.fieldName, tt.def, tt.value, mode)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestTemplateRenderer_OtherMode(t *testing.T) {
	r, err := NewTemplateRenderer(mode, config.DisplayConfig{Types: map[string]string{"list_string": "x"}})
	require.NoError(t, err)

	out, err := r.View(t.Context(), "status", statusDef, entities.NewValue("1"), "teaser")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestTemplateRenderer_ConfiguredMode(t *testing.T) {
	r, err := NewTemplateRenderer(mode, config.DisplayConfig{Mode: "mail", Types: map[string]string{"list_string": "x"}})
	require.NoError(t, err)
	assert.Equal(t, "mail", r.Mode())

	out, err := r.View(t.Context(), "status", statusDef, entities.NewValue("1"), "mail")
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestTemplateRenderer_Errors(t *testing.T) {
	_, err := NewTemplateRenderer(mode, config.DisplayConfig{Types: map[string]string{"list_string": "{{.Raw"}})
	require.Error(t, err)

	r, err := NewTemplateRenderer(mode, config.DisplayConfig{Types: map[string]string{"list_string": "{{.Missing}}"}})
	require.NoError(t, err)
	_, err = r.View(t.Context(), "status", statusDef, entities.NewValue("1"), mode)
	require.Error(t, err)
}
