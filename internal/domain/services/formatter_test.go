package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/domain/mocks"
)

func TestFormatter_Format(t *testing.T) {
	store := mocks.NewRecordStore()
	store.References["user/42"] = &entities.Reference{Type: "user", ID: "42", Label: "Alice"}
	f := NewFormatter(mocks.DateFormatter{}, store)

	refDef := entities.FieldDefinition{
		Type:     entities.FieldTypeEntityReference,
		Label:    "Author",
		Settings: entities.FieldSettings{TargetType: "user"},
	}

	tests := []struct {
		name     string
		def      entities.FieldDefinition
		value    entities.Value
		expected string
	}{
		{
			name:     "list label",
			def:      colorDefinition,
			value:    entities.NewValue("1"),
			expected: "Red (1)",
		},
		{
			name:     "unknown list key passes raw value through",
			def:      colorDefinition,
			value:    entities.NewValue("9"),
			expected: "9",
		},
		{
			name:     "reference carrying its label",
			def:      refDef,
			value:    entities.NewReferenceValue(entities.Reference{ID: "42", Label: "Alice"}),
			expected: "Alice (42)",
		},
		{
			name:     "reference resolved through the store",
			def:      refDef,
			value:    entities.NewValue("42"),
			expected: "Alice (42)",
		},
		{
			name:     "unresolvable reference passes raw value through",
			def:      refDef,
			value:    entities.NewValue("404"),
			expected: "404",
		},
		{
			name:     "created timestamp",
			def:      entities.FieldDefinition{Type: entities.FieldTypeCreated},
			value:    entities.NewValue("1700000000"),
			expected: "short:2023-11-14 22:13",
		},
		{
			name:     "changed timestamp",
			def:      entities.FieldDefinition{Type: entities.FieldTypeChanged},
			value:    entities.NewValue("1700000060"),
			expected: "short:2023-11-14 22:14",
		},
		{
			name:     "malformed timestamp passes raw value through",
			def:      entities.FieldDefinition{Type: entities.FieldTypeCreated},
			value:    entities.NewValue("yesterday"),
			expected: "yesterday",
		},
		{
			name:     "unregistered type is identity",
			def:      entities.FieldDefinition{Type: "geofield"},
			value:    entities.NewValue("POINT(1 2)"),
			expected: "POINT(1 2)",
		},
		{
			name:     "plain string is identity",
			def:      nameDefinition,
			value:    entities.NewValue("Bob"),
			expected: "Bob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Format(t.Context(), "field", tt.def, tt.value))
		})
	}
}

func TestFormatter_Format_EmptyValuesUntouched(t *testing.T) {
	display := &mocks.DisplayRenderer{Views: map[entities.FieldType]string{
		entities.FieldTypeListString:  "decorated",
		entities.FieldTypeListInteger: "decorated",
	}}
	f := newTestFormatter(WithDisplayRenderer(display, ""))

	yesNo := entities.FieldDefinition{
		Type:     entities.FieldTypeListInteger,
		Label:    "Subscribed",
		Settings: entities.FieldSettings{AllowedValues: map[string]string{"0": "No", "1": "Yes"}},
	}

	tests := []struct {
		name     string
		def      entities.FieldDefinition
		value    entities.Value
		expected string
	}{
		{name: "empty string", def: colorDefinition, value: entities.NewValue(""), expected: ""},
		{name: "absent", def: colorDefinition, value: entities.NoValue, expected: ""},
		{name: "zero", def: yesNo, value: entities.NewValue("0"), expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Format(t.Context(), "status", tt.def, tt.value))
		})
	}
	assert.Empty(t, display.Modes, "display mode must not be consulted for empty values")
}

func TestFormatter_Format_DisplayModeWins(t *testing.T) {
	display := &mocks.DisplayRenderer{Views: map[entities.FieldType]string{entities.FieldTypeListString: "<b>Red</b>"}}
	f := newTestFormatter(WithDisplayRenderer(display, ""))

	assert.Equal(t, "<b>Red</b>", f.Format(t.Context(), "status", colorDefinition, entities.NewValue("1")))
	assert.Equal(t, []string{DisplayMode}, display.Modes)
}

func TestFormatter_Format_DisplayModeEmptyFallsBack(t *testing.T) {
	display := &mocks.DisplayRenderer{}
	f := newTestFormatter(WithDisplayRenderer(display, "custom"))

	assert.Equal(t, "Blue (2)", f.Format(t.Context(), "status", colorDefinition, entities.NewValue("2")))
	assert.Equal(t, []string{"custom"}, display.Modes)
}

func TestFormatter_Format_DisplayModeErrorFallsBack(t *testing.T) {
	display := &mocks.DisplayRenderer{Err: errors.New("template exploded")}
	f := newTestFormatter(WithDisplayRenderer(display, ""))

	assert.Equal(t, "Red (1)", f.Format(t.Context(), "status", colorDefinition, entities.NewValue("1")))
}

func TestFormatter_Register(t *testing.T) {
	f := newTestFormatter()
	f.Register(entities.FieldTypeBoolean, FormatFunc(func(_ context.Context, _ entities.FieldDefinition, v entities.Value) (string, error) {
		if v.Raw == "1" {
			return "yes", nil
		}
		return "no", nil
	}))

	def := entities.FieldDefinition{Type: entities.FieldTypeBoolean}
	assert.Equal(t, "yes", f.Format(t.Context(), "active", def, entities.NewValue("1")))
	assert.Equal(t, "no", f.Format(t.Context(), "active", def, entities.NewValue("false")))
}

func TestFormatter_Format_DoesNotMutateValue(t *testing.T) {
	f := newTestFormatter()
	v := entities.NewValue("1")

	_ = f.Format(t.Context(), "status", colorDefinition, v)
	assert.Equal(t, "1", v.Raw)
}

func TestTimestampStrategy_Deterministic(t *testing.T) {
	s := TimestampStrategy{Dates: mocks.DateFormatter{}, Style: DateStyleShort}
	def := entities.FieldDefinition{Type: entities.FieldTypeCreated}

	first, err := s.Format(t.Context(), def, entities.NewValue("1700000000"))
	assert.NoError(t, err)
	second, err := s.Format(t.Context(), def, entities.NewValue("1700000000"))
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, "1700000000", first)
	assert.Equal(t, DateStyleShort+":"+time.Unix(1700000000, 0).UTC().Format("2006-01-02 15:04"), first)
}

func TestReferenceStrategy_ResolverError(t *testing.T) {
	store := mocks.NewRecordStore()
	store.Err = errors.New("db down")
	s := ReferenceStrategy{Resolver: store}

	_, err := s.Format(t.Context(), entities.FieldDefinition{}, entities.NewValue("1"))
	assert.ErrorContains(t, err, "db down")
}

func TestReferenceStrategy_NoResolver(t *testing.T) {
	s := ReferenceStrategy{}

	_, err := s.Format(t.Context(), entities.FieldDefinition{}, entities.NewValue("1"))
	assert.ErrorIs(t, err, ErrUnresolvedReference)
}
