package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/record-tracker/internal/domain/entities"
)

func TestDiffService_Compute_Identical(t *testing.T) {
	svc := NewDiffService(newTestFormatter(), nil)
	oldRec := record(field("status", colorDefinition, "1"), field("name", nameDefinition, "Bob"))
	newRec := record(field("status", colorDefinition, "1"), field("name", nameDefinition, "Bob"))

	assert.True(t, svc.Compute(t.Context(), oldRec, newRec).IsEmpty())
}

func TestDiffService_Compute_Self(t *testing.T) {
	svc := NewDiffService(newTestFormatter(), nil)
	rec := record(field("tags", nameDefinition, "a", "", "c"), field("empty", nameDefinition))

	assert.True(t, svc.Compute(t.Context(), rec, rec).IsEmpty())
}

func TestDiffService_Compute_SingleChange(t *testing.T) {
	svc := NewDiffService(newTestFormatter(), nil)
	oldRec := record(field("status", colorDefinition, "1"), field("name", nameDefinition, "Bob"))
	newRec := record(field("status", colorDefinition, "2"), field("name", nameDefinition, "Bob"))

	diff := svc.Compute(t.Context(), oldRec, newRec)
	require.Equal(t, 1, diff.Len())

	want := entities.FieldDiff{
		Name:   "status",
		Label:  "Status",
		Values: []entities.ValueChange{{Old: "Red (1)", New: "Blue (2)"}},
	}
	got, ok := diff.Get("status")
	require.True(t, ok)
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("field diff mismatch (-want +got):\n%s", d)
	}
}

func TestDiffService_Compute_LengthAsymmetry(t *testing.T) {
	tests := []struct {
		name     string
		old      []string
		new      []string
		expected []entities.ValueChange
	}{
		{
			name:     "value removed",
			old:      []string{"a", "b"},
			new:      []string{"a"},
			expected: []entities.ValueChange{{Old: "b", New: ""}},
		},
		{
			name:     "value added",
			old:      []string{"a"},
			new:      []string{"a", "b"},
			expected: []entities.ValueChange{{Old: "", New: "b"}},
		},
		{
			name:     "empty item removed still counts",
			old:      []string{"a", ""},
			new:      []string{"a"},
			expected: []entities.ValueChange{{Old: "", New: ""}},
		},
		{
			name:     "field emptied",
			old:      []string{"a", "b"},
			new:      nil,
			expected: []entities.ValueChange{{Old: "a", New: ""}, {Old: "b", New: ""}},
		},
		{
			name: "positional not set based",
			old:  []string{"a", "b"},
			new:  []string{"b", "a"},
			expected: []entities.ValueChange{
				{Old: "a", New: "b"},
				{Old: "b", New: "a"},
			},
		},
	}

	svc := NewDiffService(newTestFormatter(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := svc.Compute(t.Context(),
				record(field("tags", nameDefinition, tt.old...)),
				record(field("tags", nameDefinition, tt.new...)),
			)
			got, ok := diff.Get("tags")
			require.True(t, ok)
			assert.Equal(t, tt.expected, got.Values)
		})
	}
}

func TestDiffService_Compute_OrderFollowsNewRecord(t *testing.T) {
	svc := NewDiffService(newTestFormatter(), nil)
	oldRec := record(field("a", nameDefinition, "1"), field("b", nameDefinition, "1"), field("c", nameDefinition, "1"))
	newRec := record(field("c", nameDefinition, "2"), field("b", nameDefinition, "1"), field("a", nameDefinition, "2"))

	diff := svc.Compute(t.Context(), oldRec, newRec)
	assert.Equal(t, []string{"c", "a"}, diff.Names())
}

func TestDiffService_Compute_MissingOldField(t *testing.T) {
	svc := NewDiffService(newTestFormatter(), nil)
	oldRec := record()
	newRec := record(field("status", colorDefinition, "1"))

	diff := svc.Compute(t.Context(), oldRec, newRec)
	got, ok := diff.Get("status")
	require.True(t, ok)
	assert.Equal(t, []entities.ValueChange{{Old: "", New: "Red (1)"}}, got.Values)
}

func TestDiffService_Compute_OldValuesUseOldSettings(t *testing.T) {
	svc := NewDiffService(newTestFormatter(), nil)
	renamed := colorDefinition
	renamed.Settings = entities.FieldSettings{AllowedValues: map[string]string{"1": "Crimson", "2": "Blue"}}

	diff := svc.Compute(t.Context(),
		record(field("status", colorDefinition, "1")),
		record(field("status", renamed, "2")),
	)
	got, _ := diff.Get("status")
	assert.Equal(t, []entities.ValueChange{{Old: "Red (1)", New: "Blue (2)"}}, got.Values)
}
