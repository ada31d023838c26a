package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_At(t *testing.T) {
	f := Field{Name: "tags", Items: []Value{NewValue("a"), NewValue("")}}

	tests := []struct {
		name   string
		pos    int
		raw    string
		absent bool
	}{
		{name: "first item", pos: 0, raw: "a"},
		{name: "present empty item", pos: 1, raw: ""},
		{name: "past the end", pos: 2, absent: true},
		{name: "negative position", pos: -1, absent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := f.At(tt.pos)
			assert.Equal(t, tt.absent, v.Absent())
			assert.Equal(t, tt.raw, v.String())
		})
	}
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, NewValue("1").Equal(NewValue("1")))
	assert.False(t, NewValue("1").Equal(NewValue("2")))
	assert.True(t, NoValue.Equal(NoValue))
	assert.False(t, NoValue.Equal(NewValue("")), "absent differs from present empty")
	assert.False(t, NewValue("x").Equal(NoValue))
}

func TestRecord_Subject(t *testing.T) {
	t.Run("non profile is its own subject", func(t *testing.T) {
		r := &Record{Type: "user", ID: "7", Label: "Bob"}
		s, err := r.Subject()
		require.NoError(t, err)
		assert.Equal(t, Subject{ID: "7", Label: "Bob"}, s)
	})

	t.Run("profile resolves to owner", func(t *testing.T) {
		r := &Record{Type: ProfileType, ID: "12", Label: "Main profile", Owner: &Subject{ID: "7", Label: "Bob"}}
		s, err := r.Subject()
		require.NoError(t, err)
		assert.Equal(t, "7", s.ID)
		assert.Equal(t, "Bob", s.Label)
	})

	t.Run("profile without owner", func(t *testing.T) {
		r := &Record{Type: ProfileType, ID: "12"}
		_, err := r.Subject()
		assert.ErrorIs(t, err, ErrMissingOwner)
	})
}

func TestRecord_Field(t *testing.T) {
	r := &Record{Fields: []Field{{Name: "status"}, {Name: "name"}}}

	f, ok := r.Field("name")
	assert.True(t, ok)
	assert.Equal(t, "name", f.Name)

	_, ok = r.Field("missing")
	assert.False(t, ok)
}

func TestValue_JSONRoundTrip(t *testing.T) {
	rec := Record{
		Type: "node",
		ID:   "3",
		Fields: []Field{{
			Name:  "author",
			Items: []Value{NewReferenceValue(Reference{Type: "user", ID: "42", Label: "Alice"})},
		}},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))

	v := decoded.Fields[0].At(0)
	assert.False(t, v.Absent())
	assert.Equal(t, "42", v.Raw)
	require.NotNil(t, v.Ref)
	assert.Equal(t, "Alice", v.Ref.Label)
}

func TestFieldType_IsList(t *testing.T) {
	assert.True(t, FieldTypeListFloat.IsList())
	assert.True(t, FieldTypeListInteger.IsList())
	assert.True(t, FieldTypeListString.IsList())
	assert.False(t, FieldTypeEntityReference.IsList())
	assert.False(t, FieldType("custom").IsList())
}
