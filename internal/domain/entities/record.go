// Package entities contains core domain data structures.
package entities

import (
	"encoding/json"
	"errors"
)

// ErrMissingOwner is returned when a profile record carries no owner.
var ErrMissingOwner = errors.New("profile record has no owner")

// ProfileType is the record type whose notification subject is its owner
// rather than the record itself.
const ProfileType = "profile"

// FieldType identifies how a field's values are stored and displayed.
type FieldType string

// Field types known to the built-in formatting rules. Any other type is
// accepted and displayed verbatim.
const (
	FieldTypeString          FieldType = "string"
	FieldTypeStringLong      FieldType = "string_long"
	FieldTypeTextLong        FieldType = "text_long"
	FieldTypeInteger         FieldType = "integer"
	FieldTypeBoolean         FieldType = "boolean"
	FieldTypeListFloat       FieldType = "list_float"
	FieldTypeListInteger     FieldType = "list_integer"
	FieldTypeListString      FieldType = "list_string"
	FieldTypeEntityReference FieldType = "entity_reference"
	FieldTypeCreated         FieldType = "created"
	FieldTypeChanged         FieldType = "changed"
	FieldTypeTimestamp       FieldType = "timestamp"
)

// IsList reports whether values of this type are keys of an allowed-values table.
func (t FieldType) IsList() bool {
	switch t {
	case FieldTypeListFloat, FieldTypeListInteger, FieldTypeListString:
		return true
	}
	return false
}

// Record is a structured, identified object made of named typed fields.
// During a change event the new version carries its previous version in Original.
type Record struct {
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Owner    *Subject `json:"owner,omitempty"`
	Fields   []Field  `json:"fields"`
	Original *Record  `json:"-"`
}

// Key returns the "type/id" pair identifying the record across versions.
func (r *Record) Key() string {
	return r.Type + "/" + r.ID
}

// Field returns the field with the given name.
func (r *Record) Field(name string) (Field, bool) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return r.Fields[i], true
		}
	}
	return Field{}, false
}

// Subject returns the actor a change notification about this record is
// addressed to: the owner for profiles, the record itself otherwise.
func (r *Record) Subject() (Subject, error) {
	if r.Type != ProfileType {
		return Subject{ID: r.ID, Label: r.Label}, nil
	}
	if r.Owner == nil {
		return Subject{}, ErrMissingOwner
	}
	return *r.Owner, nil
}

// Subject identifies the user a notification is about.
type Subject struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Field is a named, typed, ordered sequence of values.
type Field struct {
	Name       string          `json:"name"`
	Definition FieldDefinition `json:"definition"`
	Items      []Value         `json:"items"`
}

// Len returns the number of values held by the field.
func (f Field) Len() int {
	return len(f.Items)
}

// At returns the value at position i, or NoValue when the field has no such position.
func (f Field) At(i int) Value {
	if i < 0 || i >= len(f.Items) {
		return NoValue
	}
	return f.Items[i]
}

// FieldDefinition describes a field's type, display label and settings.
type FieldDefinition struct {
	Type     FieldType     `json:"type"`
	Label    string        `json:"label"`
	Settings FieldSettings `json:"settings,omitzero"`
}

// FieldSettings holds type-specific configuration of a field.
type FieldSettings struct {
	// AllowedValues maps stored keys to human labels for list types.
	AllowedValues map[string]string `json:"allowed_values,omitempty"`
	// TargetType is the record type referenced by entity_reference fields.
	TargetType string `json:"target_type,omitempty"`
}

// Reference is the record a reference value points to.
type Reference struct {
	Type  string `json:"type,omitempty"`
	ID    string `json:"id"`
	Label string `json:"label"`
}

// NoValue is the sentinel for a position a field does not have.
var NoValue = Value{}

// Value is a scalar stored at one position of a field.
type Value struct {
	Raw     string
	Ref     *Reference
	present bool
}

// NewValue returns a present value with the given raw string.
func NewValue(raw string) Value {
	return Value{Raw: raw, present: true}
}

// NewReferenceValue returns a present value pointing at ref. The raw form is the target ID.
func NewReferenceValue(ref Reference) Value {
	return Value{Raw: ref.ID, Ref: &ref, present: true}
}

// Absent reports whether v is the NoValue sentinel.
func (v Value) Absent() bool {
	return !v.present
}

// String returns the canonical string form of the value. Absent values are empty.
func (v Value) String() string {
	return v.Raw
}

// Equal reports whether v and o have the same canonical form. An absent
// value only equals another absent value, so a removed empty item still counts.
func (v Value) Equal(o Value) bool {
	if v.present != o.present {
		return false
	}
	return v.Raw == o.Raw
}

type valueJSON struct {
	Value string     `json:"value"`
	Ref   *Reference `json:"ref,omitempty"`
}

// MarshalJSON encodes a present value as {"value": ..., "ref": ...}.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("null"), nil
	}
	return json.Marshal(valueJSON{Value: v.Raw, Ref: v.Ref})
}

// UnmarshalJSON decodes a value item. Every decoded item is present.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = NoValue
		return nil
	}
	var raw valueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = Value{Raw: raw.Value, Ref: raw.Ref, present: true}
	return nil
}
