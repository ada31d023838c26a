package entities

import (
	"bytes"
	"encoding/json"
)

// ValueChange is one changed position: the formatted old and new values.
type ValueChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// FieldDiff lists the changed positions of one field.
type FieldDiff struct {
	Name   string        `json:"-"`
	Label  string        `json:"label"`
	Values []ValueChange `json:"values"`
}

// Diff is an insertion-ordered mapping from field name to its changes.
// An empty Diff means there is nothing to report.
type Diff struct {
	fields []FieldDiff
}

// Add appends a field's changes. Fields with no changes are ignored.
func (d *Diff) Add(fd FieldDiff) {
	if len(fd.Values) == 0 {
		return
	}
	d.fields = append(d.fields, fd)
}

// Len returns the number of changed fields.
func (d Diff) Len() int {
	return len(d.fields)
}

// IsEmpty reports whether no field changed.
func (d Diff) IsEmpty() bool {
	return len(d.fields) == 0
}

// Fields returns the changed fields in insertion order.
func (d Diff) Fields() []FieldDiff {
	return d.fields
}

// Names returns the changed field names in insertion order.
func (d Diff) Names() []string {
	names := make([]string, len(d.fields))
	for i := range d.fields {
		names[i] = d.fields[i].Name
	}
	return names
}

// Get returns the changes of the named field.
func (d Diff) Get(name string) (FieldDiff, bool) {
	for i := range d.fields {
		if d.fields[i].Name == name {
			return d.fields[i], true
		}
	}
	return FieldDiff{}, false
}

// MarshalJSON encodes the diff as an object keyed by field name, keeping insertion order.
func (d Diff) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range d.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d.fields[i].Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.fields[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
