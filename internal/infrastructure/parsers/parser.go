// Package parsers reads record snapshots from JSON and YAML documents.
package parsers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ersonp/record-tracker/internal/domain/entities"
)

// ErrInvalidSnapshot is returned when a parsed snapshot cannot form a record.
var ErrInvalidSnapshot = errors.New("invalid record snapshot")

// ErrUnsupportedFormat is returned for files with no matching parser.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// RawRecord is a record snapshot as written in a document, before validation.
type RawRecord struct {
	Type   string      `json:"type" yaml:"type"`
	ID     string      `json:"id" yaml:"id"`
	Label  string      `json:"label,omitempty" yaml:"label,omitempty"`
	Owner  *RawSubject `json:"owner,omitempty" yaml:"owner,omitempty"`
	Fields []RawField  `json:"fields" yaml:"fields"`
}

// RawSubject is the owner of a profile snapshot.
type RawSubject struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// RawField is one field of a snapshot with its inline definition.
type RawField struct {
	Name          string            `json:"name" yaml:"name"`
	Type          string            `json:"type" yaml:"type"`
	Label         string            `json:"label,omitempty" yaml:"label,omitempty"`
	AllowedValues map[string]string `json:"allowed_values,omitempty" yaml:"allowed_values,omitempty"`
	TargetType    string            `json:"target_type,omitempty" yaml:"target_type,omitempty"`
	Values        RawValues         `json:"values" yaml:"values"`
}

// RawValues holds the items of a field in position order.
type RawValues []RawValue

// RawValue is a single field item. It is written either as a bare scalar
// or as an object with a value and an optional reference.
type RawValue struct {
	Value string        `json:"value" yaml:"value"`
	Ref   *RawReference `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// RawReference is the target of a reference item.
type RawReference struct {
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Parser defines the interface for parsing record snapshots.
type Parser interface {
	Parse(r io.Reader) (*RawRecord, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "yaml".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "yaml", "yml":
		return &YAMLParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return ForFormat(ext)
}

// ParseFile reads and validates the record snapshot stored at path.
func ParseFile(path string) (*entities.Record, error) {
	parser := ForFile(path)
	if parser == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	raw, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return raw.ToRecord()
}

// ToRecord validates the snapshot and converts it to a domain record.
func (r *RawRecord) ToRecord() (*entities.Record, error) {
	if r.Type == "" || r.ID == "" {
		return nil, fmt.Errorf("%w: type and id are required", ErrInvalidSnapshot)
	}

	rec := &entities.Record{
		Type:   r.Type,
		ID:     r.ID,
		Label:  r.Label,
		Fields: make([]entities.Field, 0, len(r.Fields)),
	}
	if r.Owner != nil {
		rec.Owner = &entities.Subject{ID: r.Owner.ID, Label: r.Owner.Label}
	}

	seen := make(map[string]bool, len(r.Fields))
	for i, f := range r.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrInvalidSnapshot, i+1)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidSnapshot, f.Name)
		}
		seen[f.Name] = true
		field, err := f.toField()
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, field)
	}

	return rec, nil
}

func (f RawField) toField() (entities.Field, error) {
	label := f.Label
	if label == "" {
		label = f.Name
	}

	items := make([]entities.Value, 0, len(f.Values))
	for i, v := range f.Values {
		if v.Ref != nil {
			ref := entities.Reference{Type: v.Ref.Type, ID: v.Ref.ID, Label: v.Ref.Label}
			if ref.ID == "" {
				ref.ID = v.Value
			}
			if ref.ID == "" {
				return entities.Field{}, fmt.Errorf("%w: field %q item %d has a reference without an id", ErrInvalidSnapshot, f.Name, i+1)
			}
			if ref.Type == "" {
				ref.Type = f.TargetType
			}
			items = append(items, entities.NewReferenceValue(ref))
			continue
		}
		items = append(items, entities.NewValue(v.Value))
	}

	return entities.Field{
		Name: f.Name,
		Definition: entities.FieldDefinition{
			Type:  entities.FieldType(f.Type),
			Label: label,
			Settings: entities.FieldSettings{
				AllowedValues: f.AllowedValues,
				TargetType:    f.TargetType,
			},
		},
		Items: items,
	}, nil
}
