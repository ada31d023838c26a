package parsers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSONParser parses record snapshots from JSON format.
type JSONParser struct{}

// Parse reads a single JSON record snapshot from the reader.
func (p *JSONParser) Parse(r io.Reader) (*RawRecord, error) {
	var rec RawRecord

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&rec); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	return &rec, nil
}

// UnmarshalJSON accepts a bare string, number or boolean as well as the
// {"value": ..., "ref": ...} object form.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = RawValue{}
		return nil
	case data[0] == '{':
		type plain RawValue
		var obj plain
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*v = RawValue(obj)
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = RawValue{Value: s}
		return nil
	case data[0] == '[':
		return errors.New("field item must be a scalar or object, got array")
	default:
		// Numbers and booleans keep their literal form.
		*v = RawValue{Value: string(data)}
		return nil
	}
}
