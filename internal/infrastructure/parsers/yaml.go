package parsers

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses record snapshots from YAML format.
type YAMLParser struct{}

// Parse reads a single YAML record snapshot from the reader.
func (p *YAMLParser) Parse(r io.Reader) (*RawRecord, error) {
	var rec RawRecord

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parsing YAML: empty document")
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	return &rec, nil
}

// UnmarshalYAML decodes the items one by one so that null items keep
// their position as empty values.
func (vs *RawValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: values must be a sequence", node.Line)
	}

	items := make(RawValues, len(node.Content))
	for i, item := range node.Content {
		if item.Kind == yaml.ScalarNode && item.ShortTag() == "!!null" {
			continue
		}
		if err := item.Decode(&items[i]); err != nil {
			return err
		}
	}
	*vs = items
	return nil
}

// UnmarshalYAML accepts a bare scalar as well as the value/ref mapping form.
func (v *RawValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = RawValue{Value: node.Value}
		return nil
	case yaml.MappingNode:
		type plain RawValue
		var obj plain
		if err := node.Decode(&obj); err != nil {
			return err
		}
		*v = RawValue(obj)
		return nil
	default:
		return fmt.Errorf("line %d: field item must be a scalar or mapping", node.Line)
	}
}
