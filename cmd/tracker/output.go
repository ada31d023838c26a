package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ersonp/record-tracker/internal/domain/entities"
)

// formatDiff writes d in the given output format.
func formatDiff(w io.Writer, d entities.Diff, format string) error {
	switch format {
	case "json":
		return formatDiffJSON(w, d)
	case "text", "":
		return formatDiffText(w, d, "")
	default:
		return fmt.Errorf("invalid format %q, valid formats: %v", format, validFormats)
	}
}

func formatDiffJSON(w io.Writer, d entities.Diff) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// formatDiffText writes one block per changed field, each line prefixed with indent.
func formatDiffText(w io.Writer, d entities.Diff, indent string) error {
	if d.IsEmpty() {
		_, err := fmt.Fprintf(w, "%sNo changes.\n", indent)
		return err
	}

	var b strings.Builder
	for _, f := range d.Fields() {
		fmt.Fprintf(&b, "%s%s (%s):\n", indent, f.Label, f.Name)
		for _, v := range f.Values {
			fmt.Fprintf(&b, "%s  - %s\n", indent, quote(v.Old))
			fmt.Fprintf(&b, "%s  + %s\n", indent, quote(v.New))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// quote marks empty values so they stay visible.
func quote(s string) string {
	if s == "" {
		return `""`
	}
	return s
}

func isValidFormat(format string) bool {
	return slices.Contains(validFormats, format)
}
