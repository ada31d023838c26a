// Package display renders field values through administrator-defined display mode templates.
package display

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/infrastructure/config"
)

// View is the data a display template is executed with.
type View struct {
	Name    string
	Type    string
	Label   string
	Raw     string
	Ref     *entities.Reference
	Allowed string
}

// TemplateRenderer implements ports.DisplayRenderer. Templates are looked up
// by field name first, then by field type; fields without a template render nothing.
type TemplateRenderer struct {
	mode   string
	fields map[string]*template.Template
	types  map[string]*template.Template
}

// NewTemplateRenderer parses the templates of a display configuration.
func NewTemplateRenderer(mode string, cfg config.DisplayConfig) (*TemplateRenderer, error) {
	if cfg.Mode != "" {
		mode = cfg.Mode
	}
	r := &TemplateRenderer{
		mode:   mode,
		fields: make(map[string]*template.Template, len(cfg.Fields)),
		types:  make(map[string]*template.Template, len(cfg.Types)),
	}
	for name, src := range cfg.Fields {
		tmpl, err := parse("field:"+name, src)
		if err != nil {
			return nil, err
		}
		r.fields[name] = tmpl
	}
	for typ, src := range cfg.Types {
		tmpl, err := parse("type:"+typ, src)
		if err != nil {
			return nil, err
		}
		r.types[typ] = tmpl
	}
	return r, nil
}

// Mode returns the display mode the renderer answers for.
func (r *TemplateRenderer) Mode() string {
	return r.mode
}

// View renders v with the template configured for the field, or returns "".
func (r *TemplateRenderer) View(_ context.Context, name string, def entities.FieldDefinition, v entities.Value, mode string) (string, error) {
	if mode != r.mode {
		return "", nil
	}
	tmpl, ok := r.fields[name]
	if !ok {
		tmpl, ok = r.types[string(def.Type)]
	}
	if !ok {
		return "", nil
	}

	data := View{
		Name:    name,
		Type:    string(def.Type),
		Label:   def.Label,
		Raw:     v.Raw,
		Ref:     v.Ref,
		Allowed: def.Settings.AllowedValues[v.Raw],
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering display template for %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func parse(name, src string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing display template %s: %w", name, err)
	}
	return tmpl, nil
}
