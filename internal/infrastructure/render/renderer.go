// Package render builds notification mail bodies from text templates.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"znkr.io/diff"
	"znkr.io/diff/textdiff"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/domain/ports"
)

//go:embed templates/changes.tmpl
var templates embed.FS

const defaultTemplate = "templates/changes.tmpl"

// unifiedContext is the number of unchanged lines shown around a change in multi-line values.
const unifiedContext = 2

// Renderer implements ports.Renderer with a text/template body.
type Renderer struct {
	tmpl       *template.Template
	translator ports.Translator
	site       ports.SiteConfig
}

// NewRenderer parses the built-in template, or the template at path when path is non-empty.
func NewRenderer(translator ports.Translator, site ports.SiteConfig, path string) (*Renderer, error) {
	var src []byte
	var err error
	if path == "" {
		src, err = templates.ReadFile(defaultTemplate)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading mail template: %w", err)
	}

	r := &Renderer{translator: translator, site: site}
	r.tmpl, err = template.New("changes").Funcs(template.FuncMap{
		"t":         r.translate,
		"multiline": isMultiline,
		"unified":   unified,
	}).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing mail template: %w", err)
	}
	return r, nil
}

// Render executes the template with the notification.
func (r *Renderer) Render(_ context.Context, n entities.Notification) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("executing mail template: %w", err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

func (r *Renderer) translate(key string, args ...any) string {
	return r.translator.Translate(r.site.CurrentLanguage(), key, args...)
}

func isMultiline(s string) bool {
	return strings.Contains(s, "\n")
}

// unified renders a line diff of two multi-line values.
func unified(oldValue, newValue string) string {
	return strings.TrimRight(textdiff.Unified(withFinalNewline(oldValue), withFinalNewline(newValue), diff.Context(unifiedContext)), "\n")
}

func withFinalNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
