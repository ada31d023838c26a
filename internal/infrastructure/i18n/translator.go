// Package i18n provides translation and date formatting backed by golang.org/x/text.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translatable strings used by change notifications.
const (
	KeySubject = "%[1]s (%[2]s) was changed"
	KeyIntro   = "The following fields of %[1]s (%[2]s) were changed:"
	KeyOld     = "Old"
	KeyNew     = "New"
	KeySummary = "Summary"
)

var translations = map[language.Tag]map[string]string{
	language.German: {
		KeySubject: "%[1]s (%[2]s) wurde geändert",
		KeyIntro:   "Die folgenden Felder von %[1]s (%[2]s) wurden geändert:",
		KeyOld:     "Alt",
		KeyNew:     "Neu",
		KeySummary: "Zusammenfassung",
	},
	language.French: {
		KeySubject: "%[1]s (%[2]s) a été modifié",
		KeyIntro:   "Les champs suivants de %[1]s (%[2]s) ont été modifiés :",
		KeyOld:     "Ancien",
		KeyNew:     "Nouveau",
		KeySummary: "Résumé",
	},
	language.Spanish: {
		KeySubject: "%[1]s (%[2]s) ha sido modificado",
		KeyIntro:   "Los siguientes campos de %[1]s (%[2]s) han sido modificados:",
		KeyOld:     "Anterior",
		KeyNew:     "Nuevo",
		KeySummary: "Resumen",
	},
}

// Translator implements ports.Translator with an x/text message catalog.
// English strings are the keys themselves.
type Translator struct {
	cat       *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
}

// NewTranslator builds the catalog of built-in translations.
func NewTranslator() (*Translator, error) {
	cat := catalog.NewBuilder(catalog.Fallback(language.English))
	supported := []language.Tag{language.English}
	for tag, strs := range translations {
		for key, msg := range strs {
			if err := cat.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("adding %s translation: %w", tag, err)
			}
		}
		supported = append(supported, tag)
	}
	return &Translator{
		cat:       cat,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}, nil
}

// Translate formats key in the language closest to langcode.
func (t *Translator) Translate(langcode, key string, args ...any) string {
	return message.NewPrinter(t.Match(langcode), message.Catalog(t.cat)).Sprintf(key, args...)
}

// Match returns the supported language closest to langcode, English if none is close.
func (t *Translator) Match(langcode string) language.Tag {
	tag, err := language.Parse(langcode)
	if err != nil {
		return language.English
	}
	_, idx, conf := t.matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return t.supported[idx]
}
