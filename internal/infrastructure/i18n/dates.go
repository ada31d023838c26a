package i18n

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Date styles.
const (
	StyleShort  = "short"
	StyleMedium = "medium"
	StyleLong   = "long"
)

var defaultLayouts = map[string]string{
	StyleShort:  "01/02/2006 - 15:04",
	StyleMedium: "Mon, 01/02/2006 - 15:04",
	StyleLong:   "Monday, January 2, 2006 - 15:04",
}

// Day-first layouts for languages that write dates that way.
var localeLayouts = map[language.Tag]map[string]string{
	language.German: {
		StyleShort:  "02.01.2006 - 15:04",
		StyleMedium: "Mon, 02.01.2006 - 15:04",
	},
	language.French: {
		StyleShort:  "02/01/2006 - 15:04",
		StyleMedium: "Mon, 02/01/2006 - 15:04",
	},
	language.Spanish: {
		StyleShort:  "02/01/2006 - 15:04",
		StyleMedium: "Mon, 02/01/2006 - 15:04",
	},
}

var (
	layoutTags    = []language.Tag{language.English, language.German, language.French, language.Spanish}
	layoutMatcher = language.NewMatcher(layoutTags)
)

// DateFormatter implements ports.DateFormatter for one language and time zone.
type DateFormatter struct {
	loc     *time.Location
	layouts map[string]string
}

// NewDateFormatter creates a formatter for langcode in the named IANA time
// zone. Overrides replace the layout of individual styles.
func NewDateFormatter(langcode, timezone string, overrides map[string]string) (*DateFormatter, error) {
	loc := time.UTC
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("loading time zone %q: %w", timezone, err)
		}
	}

	layouts := make(map[string]string, len(defaultLayouts))
	for style, layout := range defaultLayouts {
		layouts[style] = layout
	}
	if tag, err := language.Parse(langcode); err == nil {
		_, idx, conf := layoutMatcher.Match(tag)
		if conf != language.No {
			for style, layout := range localeLayouts[layoutTags[idx]] {
				layouts[style] = layout
			}
		}
	}
	for style, layout := range overrides {
		layouts[style] = layout
	}

	return &DateFormatter{loc: loc, layouts: layouts}, nil
}

// Format renders t in the formatter's zone. Unknown styles use the short layout.
func (f *DateFormatter) Format(t time.Time, style string) string {
	layout, ok := f.layouts[style]
	if !ok {
		layout = f.layouts[StyleShort]
	}
	return t.In(f.loc).Format(layout)
}
