package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/domain/ports"
	"github.com/ersonp/record-tracker/internal/logging"
)

// DisplayMode is the display mode administrators can configure to customize
// how values appear in change notifications.
const DisplayMode = "record_tracker"

// DateStyleShort is the date style used for timestamp fields.
const DateStyleShort = "short"

var (
	// ErrUnknownAllowedValue is returned when a list value has no label.
	ErrUnknownAllowedValue = errors.New("value not in allowed values")
	// ErrUnresolvedReference is returned when a referenced record cannot be found.
	ErrUnresolvedReference = errors.New("referenced record not found")
)

// FormatStrategy renders a non-empty value of one field type.
type FormatStrategy interface {
	Format(ctx context.Context, def entities.FieldDefinition, v entities.Value) (string, error)
}

// FormatFunc adapts a function to FormatStrategy.
type FormatFunc func(ctx context.Context, def entities.FieldDefinition, v entities.Value) (string, error)

// Format calls f.
func (f FormatFunc) Format(ctx context.Context, def entities.FieldDefinition, v entities.Value) (string, error) {
	return f(ctx, def, v)
}

// Formatter turns raw field values into display strings.
// Register must not be called concurrently with Format.
type Formatter struct {
	display  ports.DisplayRenderer
	mode     string
	registry map[entities.FieldType]FormatStrategy
	log      logging.Logger
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithDisplayRenderer enables display-mode rendering ahead of the type rules.
func WithDisplayRenderer(r ports.DisplayRenderer, mode string) FormatterOption {
	return func(f *Formatter) {
		f.display = r
		if mode != "" {
			f.mode = mode
		}
	}
}

// WithFormatterLogger sets the logger used for contained formatting failures.
func WithFormatterLogger(l logging.Logger) FormatterOption {
	return func(f *Formatter) {
		f.log = l
	}
}

// NewFormatter creates a Formatter with the built-in rules for list,
// reference and timestamp fields.
func NewFormatter(dates ports.DateFormatter, resolver ports.RecordResolver, opts ...FormatterOption) *Formatter {
	f := &Formatter{
		mode:     DisplayMode,
		registry: make(map[entities.FieldType]FormatStrategy),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	list := FormatFunc(formatAllowedValue)
	f.Register(entities.FieldTypeListFloat, list)
	f.Register(entities.FieldTypeListInteger, list)
	f.Register(entities.FieldTypeListString, list)
	f.Register(entities.FieldTypeEntityReference, ReferenceStrategy{Resolver: resolver})

	ts := TimestampStrategy{Dates: dates, Style: DateStyleShort}
	f.Register(entities.FieldTypeCreated, ts)
	f.Register(entities.FieldTypeChanged, ts)
	f.Register(entities.FieldTypeTimestamp, ts)

	return f
}

func isFalsy(v entities.Value) bool {
	return v.Absent() || v.Raw == "" || v.Raw == "0"
}

// Register sets the strategy for a field type, replacing any previous one.
func (f *Formatter) Register(t entities.FieldType, s FormatStrategy) {
	f.registry[t] = s
}

// Format returns the display string for v, the value of field name at some position.
// Absent, empty and "0" values are returned unchanged. Failures fall back to the raw value.
func (f *Formatter) Format(ctx context.Context, name string, def entities.FieldDefinition, v entities.Value) string {
	if isFalsy(v) {
		return v.Raw
	}

	if f.display != nil {
		out, err := f.display.View(ctx, name, def, v, f.mode)
		switch {
		case err != nil:
			f.log.Warn(ctx, "display mode rendering failed", "field", name, "mode", f.mode, "error", err)
		case out != "":
			return out
		}
	}

	s, ok := f.registry[def.Type]
	if !ok {
		return v.Raw
	}
	out, err := s.Format(ctx, def, v)
	if err != nil {
		f.log.Warn(ctx, "formatting value failed", "field", name, "type", string(def.Type), "value", v.Raw, "error", err)
		return v.Raw
	}
	return out
}

func formatAllowedValue(_ context.Context, def entities.FieldDefinition, v entities.Value) (string, error) {
	label, ok := def.Settings.AllowedValues[v.Raw]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAllowedValue, v.Raw)
	}
	return fmt.Sprintf("%s (%s)", label, v.Raw), nil
}

// ReferenceStrategy renders a reference as "label (id)". The label carried by
// the value is used when present; otherwise the target is looked up.
type ReferenceStrategy struct {
	Resolver ports.RecordResolver
}

// Format implements FormatStrategy.
func (s ReferenceStrategy) Format(ctx context.Context, def entities.FieldDefinition, v entities.Value) (string, error) {
	ref := v.Ref
	if ref == nil || ref.Label == "" {
		if s.Resolver == nil {
			return "", ErrUnresolvedReference
		}
		targetType := def.Settings.TargetType
		if ref != nil && ref.Type != "" {
			targetType = ref.Type
		}
		resolved, err := s.Resolver.ResolveReference(ctx, targetType, v.Raw)
		if err != nil {
			return "", fmt.Errorf("resolving reference: %w", err)
		}
		if resolved == nil {
			return "", fmt.Errorf("%w: %s/%s", ErrUnresolvedReference, targetType, v.Raw)
		}
		ref = resolved
	}
	return fmt.Sprintf("%s (%s)", ref.Label, ref.ID), nil
}

// TimestampStrategy renders Unix-second timestamps with a date style.
type TimestampStrategy struct {
	Dates ports.DateFormatter
	Style string
}

// Format implements FormatStrategy.
func (s TimestampStrategy) Format(_ context.Context, _ entities.FieldDefinition, v entities.Value) (string, error) {
	sec, err := strconv.ParseInt(v.Raw, 10, 64)
	if err != nil {
		return "", fmt.Errorf("parsing timestamp: %w", err)
	}
	return s.Dates.Format(time.Unix(sec, 0), s.Style), nil
}
