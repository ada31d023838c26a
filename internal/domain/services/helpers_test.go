package services

import (
	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/domain/mocks"
)

var colorDefinition = entities.FieldDefinition{
	Type:  entities.FieldTypeListString,
	Label: "Status",
	Settings: entities.FieldSettings{
		AllowedValues: map[string]string{"1": "Red", "2": "Blue"},
	},
}

var nameDefinition = entities.FieldDefinition{Type: entities.FieldTypeString, Label: "Name"}

func field(name string, def entities.FieldDefinition, raws ...string) entities.Field {
	items := make([]entities.Value, len(raws))
	for i, raw := range raws {
		items[i] = entities.NewValue(raw)
	}
	return entities.Field{Name: name, Definition: def, Items: items}
}

func record(fields ...entities.Field) *entities.Record {
	return &entities.Record{Type: "user", ID: "7", Label: "Bob", Fields: fields}
}

func newTestFormatter(opts ...FormatterOption) *Formatter {
	return NewFormatter(mocks.DateFormatter{}, mocks.NewRecordStore(), opts...)
}
