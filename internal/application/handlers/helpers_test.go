package handlers

import (
	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/domain/mocks"
	"github.com/ersonp/record-tracker/internal/domain/services"
)

var statusDefinition = entities.FieldDefinition{
	Type:  entities.FieldTypeListInteger,
	Label: "Status",
	Settings: entities.FieldSettings{
		AllowedValues: map[string]string{"1": "Red", "2": "Blue"},
	},
}

func profile(status string) *entities.Record {
	return &entities.Record{
		Type:  entities.ProfileType,
		ID:    "42",
		Label: "Bob's profile",
		Owner: &entities.Subject{ID: "7", Label: "Bob"},
		Fields: []entities.Field{{
			Name:       "field_status",
			Definition: statusDefinition,
			Items:      []entities.Value{entities.NewValue(status)},
		}},
	}
}

type trackFixture struct {
	handler *TrackHandler
	history *HistoryHandler
	store   *mocks.RecordStore
	mailer  *mocks.Mailer
}

func newTrackFixture() *trackFixture {
	fx := &trackFixture{
		store:  mocks.NewRecordStore(),
		mailer: &mocks.Mailer{},
	}
	diff := services.NewDiffService(services.NewFormatter(mocks.DateFormatter{}, fx.store), nil)
	notifier := services.NewNotifier(
		diff,
		&mocks.Renderer{},
		fx.mailer,
		&mocks.SiteConfig{Mail: "admin@example.com", Language: "en"},
		mocks.Translator{},
	)
	fx.handler = NewTrackHandler(fx.store, diff, notifier, nil)
	fx.history = NewHistoryHandler(fx.store, diff)
	return fx
}
