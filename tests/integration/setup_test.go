package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/record-tracker/internal/application/handlers"
	"github.com/ersonp/record-tracker/internal/domain/entities"
	"github.com/ersonp/record-tracker/internal/domain/mocks"
	"github.com/ersonp/record-tracker/internal/domain/services"
	"github.com/ersonp/record-tracker/internal/infrastructure/config"
	"github.com/ersonp/record-tracker/internal/infrastructure/display"
	"github.com/ersonp/record-tracker/internal/infrastructure/i18n"
	"github.com/ersonp/record-tracker/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/record-tracker/internal/infrastructure/render"
)

// newFileRepo opens a file-backed repository in a temp directory.
func newFileRepo(t *testing.T) (*sqlite.Repository, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tracker.db")
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.EnsureSchema(t.Context()))
	return repo, dbPath
}

type pipeline struct {
	repo    *sqlite.Repository
	mailer  *mocks.Mailer
	track   *handlers.TrackHandler
	history *handlers.HistoryHandler
}

// newPipeline wires the real formatter, renderer and store with a capturing mailer.
func newPipeline(t *testing.T, site config.SiteConfig, displayCfg config.DisplayConfig) *pipeline {
	t.Helper()

	repo, _ := newFileRepo(t)

	translator, err := i18n.NewTranslator()
	require.NoError(t, err)

	dates, err := i18n.NewDateFormatter(site.Language, "UTC", nil)
	require.NoError(t, err)

	views, err := display.NewTemplateRenderer(services.DisplayMode, displayCfg)
	require.NoError(t, err)

	renderer, err := render.NewRenderer(translator, site, "")
	require.NoError(t, err)

	formatter := services.NewFormatter(dates, repo, services.WithDisplayRenderer(views, views.Mode()))
	diff := services.NewDiffService(formatter, nil)
	mailer := &mocks.Mailer{}
	notifier := services.NewNotifier(diff, renderer, mailer, site, translator)

	return &pipeline{
		repo:    repo,
		mailer:  mailer,
		track:   handlers.NewTrackHandler(repo, diff, notifier, nil),
		history: handlers.NewHistoryHandler(repo, diff),
	}
}

var statusDefinition = entities.FieldDefinition{
	Type:  entities.FieldTypeListInteger,
	Label: "Status",
	Settings: entities.FieldSettings{
		AllowedValues: map[string]string{"1": "Red", "2": "Blue"},
	},
}

func profile(status string, extra ...entities.Field) *entities.Record {
	fields := []entities.Field{{
		Name:       "field_status",
		Definition: statusDefinition,
		Items:      []entities.Value{entities.NewValue(status)},
	}}
	return &entities.Record{
		Type:   entities.ProfileType,
		ID:     "42",
		Label:  "Bob's profile",
		Owner:  &entities.Subject{ID: "7", Label: "Bob"},
		Fields: append(fields, extra...),
	}
}
