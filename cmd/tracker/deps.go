package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/record-tracker/internal/application/handlers"
	"github.com/ersonp/record-tracker/internal/domain/ports"
	"github.com/ersonp/record-tracker/internal/domain/services"
	"github.com/ersonp/record-tracker/internal/infrastructure/config"
	"github.com/ersonp/record-tracker/internal/infrastructure/display"
	"github.com/ersonp/record-tracker/internal/infrastructure/i18n"
	llm "github.com/ersonp/record-tracker/internal/infrastructure/llm/openai"
	"github.com/ersonp/record-tracker/internal/infrastructure/mail"
	"github.com/ersonp/record-tracker/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/record-tracker/internal/infrastructure/render"
	"github.com/ersonp/record-tracker/internal/logging"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	BasePath       string
	Log            logging.Logger
	TrackHandler   *handlers.TrackHandler
	HistoryHandler *handlers.HistoryHandler
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	base, err := basePath()
	if err != nil {
		return err
	}

	cfg, err := config.Load(base)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	store, err := openStore(cfg, base)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	diff, notifier, err := buildServices(cfg, base, store, log)
	if err != nil {
		return err
	}

	return fn(&Deps{
		Config:         cfg,
		BasePath:       base,
		Log:            log,
		TrackHandler:   handlers.NewTrackHandler(store, diff, notifier, log),
		HistoryHandler: handlers.NewHistoryHandler(store, diff),
	})
}

// openStore opens the SQLite record store configured for base.
func openStore(cfg *config.Config, base string) (ports.RecordStore, error) {
	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.DatabasePath(base)})
	if err != nil {
		return nil, fmt.Errorf("creating sqlite repository: %w", err)
	}
	return store, nil
}

// buildServices wires the formatter, diff engine and notifier.
func buildServices(cfg *config.Config, base string, resolver ports.RecordResolver, log logging.Logger) (*services.DiffService, *services.Notifier, error) {
	translator, err := i18n.NewTranslator()
	if err != nil {
		return nil, nil, fmt.Errorf("creating translator: %w", err)
	}

	dates, err := i18n.NewDateFormatter(cfg.Site.Language, cfg.Date.Timezone, cfg.Date.Formats)
	if err != nil {
		return nil, nil, fmt.Errorf("creating date formatter: %w", err)
	}

	views, err := display.NewTemplateRenderer(services.DisplayMode, cfg.Display)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing display templates: %w", err)
	}

	formatter := services.NewFormatter(dates, resolver,
		services.WithDisplayRenderer(views, views.Mode()),
		services.WithFormatterLogger(log),
	)
	diff := services.NewDiffService(formatter, log)

	renderer, err := render.NewRenderer(translator, cfg.Site, cfg.MailTemplatePath(base))
	if err != nil {
		return nil, nil, fmt.Errorf("creating mail renderer: %w", err)
	}

	mailer, err := newMailer(cfg.Mail, log)
	if err != nil {
		return nil, nil, err
	}

	opts := []services.NotifierOption{services.WithNotifierLogger(log)}
	if cfg.LLM.Enabled {
		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return nil, nil, fmt.Errorf("creating llm client: %w", err)
		}
		opts = append(opts, services.WithSummarizer(client))
	}

	notifier := services.NewNotifier(diff, renderer, mailer, cfg.Site, translator, opts...)
	return diff, notifier, nil
}

func newMailer(cfg config.MailConfig, log logging.Logger) (ports.Mailer, error) {
	switch cfg.Transport {
	case config.TransportSMTP:
		m, err := mail.NewSMTPMailer(cfg)
		if err != nil {
			return nil, fmt.Errorf("creating smtp mailer: %w", err)
		}
		return m, nil
	default:
		return mail.NewLogMailer(log), nil
	}
}
