// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/record-tracker/internal/domain/ports"
	"github.com/ersonp/record-tracker/internal/infrastructure/config"
)

// StoreOpener opens the record store described by the loaded configuration.
type StoreOpener func(cfg *config.Config, basePath string) (ports.RecordStore, error)

// InitHandler handles tracker initialization.
type InitHandler struct {
	openStore StoreOpener
}

// NewInitHandler creates a new init handler.
func NewInitHandler(openStore StoreOpener) *InitHandler {
	return &InitHandler{
		openStore: openStore,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string
	DatabasePath string
}

// Handle writes the default configuration and creates the database schema.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("tracker already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if h.openStore != nil {
		store, err := h.openStore(cfg, basePath)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &InitResult{
		ConfigPath:   config.ConfigFilePath(basePath),
		DatabasePath: cfg.DatabasePath(basePath),
	}, nil
}
