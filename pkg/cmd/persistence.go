// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wrenchworks/campaignd/pkg/cache"
	"github.com/wrenchworks/campaignd/pkg/persistence"
	"github.com/wrenchworks/campaignd/pkg/persistence/postgresql"
)

func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	persist, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	if err != nil {
		panic(fmt.Errorf("failed to initialize persistence: %w", err))
	}

	return persist
}

// WithCachedSettings decorates the persistence layer with a Redis-backed
// settings cache. An empty redisURL returns the persistence unchanged.
func WithCachedSettings(ctx context.Context, logger *slog.Logger, persist persistence.Persistence, redisURL string) persistence.Persistence {
	if redisURL == "" {
		return persist
	}

	settingsCache, err := cache.NewSettingsCache(ctx, persist.Settings(), redisURL, logger)
	if err != nil {
		panic(fmt.Errorf("failed to initialize settings cache: %w", err))
	}

	return &cachedSettingsPersistence{Persistence: persist, settings: settingsCache}
}

type cachedSettingsPersistence struct {
	persistence.Persistence

	settings persistence.SettingsRepository
}

func (c *cachedSettingsPersistence) Settings() persistence.SettingsRepository {
	return c.settings
}
