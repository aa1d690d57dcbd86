// Package cache provides a Redis-backed read-through cache for marketing
// settings. Settings gate every scheduling invocation, so they are the
// hottest read in the engine.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wrenchworks/campaignd/pkg/models"
	"github.com/wrenchworks/campaignd/pkg/persistence"
)

// DefaultTTL bounds how stale cached settings can get. Disabling launch
// scheduling takes effect within this window.
const DefaultTTL = 60 * time.Second

const connectTimeout = 5 * time.Second

// SettingsCache is a persistence.SettingsRepository decorator. Cache
// failures degrade to the underlying repository, never to an error.
type SettingsCache struct {
	inner  persistence.SettingsRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSettingsCache connects to Redis and wraps the given repository.
func NewSettingsCache(
	ctx context.Context,
	inner persistence.SettingsRepository,
	redisURL string,
	logger *slog.Logger,
) (*SettingsCache, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SettingsCache{
		inner:  inner,
		client: client,
		ttl:    DefaultTTL,
		logger: logger,
	}, nil
}

// NewSettingsCacheWithClient wraps an existing client, used in tests.
func NewSettingsCacheWithClient(
	inner persistence.SettingsRepository,
	client *redis.Client,
	ttl time.Duration,
	logger *slog.Logger,
) *SettingsCache {
	return &SettingsCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func settingsKey(companyID string) string {
	return "campaignd:marketing-settings:" + companyID
}

// missMarker is cached for companies without a settings row so repeated
// lookups do not hammer the store.
const missMarker = "__absent__"

func (c *SettingsCache) GetMarketingSettings(ctx context.Context, companyID string) (*models.MarketingSettings, error) {
	key := settingsKey(companyID)

	cached, err := c.client.Get(ctx, key).Result()

	switch {
	case err == nil:
		if cached == missMarker {
			return nil, persistence.ErrSettingsNotFound
		}

		var settings models.MarketingSettings
		if unmarshalErr := json.Unmarshal([]byte(cached), &settings); unmarshalErr == nil {
			return &settings, nil
		}

		// Corrupt entry: fall through to the repository and rewrite it.
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "settings cache read failed", "company_id", companyID, "error", err)
	}

	settings, err := c.inner.GetMarketingSettings(ctx, companyID)
	if err != nil {
		if persistence.IsSettingsNotFound(err) {
			c.store(ctx, key, missMarker)
		}

		return nil, err
	}

	encoded, err := json.Marshal(settings)
	if err == nil {
		c.store(ctx, key, string(encoded))
	}

	return settings, nil
}

func (c *SettingsCache) Close() error {
	return c.client.Close()
}

func (c *SettingsCache) store(ctx context.Context, key, value string) {
	err := c.client.Set(ctx, key, value, c.ttl).Err()
	if err != nil {
		c.logger.WarnContext(ctx, "settings cache write failed", "key", key, "error", err)
	}
}
