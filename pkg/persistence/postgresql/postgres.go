// Package postgresql provides PostgreSQL persistence implementation for
// campaign scheduling data.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/wrenchworks/campaignd/pkg/persistence"
	"github.com/wrenchworks/campaignd/pkg/persistence/sqlbase"

	_ "github.com/lib/pq"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	scheduleRepo *ScheduleRepository
	graphRepo    *GraphRepository
	settingsRepo *SettingsRepository
	campaignRepo *CampaignRepository
}

// NewPersistence creates a new PostgreSQL persistence layer and runs
// schema migrations.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:           database,
		logger:       logger,
		scheduleRepo: NewScheduleRepository(database, logger),
		graphRepo:    NewGraphRepository(database, logger),
		settingsRepo: NewSettingsRepository(database, logger),
		campaignRepo: NewCampaignRepository(database, logger),
	}, nil
}

// Schedules returns the schedule record repository.
func (p *Persistence) Schedules() persistence.ScheduleRepository {
	return p.scheduleRepo
}

// Graphs returns the builder graph repository.
func (p *Persistence) Graphs() persistence.GraphRepository {
	return p.graphRepo
}

// Settings returns the marketing settings repository.
func (p *Persistence) Settings() persistence.SettingsRepository {
	return p.settingsRepo
}

// Campaigns returns the campaign repository.
func (p *Persistence) Campaigns() persistence.CampaignRepository {
	return p.campaignRepo
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (p *Persistence) Close(ctx context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
