package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wrenchworks/campaignd/pkg/models"
	"github.com/wrenchworks/campaignd/pkg/persistence"
)

// SettingsRepository reads per-company marketing settings.
type SettingsRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *sql.DB, logger *slog.Logger) *SettingsRepository {
	return &SettingsRepository{db: db, logger: logger}
}

// GetMarketingSettings returns the settings row for a company, or
// ErrSettingsNotFound when the company has never been configured.
func (r *SettingsRepository) GetMarketingSettings(ctx context.Context, companyID string) (*models.MarketingSettings, error) {
	query := `
		SELECT company_id, schedule_launch, easycron_api_key, easycron_timezone
		FROM marketing_settings
		WHERE company_id = $1
	`

	var (
		settings models.MarketingSettings
		apiKey   sql.NullString
		timezone sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, companyID).Scan(
		&settings.CompanyID,
		&settings.ScheduleLaunch,
		&apiKey,
		&timezone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrSettingsNotFound
		}

		return nil, fmt.Errorf("failed to query marketing settings: %w", err)
	}

	settings.EasyCronAPIKey = apiKey.String
	settings.EasyCronTimezone = timezone.String

	return &settings, nil
}
