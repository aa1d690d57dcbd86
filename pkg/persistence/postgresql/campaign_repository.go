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

// CampaignRepository reads campaigns and records status transitions the
// engine is responsible for.
type CampaignRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCampaignRepository creates a new campaign repository.
func NewCampaignRepository(db *sql.DB, logger *slog.Logger) *CampaignRepository {
	return &CampaignRepository{db: db, logger: logger}
}

// GetCampaign returns a campaign by scope and identifier.
func (r *CampaignRepository) GetCampaign(ctx context.Context, scope models.GraphScope, companyID *string, campaignID string) (*models.Campaign, error) {
	query := `
		SELECT id, scope, company_id, name, status, starts_at, created_at, updated_at
		FROM campaigns
		WHERE id = $1
		  AND scope = $2
		  AND company_id IS NOT DISTINCT FROM $3
	`

	var campaign models.Campaign

	err := r.db.QueryRowContext(ctx, query, campaignID, scope, companyID).Scan(
		&campaign.ID,
		&campaign.Scope,
		&campaign.CompanyID,
		&campaign.Name,
		&campaign.Status,
		&campaign.StartsAt,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrCampaignNotFound
		}

		return nil, fmt.Errorf("failed to query campaign: %w", err)
	}

	return &campaign, nil
}

// MarkLive flips a campaign to live after a completed launch run.
// Campaigns using namespaced statuses keep their prefix.
func (r *CampaignRepository) MarkLive(ctx context.Context, scope models.GraphScope, companyID *string, campaignID string) error {
	query := `
		UPDATE campaigns
		SET
			status = CASE
				WHEN status LIKE 'marketing.status.%' THEN 'marketing.status.' || $4
				ELSE $4
			END,
			updated_at = NOW()
		WHERE id = $1
		  AND scope = $2
		  AND company_id IS NOT DISTINCT FROM $3
	`

	result, err := r.db.ExecContext(ctx, query, campaignID, scope, companyID, models.CampaignStatusLive)
	if err != nil {
		return fmt.Errorf("failed to mark campaign live: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if affected == 0 {
		return persistence.ErrCampaignNotFound
	}

	return nil
}
