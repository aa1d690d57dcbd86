package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wrenchworks/campaignd/pkg/graph"
	"github.com/wrenchworks/campaignd/pkg/models"
	"github.com/wrenchworks/campaignd/pkg/persistence"
)

// GraphRepository reads campaign builder graph documents. The engine is
// a read-only consumer; the builder UI owns writes.
type GraphRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewGraphRepository creates a new graph repository.
func NewGraphRepository(db *sql.DB, logger *slog.Logger) *GraphRepository {
	return &GraphRepository{db: db, logger: logger}
}

// GetGraph loads the builder graph for (scope, company, campaign). A
// campaign-specific document wins over the company-wide one. The raw
// document is schema-checked and decoded into the typed node mapping;
// an invalid document is reported as a missing graph.
func (r *GraphRepository) GetGraph(ctx context.Context, scope models.GraphScope, companyID *string, campaignID string) (*models.CampaignGraph, error) {
	query := `
		SELECT graph
		FROM campaign_builder_graphs
		WHERE scope = $1
		  AND company_id IS NOT DISTINCT FROM $2
		  AND (campaign_id = $3 OR campaign_id IS NULL)
		ORDER BY campaign_id NULLS LAST
		LIMIT 1
	`

	var documentJSON []byte

	err := r.db.QueryRowContext(ctx, query, scope, companyID, campaignID).Scan(&documentJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrGraphNotFound
		}

		return nil, fmt.Errorf("failed to query builder graph: %w", err)
	}

	var document map[string]any

	err = json.Unmarshal(documentJSON, &document)
	if err != nil {
		r.logger.WarnContext(ctx, "builder graph document is not valid JSON",
			"campaign_id", campaignID, "error", err)

		return nil, persistence.ErrGraphNotFound
	}

	err = graph.ValidateDocument(document)
	if err != nil {
		r.logger.WarnContext(ctx, "builder graph document failed schema validation",
			"campaign_id", campaignID, "error", err)

		return nil, persistence.ErrGraphNotFound
	}

	return &models.CampaignGraph{
		Scope:      scope,
		CompanyID:  companyID,
		CampaignID: campaignID,
		Nodes:      graph.ParseDocument(document),
	}, nil
}
