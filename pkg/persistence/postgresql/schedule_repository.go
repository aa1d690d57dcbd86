package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wrenchworks/campaignd/pkg/models"
	"github.com/wrenchworks/campaignd/pkg/persistence"
)

const scheduleColumns = `
	id
  , company_id
  , campaign_id
  , node_id
  , node_key
  , run_at
  , status
  , easycron_job_id
  , easycron_payload
  , last_run_at
  , error
  , created_at
  , updated_at
`

// ScheduleRepository handles schedule-record database operations.
type ScheduleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sql.DB, logger *slog.Logger) *ScheduleRepository {
	return &ScheduleRepository{db: db, logger: logger}
}

// Upsert inserts or updates the unique record for (campaign_id, node_id,
// run_at) in one atomic statement. A record that already reached the
// terminal completed status keeps it; every other status is overwritten
// by the new resolution pass.
func (r *ScheduleRepository) Upsert(ctx context.Context, input persistence.ScheduleUpsert) (*models.ScheduleRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, persistence.NewScheduleError("Upsert", "", fmt.Errorf("failed to generate schedule ID: %w", err))
	}

	status := input.Status
	if status == "" {
		status = models.ScheduleStatusPending
	}

	query := `
		INSERT INTO marketing_campaign_schedules (
			id, company_id, campaign_id, node_id, node_key, run_at, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (campaign_id, node_id, run_at)
		DO UPDATE SET
			node_key = EXCLUDED.node_key,
			status = CASE
				WHEN marketing_campaign_schedules.status = 'completed'
				THEN marketing_campaign_schedules.status
				ELSE EXCLUDED.status
			END,
			updated_at = NOW()
		RETURNING ` + scheduleColumns

	row := r.db.QueryRowContext(ctx, query,
		id.String(),
		input.CompanyID,
		input.CampaignID,
		input.NodeID,
		input.NodeKey,
		input.RunAt.UTC(),
		status,
	)

	record, err := scanSchedule(row)
	if err != nil {
		return nil, persistence.NewScheduleError("Upsert", "", err)
	}

	return record, nil
}

// UpdateJob merges provisioning results into an existing record. Nil
// fields keep the stored value; the error column follows the tri-state
// semantics of models.ScheduleJobUpdate.
func (r *ScheduleRepository) UpdateJob(ctx context.Context, id string, update models.ScheduleJobUpdate) (*models.ScheduleRecord, error) {
	payloadJSON, err := marshalPayload(update.Payload)
	if err != nil {
		return nil, persistence.NewScheduleError("UpdateJob", id, err)
	}

	query := `
		UPDATE marketing_campaign_schedules
		SET
			easycron_job_id = COALESCE($2, easycron_job_id),
			easycron_payload = COALESCE($3, easycron_payload),
			status = COALESCE($4, status),
			error = CASE WHEN $5 THEN $6 ELSE error END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + scheduleColumns

	var status *string
	if update.Status != nil {
		value := string(*update.Status)
		status = &value
	}

	row := r.db.QueryRowContext(ctx, query,
		id,
		update.JobID,
		payloadJSON,
		status,
		update.ErrorProvided,
		update.Error,
	)

	record, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewScheduleError("UpdateJob", id, persistence.ErrScheduleNotFound)
		}

		return nil, persistence.NewScheduleError("UpdateJob", id, err)
	}

	return record, nil
}

// MarkRun stamps the record with the execution outcome reported by the
// run callback. A record that already completed is never restamped;
// duplicate callbacks get ErrScheduleCompleted instead.
func (r *ScheduleRepository) MarkRun(ctx context.Context, id string, status models.ScheduleStatus) (*models.ScheduleRecord, error) {
	query := `
		UPDATE marketing_campaign_schedules
		SET
			status = $2,
			last_run_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
		  AND status <> $3
		RETURNING ` + scheduleColumns

	row := r.db.QueryRowContext(ctx, query, id, status, models.ScheduleStatusCompleted)

	record, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewScheduleError("MarkRun", id, r.classifyMarkRunMiss(ctx, id))
		}

		return nil, persistence.NewScheduleError("MarkRun", id, err)
	}

	return record, nil
}

// classifyMarkRunMiss distinguishes an absent record from a terminal one
// when the guarded MarkRun update matched no row.
func (r *ScheduleRepository) classifyMarkRunMiss(ctx context.Context, id string) error {
	var status models.ScheduleStatus

	err := r.db.QueryRowContext(ctx,
		"SELECT status FROM marketing_campaign_schedules WHERE id = $1", id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ErrScheduleNotFound
		}

		return fmt.Errorf("failed to query schedule status: %w", err)
	}

	if status.IsTerminal() {
		return persistence.ErrScheduleCompleted
	}

	return persistence.ErrScheduleNotFound
}

// GetByID returns a schedule record by its ID.
func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*models.ScheduleRecord, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM marketing_campaign_schedules
		WHERE id = $1
	`

	record, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewScheduleError("GetByID", id, persistence.ErrScheduleNotFound)
		}

		return nil, persistence.NewScheduleError("GetByID", id, err)
	}

	return record, nil
}

// GetLatestByNode returns the record with the most recent run time for
// one launch node of one campaign.
func (r *ScheduleRepository) GetLatestByNode(ctx context.Context, companyID *string, campaignID, nodeID string) (*models.ScheduleRecord, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM marketing_campaign_schedules
		WHERE company_id IS NOT DISTINCT FROM $1
		  AND campaign_id = $2
		  AND node_id = $3
		ORDER BY run_at DESC
		LIMIT 1
	`

	record, err := scanSchedule(r.db.QueryRowContext(ctx, query, companyID, campaignID, nodeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewScheduleError("GetLatestByNode", "", persistence.ErrScheduleNotFound)
		}

		return nil, persistence.NewScheduleError("GetLatestByNode", "", err)
	}

	return record, nil
}

// ListByCampaign returns every schedule record of a campaign, newest
// run time first.
func (r *ScheduleRepository) ListByCampaign(ctx context.Context, campaignID string) ([]*models.ScheduleRecord, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM marketing_campaign_schedules
		WHERE campaign_id = $1
		ORDER BY run_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, persistence.NewScheduleError("ListByCampaign", "", fmt.Errorf("failed to query schedules: %w", err))
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	records := make([]*models.ScheduleRecord, 0)

	for rows.Next() {
		record, err := scanSchedule(rows)
		if err != nil {
			return nil, persistence.NewScheduleError("ListByCampaign", "", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewScheduleError("ListByCampaign", "", fmt.Errorf("error iterating schedules: %w", err))
	}

	return records, nil
}

func marshalPayload(payload map[string]any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	return data, nil
}

func scanSchedule(scanner interface {
	Scan(dest ...any) error
}) (*models.ScheduleRecord, error) {
	var (
		record      models.ScheduleRecord
		payloadJSON []byte
	)

	err := scanner.Scan(
		&record.ID,
		&record.CompanyID,
		&record.CampaignID,
		&record.NodeID,
		&record.NodeKey,
		&record.RunAt,
		&record.Status,
		&record.EasyCronJobID,
		&payloadJSON,
		&record.LastRunAt,
		&record.Error,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if payloadJSON != nil {
		err := json.Unmarshal(payloadJSON, &record.EasyCronPayload)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal job payload: %w", err)
		}
	}

	record.RunAt = record.RunAt.UTC()

	return &record, nil
}
