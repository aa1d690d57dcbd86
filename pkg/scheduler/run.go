package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wrenchworks/campaignd/pkg/events"
	"github.com/wrenchworks/campaignd/pkg/models"
	"github.com/wrenchworks/campaignd/pkg/persistence"
	"github.com/wrenchworks/campaignd/pkg/tracing"
)

// RunCallbackRequest describes an execution callback from the external
// job service. ScheduleID takes precedence; when empty the latest record
// for NodeID is used.
type RunCallbackRequest struct {
	CompanyID  *string
	CampaignID string `validate:"required"`
	ScheduleID string
	NodeID     string
	Status     models.ScheduleStatus
}

// CompleteRun handles a fired job: it marks the schedule running, records
// the final status with the run timestamp, and flips the campaign live
// when a launch node completed.
func (s *Service) CompleteRun(ctx context.Context, req RunCallbackRequest) (*models.ScheduleRecord, error) {
	ctx, span := s.startRunSpan(ctx, req)
	defer span.End()

	record, err := s.lookupRunTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	if record.Status.IsTerminal() {
		return nil, persistence.NewScheduleError("CompleteRun", record.ID, persistence.ErrScheduleCompleted)
	}

	runningStatus := models.ScheduleStatusRunning

	_, err = s.persistence.Schedules().UpdateJob(ctx, record.ID,
		models.ScheduleJobUpdate{Status: &runningStatus})
	if err != nil {
		return nil, fmt.Errorf("failed to mark schedule running: %w", err)
	}

	finalStatus := req.Status
	if finalStatus == "" {
		finalStatus = models.ScheduleStatusCompleted
	}

	updated, err := s.persistence.Schedules().MarkRun(ctx, record.ID, finalStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to record schedule run: %w", err)
	}

	if updated.NodeKey == models.NodeKeyLaunch && finalStatus == models.ScheduleStatusCompleted {
		s.markCampaignLive(ctx, req)
	}

	ranAt := time.Now().UTC()
	if updated.LastRunAt != nil {
		ranAt = *updated.LastRunAt
	}

	s.publish(ctx, updated.ID, events.ScheduleRunCompleted{
		BaseEvent: s.baseEvent(events.ScheduleRunCompletedEvent, ScheduleCampaignRequest{
			CompanyID:  req.CompanyID,
			CampaignID: req.CampaignID,
		}),
		ScheduleID: updated.ID,
		NodeID:     updated.NodeID,
		Status:     updated.Status,
		RanAt:      ranAt,
	})

	return updated, nil
}

// lookupRunTarget finds the schedule record a callback refers to.
func (s *Service) lookupRunTarget(ctx context.Context, req RunCallbackRequest) (*models.ScheduleRecord, error) {
	if req.ScheduleID != "" {
		return s.persistence.Schedules().GetByID(ctx, req.ScheduleID)
	}

	if req.NodeID == "" {
		return nil, persistence.ErrScheduleNotFound
	}

	return s.persistence.Schedules().GetLatestByNode(ctx, req.CompanyID, req.CampaignID, req.NodeID)
}

// markCampaignLive transitions the campaign into its live status. The
// campaign row may legitimately be absent, so only unexpected failures
// are logged.
func (s *Service) markCampaignLive(ctx context.Context, req RunCallbackRequest) {
	scope := models.GraphScopeGlobal
	if req.CompanyID != nil {
		scope = models.GraphScopeCompany
	}

	err := s.persistence.Campaigns().MarkLive(ctx, scope, req.CompanyID, req.CampaignID)
	if err != nil && !persistence.IsCampaignNotFound(err) {
		s.logger.WarnContext(ctx, "failed to mark campaign live",
			"campaign_id", req.CampaignID, "error", err)
	}
}

func (s *Service) startRunSpan(ctx context.Context, req RunCallbackRequest) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	attrs := []attribute.KeyValue{
		attribute.String(tracing.CampaignIDKey, req.CampaignID),
	}
	if req.ScheduleID != "" {
		attrs = append(attrs, attribute.String(tracing.ScheduleIDKey, req.ScheduleID))
	}
	if req.NodeID != "" {
		attrs = append(attrs, attribute.String(tracing.NodeIDKey, req.NodeID))
	}

	return tracing.StartSpan(ctx, s.tracer, "CompleteRun", attrs...)
}
