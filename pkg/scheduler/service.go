// Package scheduler composes graph resolution, schedule persistence and
// external job provisioning into the campaign scheduling engine.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wrenchworks/campaignd/pkg/easycron"
	"github.com/wrenchworks/campaignd/pkg/eventbus"
	"github.com/wrenchworks/campaignd/pkg/events"
	"github.com/wrenchworks/campaignd/pkg/graph"
	"github.com/wrenchworks/campaignd/pkg/models"
	"github.com/wrenchworks/campaignd/pkg/persistence"
	"github.com/wrenchworks/campaignd/pkg/tracing"
)

// Warnings surfaced by ScheduleCampaign for degraded but non-fatal
// outcomes.
const (
	WarningGraphNotFound     = "Campaign graph not found."
	WarningSchedulingOff     = "Launch scheduling is disabled in marketing settings."
	WarningNoLaunchNodes     = "No launch nodes found in campaign graph."
	WarningNoAPIKey          = "EasyCron API key is not configured."
	WarningNoBaseURL         = "Base URL not provided; EasyCron jobs were not created."
)

// Provisioner creates one-shot jobs with the external execution service.
type Provisioner interface {
	CreateOneShotJob(ctx context.Context, input easycron.CreateJobInput) (*easycron.Job, error)
}

// Service is the scheduling orchestrator. All work for one invocation is
// sequential per launch node; the schedule store's atomic upsert is the
// only concurrency boundary.
type Service struct {
	persistence persistence.Persistence
	provisioner Provisioner
	eventBus    eventbus.EventPublisher
	tracer      trace.Tracer
	logger      *slog.Logger

	// Clock supplies "now" for base-time fallback and clamping.
	// Overridable so resolution stays deterministic under test.
	Clock func() time.Time
}

// NewService creates a new scheduling service. The event bus and tracer
// are optional; nil disables them.
func NewService(
	persist persistence.Persistence,
	provisioner Provisioner,
	eventBus eventbus.EventPublisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		persistence: persist,
		provisioner: provisioner,
		eventBus:    eventBus,
		logger:      logger,
		Clock:       time.Now,
	}
}

// WithTracer attaches an OpenTelemetry tracer to the service.
func (s *Service) WithTracer(tracer trace.Tracer) *Service {
	s.tracer = tracer

	return s
}

// ScheduleCampaignRequest identifies the campaign to (re)schedule.
// BaseURL is the public origin run callbacks are built against; when
// empty, records are created but no external jobs.
type ScheduleCampaignRequest struct {
	Scope      models.GraphScope `validate:"required,oneof=global company"`
	CompanyID  *string
	CampaignID string `validate:"required"`
	BaseURL    string
}

// ScheduleCampaignResult is the invocation outcome: one record per
// resolvable launch node plus warnings explaining any gaps. Completeness
// is inferred by comparing the schedules against expectations; there is
// no single success flag.
type ScheduleCampaignResult struct {
	Schedules []*models.ScheduleRecord `json:"schedules"`
	Warnings  []string                 `json:"warnings"`
}

// ScheduleCampaign resolves every launch node of the campaign graph into
// a concrete run time, upserts one schedule record per node, and - when
// provider credentials and a base URL are configured - provisions a
// one-shot job per record. Provisioning failures are isolated per node;
// store failures abort the invocation.
func (s *Service) ScheduleCampaign(ctx context.Context, req ScheduleCampaignRequest) (*ScheduleCampaignResult, error) {
	ctx, span := s.startSpan(ctx, "ScheduleCampaign", req)
	defer span.End()

	result := &ScheduleCampaignResult{
		Schedules: []*models.ScheduleRecord{},
		Warnings:  []string{},
	}

	campaignGraph, err := s.persistence.Graphs().GetGraph(ctx, req.Scope, req.CompanyID, req.CampaignID)
	if err != nil {
		if persistence.IsGraphNotFound(err) {
			result.Warnings = append(result.Warnings, WarningGraphNotFound)

			return result, nil
		}

		tracing.SetError(span, err)

		return nil, fmt.Errorf("failed to load campaign graph: %w", err)
	}

	settings, err := s.loadSettings(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	if settings != nil && !settings.ScheduleLaunch {
		result.Warnings = append(result.Warnings, WarningSchedulingOff)

		return result, nil
	}

	now := s.Clock().UTC()
	baseTime := s.campaignBaseTime(ctx, req, now)

	launches := campaignGraph.LaunchNodes()
	if len(launches) == 0 {
		result.Warnings = append(result.Warnings, WarningNoLaunchNodes)

		return result, nil
	}

	// Launch nodes come out of a map; process them in stable order.
	sort.Slice(launches, func(i, j int) bool { return launches[i].ID < launches[j].ID })

	hasCredentials := settings.HasProviderCredentials()

	for _, launch := range launches {
		record, err := s.scheduleLaunchNode(ctx, req, settings, launch, campaignGraph.Nodes, baseTime, now)
		if err != nil {
			tracing.SetError(span, err, attribute.String(tracing.NodeIDKey, launch.ID))

			return nil, err
		}

		if record == nil {
			// Unresolvable node: local recovery, no record, no warning.
			continue
		}

		result.Schedules = append(result.Schedules, record)
	}

	if !hasCredentials {
		result.Warnings = append(result.Warnings, WarningNoAPIKey)
	}

	if req.BaseURL == "" {
		result.Warnings = append(result.Warnings, WarningNoBaseURL)
	}

	return result, nil
}

// scheduleLaunchNode resolves, upserts and optionally provisions one
// launch node. A nil record with nil error means the node was skipped.
func (s *Service) scheduleLaunchNode(
	ctx context.Context,
	req ScheduleCampaignRequest,
	settings *models.MarketingSettings,
	launch *models.GraphNode,
	nodes map[string]*models.GraphNode,
	baseTime, now time.Time,
) (*models.ScheduleRecord, error) {
	runAtRaw, ok := graph.ResolveRunAt(launch.ID, nodes, baseTime)
	if !ok {
		return nil, nil
	}

	runAt := graph.ClampToFuture(runAtRaw, now)

	status := models.ScheduleStatusPending
	if settings.HasProviderCredentials() {
		status = models.ScheduleStatusScheduled
	}

	nodeKey := launch.Key
	if nodeKey == "" {
		nodeKey = models.NodeKeyLaunch
	}

	record, err := s.persistence.Schedules().Upsert(ctx, persistence.ScheduleUpsert{
		CompanyID:  req.CompanyID,
		CampaignID: req.CampaignID,
		NodeID:     launch.ID,
		NodeKey:    nodeKey,
		RunAt:      runAt,
		Status:     status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save campaign schedule: %w", err)
	}

	s.publish(ctx, record.ID, events.ScheduleCreated{
		BaseEvent:  s.baseEvent(events.ScheduleCreatedEvent, req),
		ScheduleID: record.ID,
		NodeID:     launch.ID,
		RunAt:      record.RunAt,
		Status:     record.Status,
	})

	if !settings.HasProviderCredentials() || req.BaseURL == "" {
		return record, nil
	}

	return s.provisionLaunchNode(ctx, req, settings, launch, record, runAt)
}

// provisionLaunchNode creates the external one-shot job for one record.
// Provider failures are recorded on the node's own record and never
// bubble up to sibling nodes.
func (s *Service) provisionLaunchNode(
	ctx context.Context,
	req ScheduleCampaignRequest,
	settings *models.MarketingSettings,
	launch *models.GraphNode,
	record *models.ScheduleRecord,
	runAt time.Time,
) (*models.ScheduleRecord, error) {
	scheduledStatus := models.ScheduleStatusScheduled
	failedStatus := models.ScheduleStatusFailed

	job, err := s.createJob(ctx, req, settings, launch, record, runAt)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to provision easycron job",
			"campaign_id", req.CampaignID, "node_id", launch.ID, "error", err)

		message := err.Error()

		updated, updateErr := s.persistence.Schedules().UpdateJob(ctx, record.ID,
			models.ScheduleJobUpdate{Status: &failedStatus}.WithError(&message))
		if updateErr != nil {
			return nil, fmt.Errorf("failed to record provisioning failure: %w", updateErr)
		}

		s.publish(ctx, record.ID, events.ScheduleProvisionFailed{
			BaseEvent:  s.baseEvent(events.ScheduleProvisionFailedEvent, req),
			ScheduleID: record.ID,
			NodeID:     launch.ID,
			Error:      message,
		})

		return updated, nil
	}

	updated, updateErr := s.persistence.Schedules().UpdateJob(ctx, record.ID,
		models.ScheduleJobUpdate{
			JobID:   job.ID,
			Payload: job.Payload,
			Status:  &scheduledStatus,
		}.WithError(nil))
	if updateErr != nil {
		return nil, fmt.Errorf("failed to record provisioned job: %w", updateErr)
	}

	s.publish(ctx, record.ID, events.ScheduleProvisioned{
		BaseEvent:  s.baseEvent(events.ScheduleProvisionedEvent, req),
		ScheduleID: record.ID,
		NodeID:     launch.ID,
		JobID:      job.ID,
	})

	return updated, nil
}

func (s *Service) createJob(
	ctx context.Context,
	req ScheduleCampaignRequest,
	settings *models.MarketingSettings,
	launch *models.GraphNode,
	record *models.ScheduleRecord,
	runAt time.Time,
) (*easycron.Job, error) {
	callbackURL, err := runCallbackURL(req.BaseURL, req.CampaignID, record.ID, launch.ID)
	if err != nil {
		return nil, err
	}

	return s.provisioner.CreateOneShotJob(ctx, easycron.CreateJobInput{
		APIKey:   settings.EasyCronAPIKey,
		URL:      callbackURL,
		RunAt:    runAt,
		Timezone: settings.EasyCronTimezone,
		JobName:  fmt.Sprintf("campaign-%s-node-%s", req.CampaignID, launch.ID),
	})
}

func (s *Service) loadSettings(ctx context.Context, companyID *string) (*models.MarketingSettings, error) {
	if companyID == nil {
		return nil, nil
	}

	settings, err := s.persistence.Settings().GetMarketingSettings(ctx, *companyID)
	if err != nil {
		if persistence.IsSettingsNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to load marketing settings: %w", err)
	}

	return settings, nil
}

// campaignBaseTime returns the campaign's configured start time, falling
// back to now when the campaign is missing or has none.
func (s *Service) campaignBaseTime(ctx context.Context, req ScheduleCampaignRequest, now time.Time) time.Time {
	campaign, err := s.persistence.Campaigns().GetCampaign(ctx, req.Scope, req.CompanyID, req.CampaignID)
	if err != nil {
		if !persistence.IsCampaignNotFound(err) {
			s.logger.WarnContext(ctx, "failed to load campaign start time",
				"campaign_id", req.CampaignID, "error", err)
		}

		return now
	}

	return campaign.BaseTime(now)
}

func (s *Service) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	err := s.eventBus.Publish(ctx, key, event)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish schedule event",
			"event_type", event.GetType(), "error", err)
	}
}

func (s *Service) baseEvent(eventType events.EventType, req ScheduleCampaignRequest) events.BaseEvent {
	base := events.NewBaseEvent(eventType, req.CampaignID)
	base.CompanyID = req.CompanyID

	return base
}

func (s *Service) startSpan(ctx context.Context, name string, req ScheduleCampaignRequest) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	attrs := []attribute.KeyValue{
		attribute.String(tracing.CampaignIDKey, req.CampaignID),
	}
	if req.CompanyID != nil {
		attrs = append(attrs, attribute.String(tracing.CompanyIDKey, *req.CompanyID))
	}

	return tracing.StartSpan(ctx, s.tracer, name, attrs...)
}

// runCallbackURL builds the URL the provider invokes when the job fires.
func runCallbackURL(baseURL, campaignID, scheduleID, nodeID string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid base URL: %q", baseURL)
	}

	parsed = parsed.JoinPath("campaigns", campaignID, "run")

	query := parsed.Query()
	query.Set("scheduleId", scheduleID)
	query.Set("nodeId", nodeID)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
