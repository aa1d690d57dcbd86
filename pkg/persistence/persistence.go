// Package persistence provides the data storage abstraction layer for
// campaign scheduling: schedule records owned by the engine, plus read
// contracts over the graphs, campaigns and settings owned by authoring.
package persistence

import (
	"context"
	"time"

	"github.com/wrenchworks/campaignd/pkg/models"
)

// ScheduleUpsert identifies the unique record for one logical trigger
// instant of one launch node.
type ScheduleUpsert struct {
	CompanyID  *string
	CampaignID string
	NodeID     string
	NodeKey    string
	RunAt      time.Time
	Status     models.ScheduleStatus
}

// ScheduleRepository owns the engine's durable state. Upsert must be
// atomic on (campaign_id, node_id, run_at): two concurrent invocations
// for the same campaign never produce duplicate records.
type ScheduleRepository interface {
	Upsert(ctx context.Context, input ScheduleUpsert) (*models.ScheduleRecord, error)
	UpdateJob(ctx context.Context, id string, update models.ScheduleJobUpdate) (*models.ScheduleRecord, error)
	MarkRun(ctx context.Context, id string, status models.ScheduleStatus) (*models.ScheduleRecord, error)
	GetByID(ctx context.Context, id string) (*models.ScheduleRecord, error)
	GetLatestByNode(ctx context.Context, companyID *string, campaignID, nodeID string) (*models.ScheduleRecord, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]*models.ScheduleRecord, error)
}

// GraphRepository reads builder graphs. The engine never mutates them.
type GraphRepository interface {
	GetGraph(ctx context.Context, scope models.GraphScope, companyID *string, campaignID string) (*models.CampaignGraph, error)
}

// SettingsRepository reads per-company scheduling configuration.
type SettingsRepository interface {
	GetMarketingSettings(ctx context.Context, companyID string) (*models.MarketingSettings, error)
}

// CampaignRepository reads campaigns and flips their status after a
// completed launch run.
type CampaignRepository interface {
	GetCampaign(ctx context.Context, scope models.GraphScope, companyID *string, campaignID string) (*models.Campaign, error)
	MarkLive(ctx context.Context, scope models.GraphScope, companyID *string, campaignID string) error
}

// Persistence aggregates every repository the engine needs.
type Persistence interface {
	Schedules() ScheduleRepository
	Graphs() GraphRepository
	Settings() SettingsRepository
	Campaigns() CampaignRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
