package models

import "time"

// ScheduleStatus represents the lifecycle state of a schedule record.
type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"   // Recorded, not yet provisioned
	ScheduleStatusScheduled ScheduleStatus = "scheduled" // Provisioned with an external job
	ScheduleStatusRunning   ScheduleStatus = "running"   // Run callback received, execution in progress
	ScheduleStatusFailed    ScheduleStatus = "failed"    // Provisioning or execution errored
	ScheduleStatusCompleted ScheduleStatus = "completed" // Job fired and finished; terminal
)

// IsTerminal reports whether the status can no longer be revisited by
// re-resolution. Only completed records are frozen.
func (s ScheduleStatus) IsTerminal() bool {
	return s == ScheduleStatusCompleted
}

// ScheduleRecord is one resolved, (re)provisionable trigger instant for
// one launch node. Unique on (campaign_id, node_id, run_at): re-resolving
// the same graph updates the same record instead of duplicating it.
type ScheduleRecord struct {
	ID              string         `json:"id"`
	CompanyID       *string        `json:"company_id,omitempty"` // Nil for global-scope campaigns
	CampaignID      string         `json:"campaign_id"           validate:"required"`
	NodeID          string         `json:"node_id"               validate:"required"`
	NodeKey         string         `json:"node_key"              validate:"required"`
	RunAt           time.Time      `json:"run_at"                validate:"required"`
	Status          ScheduleStatus `json:"status"`
	EasyCronJobID   *string        `json:"easycron_job_id,omitempty"`
	EasyCronPayload map[string]any `json:"easycron_payload,omitempty"`
	LastRunAt       *time.Time     `json:"last_run_at,omitempty"`
	Error           *string        `json:"error,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ScheduleJobUpdate carries a partial update for a schedule record after
// a provisioning attempt. Nil fields keep the stored value. The error
// field is tri-state: when ErrorProvided is false the stored error is
// preserved, when true a nil Error clears it.
type ScheduleJobUpdate struct {
	JobID         *string
	Payload       map[string]any
	Status        *ScheduleStatus
	Error         *string
	ErrorProvided bool
}

// WithError returns a copy of the update that sets the error field.
// A nil message clears the stored error.
func (u ScheduleJobUpdate) WithError(message *string) ScheduleJobUpdate {
	u.Error = message
	u.ErrorProvided = true

	return u
}
