package models

import "time"

// Campaign status values the engine cares about. Authoring owns the rest.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusLive      = "live"
)

// Campaign is the engine's read view of a marketing campaign. StartsAt is
// the campaign base time for run-time resolution; nil falls back to the
// invocation's injected now.
type Campaign struct {
	ID        string     `json:"id"         validate:"required"`
	Scope     GraphScope `json:"scope"      validate:"required,oneof=global company"`
	CompanyID *string    `json:"company_id,omitempty"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BaseTime returns the campaign's configured start time, or now when the
// campaign has none.
func (c *Campaign) BaseTime(now time.Time) time.Time {
	if c == nil || c.StartsAt == nil || c.StartsAt.IsZero() {
		return now
	}

	return *c.StartsAt
}
