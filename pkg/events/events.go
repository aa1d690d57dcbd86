// Package events defines event types and structures for schedule
// lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/wrenchworks/campaignd/pkg/models"
)

type EventType string

// Topic is the channel every schedule lifecycle event is published on.
const Topic = "campaignd.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ScheduleCreatedEvent         EventType = "schedule.created"
	ScheduleProvisionedEvent     EventType = "schedule.provisioned"
	ScheduleProvisionFailedEvent EventType = "schedule.provision_failed"
	ScheduleRunCompletedEvent    EventType = "schedule.run_completed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	CampaignID string         `json:"campaign_id"`
	CompanyID  *string        `json:"company_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, campaignID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		CampaignID: campaignID,
		Metadata:   make(map[string]any),
	}
}

// ScheduleCreated is published after a schedule record was upserted for
// a resolved launch node.
type ScheduleCreated struct {
	BaseEvent

	ScheduleID string                `json:"schedule_id"`
	NodeID     string                `json:"node_id"`
	RunAt      time.Time             `json:"run_at"`
	Status     models.ScheduleStatus `json:"status"`
}

func (s ScheduleCreated) GetType() EventType {
	return ScheduleCreatedEvent
}

// ScheduleProvisioned is published after the external one-shot job was
// created for a schedule record.
type ScheduleProvisioned struct {
	BaseEvent

	ScheduleID string  `json:"schedule_id"`
	NodeID     string  `json:"node_id"`
	JobID      *string `json:"job_id,omitempty"`
}

func (s ScheduleProvisioned) GetType() EventType {
	return ScheduleProvisionedEvent
}

// ScheduleProvisionFailed is published when provisioning one launch node
// failed. Sibling nodes are unaffected.
type ScheduleProvisionFailed struct {
	BaseEvent

	ScheduleID string `json:"schedule_id"`
	NodeID     string `json:"node_id"`
	Error      string `json:"error"`
}

func (s ScheduleProvisionFailed) GetType() EventType {
	return ScheduleProvisionFailedEvent
}

// ScheduleRunCompleted is published when the run callback reported a
// finished execution.
type ScheduleRunCompleted struct {
	BaseEvent

	ScheduleID string                `json:"schedule_id"`
	NodeID     string                `json:"node_id"`
	Status     models.ScheduleStatus `json:"status"`
	RanAt      time.Time             `json:"ran_at"`
}

func (s ScheduleRunCompleted) GetType() EventType {
	return ScheduleRunCompletedEvent
}
