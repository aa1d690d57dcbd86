// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrScheduleNotFound indicates no schedule record exists for the given identifier.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrGraphNotFound indicates no builder graph exists for the given scope and campaign.
	ErrGraphNotFound = errors.New("campaign graph not found")

	// ErrCampaignNotFound indicates no campaign exists for the given identifier.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrSettingsNotFound indicates a company has no marketing settings row.
	ErrSettingsNotFound = errors.New("marketing settings not found")

	// ErrScheduleCompleted indicates an update targeted a completed, terminal record.
	ErrScheduleCompleted = errors.New("schedule already completed")
)

// ScheduleError wraps schedule-related errors with additional context.
type ScheduleError struct {
	Op         string // Operation being performed (e.g. "Upsert", "MarkRun")
	ScheduleID string // Schedule record ID if applicable
	Err        error  // Underlying error
}

func (e *ScheduleError) Error() string {
	if e.ScheduleID != "" {
		return fmt.Sprintf("%s operation failed for schedule %s: %v", e.Op, e.ScheduleID, e.Err)
	}

	return fmt.Sprintf("%s operation failed: %v", e.Op, e.Err)
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}

func (e *ScheduleError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewScheduleError creates a new schedule error with context.
func NewScheduleError(op, scheduleID string, err error) *ScheduleError {
	return &ScheduleError{
		Op:         op,
		ScheduleID: scheduleID,
		Err:        err,
	}
}

// IsScheduleNotFound checks if an error indicates a missing schedule record.
func IsScheduleNotFound(err error) bool {
	return errors.Is(err, ErrScheduleNotFound)
}

// IsGraphNotFound checks if an error indicates a missing builder graph.
func IsGraphNotFound(err error) bool {
	return errors.Is(err, ErrGraphNotFound)
}

// IsCampaignNotFound checks if an error indicates a missing campaign.
func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

// IsSettingsNotFound checks if an error indicates missing marketing settings.
func IsSettingsNotFound(err error) bool {
	return errors.Is(err, ErrSettingsNotFound)
}

// IsScheduleCompleted checks if an error indicates a terminal record.
func IsScheduleCompleted(err error) bool {
	return errors.Is(err, ErrScheduleCompleted)
}
