package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleError(t *testing.T) {
	inner := errors.New("connection reset")

	withID := NewScheduleError("Upsert", "sched-1", inner)
	assert.Equal(t, "Upsert operation failed for schedule sched-1: connection reset", withID.Error())
	assert.Equal(t, inner, withID.Unwrap())

	withoutID := NewScheduleError("ListByCampaign", "", inner)
	assert.Equal(t, "ListByCampaign operation failed: connection reset", withoutID.Error())
}

func TestScheduleErrorIs(t *testing.T) {
	wrapped := NewScheduleError("GetByID", "sched-1", ErrScheduleNotFound)

	assert.True(t, errors.Is(wrapped, ErrScheduleNotFound))
	assert.True(t, IsScheduleNotFound(wrapped))
	assert.False(t, IsScheduleCompleted(wrapped))

	doubly := fmt.Errorf("failed to load: %w", wrapped)
	assert.True(t, IsScheduleNotFound(doubly))
}

func TestNotFoundHelpers(t *testing.T) {
	assert.True(t, IsGraphNotFound(ErrGraphNotFound))
	assert.True(t, IsCampaignNotFound(ErrCampaignNotFound))
	assert.True(t, IsSettingsNotFound(ErrSettingsNotFound))
	assert.True(t, IsScheduleCompleted(ErrScheduleCompleted))

	assert.False(t, IsGraphNotFound(ErrCampaignNotFound))
	assert.False(t, IsScheduleNotFound(nil))
}
