package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleStatusIsTerminal(t *testing.T) {
	assert.True(t, ScheduleStatusCompleted.IsTerminal())

	for _, status := range []ScheduleStatus{
		ScheduleStatusPending,
		ScheduleStatusScheduled,
		ScheduleStatusRunning,
		ScheduleStatusFailed,
	} {
		assert.False(t, status.IsTerminal(), string(status))
	}
}

func TestScheduleJobUpdateWithError(t *testing.T) {
	var update ScheduleJobUpdate

	// Without WithError the stored error must be preserved.
	assert.False(t, update.ErrorProvided)

	message := "provider rejected the job"
	withMessage := update.WithError(&message)
	assert.True(t, withMessage.ErrorProvided)
	assert.Equal(t, &message, withMessage.Error)

	cleared := update.WithError(nil)
	assert.True(t, cleared.ErrorProvided)
	assert.Nil(t, cleared.Error)

	// WithError copies; the original update is untouched.
	assert.False(t, update.ErrorProvided)
}
