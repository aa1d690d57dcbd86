package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenchworks/campaignd/pkg/channels/gochannel"
	"github.com/wrenchworks/campaignd/pkg/eventbus"
	"github.com/wrenchworks/campaignd/pkg/events"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func TestWatermillEventBus_PublishAndSubscribe(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.ScheduleCreated, 1)

	err := bus.Handle(events.ScheduleCreatedEvent, func(ctx context.Context, event any) error {
		created, ok := event.(*events.ScheduleCreated)
		if ok {
			received <- created
		}

		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	event := events.ScheduleCreated{
		BaseEvent:  events.NewBaseEvent(events.ScheduleCreatedEvent, "campaign-1"),
		ScheduleID: "sched-1",
		NodeID:     "node-1",
		RunAt:      time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		Status:     "scheduled",
	}

	require.NoError(t, bus.Publish(ctx, "sched-1", event))

	select {
	case created := <-received:
		assert.Equal(t, "sched-1", created.ScheduleID)
		assert.Equal(t, "campaign-1", created.CampaignID)
		assert.Equal(t, events.ScheduleCreatedEvent, created.GetType())
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event delivery")
	}
}

func TestWatermillEventBus_DuplicateHandlerRejected(t *testing.T) {
	bus := newTestBus(t)

	handler := func(ctx context.Context, event any) error { return nil }

	require.NoError(t, bus.Handle(events.ScheduleProvisionedEvent, handler))

	err := bus.Handle(events.ScheduleProvisionedEvent, handler)
	assert.ErrorIs(t, err, eventbus.ErrHandlerRegistered)
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
