package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphNodeKind(t *testing.T) {
	assert.Equal(t, NodeKindLaunch, (&GraphNode{Key: "launch"}).Kind())
	assert.Equal(t, NodeKindDelay, (&GraphNode{Key: "delay"}).Kind())
	assert.Equal(t, NodeKindOther, (&GraphNode{Key: "audience"}).Kind())
	assert.Equal(t, NodeKindOther, (&GraphNode{}).Kind())
}

func TestGraphNodeIncomingNodeID(t *testing.T) {
	assert.Empty(t, (&GraphNode{}).IncomingNodeID())
	assert.Empty(t, (&GraphNode{Incoming: []string{""}}).IncomingNodeID())
	assert.Equal(t, "a", (&GraphNode{Incoming: []string{"", "a", "b"}}).IncomingNodeID())
}

func TestCampaignGraphLaunchNodes(t *testing.T) {
	graph := &CampaignGraph{
		Nodes: map[string]*GraphNode{
			"1": {ID: "1", Key: "launch"},
			"2": {ID: "2", Key: "delay"},
			"3": {ID: "3", Key: "launch"},
		},
	}

	launches := graph.LaunchNodes()
	assert.Len(t, launches, 2)

	empty := &CampaignGraph{Nodes: map[string]*GraphNode{}}
	assert.Empty(t, empty.LaunchNodes())
}

func TestDelaySettingsOf(t *testing.T) {
	node := &GraphNode{
		Key: "delay",
		Settings: map[string]any{
			"waitType":   "duration",
			"waitAmount": float64(5),
			"waitUnit":   "hours",
		},
	}

	settings := DelaySettingsOf(node)
	assert.Equal(t, WaitTypeDuration, settings.WaitType)
	assert.InDelta(t, 5, settings.WaitAmount, 0.0001)
	assert.Equal(t, "hours", settings.WaitUnit)

	assert.Zero(t, DelaySettingsOf(nil))
	assert.Zero(t, DelaySettingsOf(&GraphNode{Key: "delay"}))

	mistyped := DelaySettingsOf(&GraphNode{Settings: map[string]any{"waitAmount": "ten", "waitType": 4}})
	assert.Zero(t, mistyped.WaitAmount)
	assert.Empty(t, mistyped.WaitType)
}

func TestDelaySettingsAbsoluteTime(t *testing.T) {
	cases := []struct {
		raw      string
		expected time.Time
	}{
		{"2026-06-15T10:30:00Z", time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"2026-06-15T10:30:00", time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"2026-06-15T10:30", time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"2026-06-15", time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		settings := DelaySettings{WaitType: WaitTypeDateTime, WaitDateTime: tc.raw}

		at, ok := settings.AbsoluteTime()
		require.True(t, ok, tc.raw)
		assert.True(t, tc.expected.Equal(at), tc.raw)
	}

	_, ok := DelaySettings{WaitType: WaitTypeDateTime, WaitDateTime: "soon"}.AbsoluteTime()
	assert.False(t, ok)

	_, ok = DelaySettings{WaitType: WaitTypeDateTime}.AbsoluteTime()
	assert.False(t, ok)

	// Duration delays never produce an absolute time even when a
	// datetime value is present.
	_, ok = DelaySettings{WaitType: WaitTypeDuration, WaitDateTime: "2026-06-15"}.AbsoluteTime()
	assert.False(t, ok)
}

func TestDelaySettingsOffset(t *testing.T) {
	offset := func(amount float64, unit string) time.Duration {
		return DelaySettings{WaitType: WaitTypeDuration, WaitAmount: amount, WaitUnit: unit}.Offset()
	}

	assert.Equal(t, 30*time.Minute, offset(30, "minutes"))
	assert.Equal(t, 2*time.Hour, offset(2, "hours"))
	assert.Equal(t, 72*time.Hour, offset(3, "days"))
	assert.Equal(t, 90*time.Minute, offset(1.5, "hours"))

	assert.Zero(t, offset(10, "weeks"))
	assert.Zero(t, offset(0, "hours"))
	assert.Zero(t, offset(-5, "hours"))
	assert.Zero(t, DelaySettings{WaitType: WaitTypeDateTime, WaitAmount: 5, WaitUnit: "hours"}.Offset())
}
