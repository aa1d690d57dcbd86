package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenchworks/campaignd/pkg/models"
	"github.com/wrenchworks/campaignd/pkg/testutil"
)

func nodesByID(nodes ...*models.GraphNode) map[string]*models.GraphNode {
	byID := make(map[string]*models.GraphNode, len(nodes))
	for _, node := range nodes {
		byID[node.ID] = node
	}

	return byID
}

func TestResolveRunAt_NoPredecessor(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	nodes := nodesByID(testutil.CreateTestNode(testutil.WithID("launch")))

	runAt, ok := ResolveRunAt("launch", nodes, base)
	require.True(t, ok)
	assert.Equal(t, base, runAt)
}

func TestResolveRunAt_UnknownNode(t *testing.T) {
	nodes := nodesByID(testutil.CreateTestNode(testutil.WithID("launch")))

	_, ok := ResolveRunAt("missing", nodes, time.Now())
	assert.False(t, ok)
}

func TestResolveRunAt_AccumulatesRelativeDelays(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	nodes := nodesByID(
		testutil.CreateTestNode(testutil.WithID("d1"), testutil.WithDurationDelay(30, "minutes")),
		testutil.CreateTestNode(testutil.WithID("d2"), testutil.WithDurationDelay(2, "hours"), testutil.WithIncoming("d1")),
		testutil.CreateTestNode(testutil.WithID("d3"), testutil.WithDurationDelay(1, "days"), testutil.WithIncoming("d2")),
		testutil.CreateTestNode(testutil.WithID("launch"), testutil.WithIncoming("d3")),
	)

	runAt, ok := ResolveRunAt("launch", nodes, base)
	require.True(t, ok)
	assert.Equal(t, base.Add(24*time.Hour+2*time.Hour+30*time.Minute), runAt)
}

func TestResolveRunAt_AbsoluteDelayWins(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	absolute := "2026-06-15T10:30:00Z"

	// Offset accumulated before the absolute delay is discarded.
	nodes := nodesByID(
		testutil.CreateTestNode(testutil.WithID("d1"), testutil.WithDateTimeDelay(absolute)),
		testutil.CreateTestNode(testutil.WithID("d2"), testutil.WithDurationDelay(5, "hours"), testutil.WithIncoming("d1")),
		testutil.CreateTestNode(testutil.WithID("launch"), testutil.WithIncoming("d2")),
	)

	runAt, ok := ResolveRunAt("launch", nodes, base)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 6, 15, 10, 30, 0, 0, time.UTC), runAt)
}

func TestResolveRunAt_UnparseableAbsoluteFallsThrough(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	nodes := nodesByID(
		testutil.CreateTestNode(testutil.WithID("d1"), testutil.WithDateTimeDelay("not-a-date")),
		testutil.CreateTestNode(testutil.WithID("launch"), testutil.WithIncoming("d1")),
	)

	runAt, ok := ResolveRunAt("launch", nodes, base)
	require.True(t, ok)
	assert.Equal(t, base, runAt)
}

func TestResolveRunAt_UnknownUnitContributesNothing(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	nodes := nodesByID(
		testutil.CreateTestNode(testutil.WithID("d1"), testutil.WithDurationDelay(3, "fortnights")),
		testutil.CreateTestNode(testutil.WithID("d2"), testutil.WithDurationDelay(1, "hours"), testutil.WithIncoming("d1")),
		testutil.CreateTestNode(testutil.WithID("launch"), testutil.WithIncoming("d2")),
	)

	runAt, ok := ResolveRunAt("launch", nodes, base)
	require.True(t, ok)
	assert.Equal(t, base.Add(time.Hour), runAt)
}

func TestResolveRunAt_CycleTerminates(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	nodes := nodesByID(
		testutil.CreateTestNode(testutil.WithID("d1"), testutil.WithDurationDelay(1, "hours"), testutil.WithIncoming("d2")),
		testutil.CreateTestNode(testutil.WithID("d2"), testutil.WithDurationDelay(1, "hours"), testutil.WithIncoming("d1")),
		testutil.CreateTestNode(testutil.WithID("launch"), testutil.WithIncoming("d1")),
	)

	runAt, ok := ResolveRunAt("launch", nodes, base)
	require.True(t, ok)

	// Each delay contributes exactly once before the cycle is cut.
	assert.Equal(t, base.Add(2*time.Hour), runAt)
}

func TestResolveRunAt_DanglingIncomingReference(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	nodes := nodesByID(
		testutil.CreateTestNode(testutil.WithID("launch"), testutil.WithIncoming("ghost")),
	)

	runAt, ok := ResolveRunAt("launch", nodes, base)
	require.True(t, ok)
	assert.Equal(t, base, runAt)
}

func TestResolveRunAt_IsDeterministic(t *testing.T) {
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	nodes := nodesByID(
		testutil.CreateTestNode(testutil.WithID("d1"), testutil.WithDurationDelay(15, "minutes")),
		testutil.CreateTestNode(testutil.WithID("launch"), testutil.WithIncoming("d1")),
	)

	first, ok := ResolveRunAt("launch", nodes, base)
	require.True(t, ok)

	for range 10 {
		again, ok := ResolveRunAt("launch", nodes, base)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestClampToFuture(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(ClampGrace), ClampToFuture(now.Add(-time.Hour), now))
	assert.Equal(t, now.Add(ClampGrace), ClampToFuture(now, now))

	future := now.Add(time.Second)
	assert.Equal(t, future, ClampToFuture(future, now))
}
