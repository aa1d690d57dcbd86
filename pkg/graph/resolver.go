// Package graph resolves campaign launch run times from builder graphs.
//
// Resolution walks backward from a launch node through its delay chain.
// Relative delays accumulate into an offset from the campaign base time;
// the first absolute-datetime delay found along the walk wins outright
// and discards any offset accumulated before it.
package graph

import (
	"time"

	"github.com/wrenchworks/campaignd/pkg/models"
)

// ClampGrace is how far past "now" a stale run time is pushed so the
// external provider is never asked for a past or immediate trigger.
const ClampGrace = 60 * time.Second

// ResolveRunAt computes the absolute run time for the launch node with
// the given ID. The second return is false when the node cannot be
// resolved (unknown ID). A launch node with no incoming connection
// resolves to exactly the base time.
//
// The walk follows each node's single incoming connection. A visited set
// is checked before following an edge, so a cyclic graph terminates in at
// most len(nodes) steps.
func ResolveRunAt(launchID string, nodes map[string]*models.GraphNode, baseTime time.Time) (time.Time, bool) {
	if _, ok := nodes[launchID]; !ok {
		return time.Time{}, false
	}

	var offset time.Duration

	visited := make(map[string]struct{}, len(nodes))
	currentID := launchID

	for currentID != "" {
		current := nodes[currentID]
		if current == nil {
			break
		}

		incomingID := current.IncomingNodeID()
		if incomingID == "" {
			break
		}

		if _, seen := visited[incomingID]; seen {
			break
		}

		visited[incomingID] = struct{}{}

		incoming := nodes[incomingID]
		if incoming != nil && incoming.Kind() == models.NodeKindDelay {
			settings := models.DelaySettingsOf(incoming)

			if at, ok := settings.AbsoluteTime(); ok {
				return at, true
			}

			offset += settings.Offset()
		}

		currentID = incomingID
	}

	return baseTime.Add(offset), true
}

// ClampToFuture replaces any run time at or before now with now plus the
// clamp grace, guaranteeing a strictly future trigger.
func ClampToFuture(runAt, now time.Time) time.Time {
	if !runAt.After(now) {
		return now.Add(ClampGrace)
	}

	return runAt
}
