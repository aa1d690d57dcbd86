// Package models defines the core domain models for campaign launch scheduling.
package models

import (
	"strings"
	"time"
)

// GraphScope identifies which tier a campaign builder graph belongs to.
type GraphScope string

const (
	GraphScopeGlobal  GraphScope = "global"  // Shared template graph, no company attached
	GraphScopeCompany GraphScope = "company" // Company-specific campaign instance
)

// NodeKind classifies a graph node for scheduling purposes.
type NodeKind string

const (
	NodeKindLaunch NodeKind = "launch" // Execution trigger: maps to one schedule per resolution pass
	NodeKindDelay  NodeKind = "delay"  // Temporal gate: absolute date-time or relative duration
	NodeKindOther  NodeKind = "other"  // Content, audience, etc. - opaque to the engine
)

// Raw builder type keys the engine recognizes.
const (
	NodeKeyLaunch = "launch"
	NodeKeyDelay  = "delay"
)

// GraphNode is one node of a campaign builder graph. The settings payload
// is authored by the builder UI and stays opaque except for the keys the
// engine reads on delay nodes.
type GraphNode struct {
	ID       string         `json:"id"       validate:"required"`
	Key      string         `json:"key"`
	Settings map[string]any `json:"settings,omitempty"`
	Incoming []string       `json:"incoming,omitempty"` // Source node IDs of incoming connections
}

// Kind classifies the node by its builder type key.
func (n *GraphNode) Kind() NodeKind {
	switch n.Key {
	case NodeKeyLaunch:
		return NodeKindLaunch
	case NodeKeyDelay:
		return NodeKindDelay
	default:
		return NodeKindOther
	}
}

// IncomingNodeID returns the single relevant predecessor of the node, or
// "" when the node has no incoming connection. Delay chains are linear,
// so only the first connection matters.
func (n *GraphNode) IncomingNodeID() string {
	for _, id := range n.Incoming {
		if id != "" {
			return id
		}
	}

	return ""
}

// CampaignGraph is the engine's read-only view of a builder graph.
type CampaignGraph struct {
	Scope      GraphScope            `json:"scope"       validate:"required,oneof=global company"`
	CompanyID  *string               `json:"company_id,omitempty"`
	CampaignID string                `json:"campaign_id" validate:"required"`
	Nodes      map[string]*GraphNode `json:"nodes"`
}

// LaunchNodes returns every launch node in the graph. An empty graph is
// valid and yields no launch nodes.
func (g *CampaignGraph) LaunchNodes() []*GraphNode {
	var launches []*GraphNode

	for _, node := range g.Nodes {
		if node != nil && node.Kind() == NodeKindLaunch {
			launches = append(launches, node)
		}
	}

	return launches
}

// Delay wait modes as stored in the node settings payload.
const (
	WaitTypeDateTime = "datetime"
	WaitTypeDuration = "duration"
)

// DelaySettings is the typed view of a delay node's settings payload.
// Exactly one of the two modes is meaningful; an ill-formed payload
// contributes a zero offset.
type DelaySettings struct {
	WaitType     string
	WaitDateTime string
	WaitAmount   float64
	WaitUnit     string
}

// DelaySettingsOf extracts delay settings from a node's payload. Missing
// or mistyped keys degrade to zero values rather than errors.
func DelaySettingsOf(n *GraphNode) DelaySettings {
	var settings DelaySettings

	if n == nil || n.Settings == nil {
		return settings
	}

	settings.WaitType = stringValue(n.Settings["waitType"])
	settings.WaitDateTime = stringValue(n.Settings["waitDateTime"])
	settings.WaitAmount = floatValue(n.Settings["waitAmount"])
	settings.WaitUnit = stringValue(n.Settings["waitUnit"])

	return settings
}

// AbsoluteTime parses the absolute date-time of a datetime delay.
// The second return reports whether a usable instant was found.
func (s DelaySettings) AbsoluteTime() (time.Time, bool) {
	if s.WaitType != WaitTypeDateTime {
		return time.Time{}, false
	}

	raw := strings.TrimSpace(s.WaitDateTime)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if at, err := time.Parse(layout, raw); err == nil {
			return at, true
		}
	}

	return time.Time{}, false
}

// Offset returns the millisecond-equivalent duration of a relative delay.
// Unrecognized units and non-positive amounts are worth zero.
func (s DelaySettings) Offset() time.Duration {
	if s.WaitType != WaitTypeDuration || s.WaitAmount <= 0 {
		return 0
	}

	switch strings.ToLower(s.WaitUnit) {
	case "minutes":
		return time.Duration(s.WaitAmount * float64(time.Minute))
	case "hours":
		return time.Duration(s.WaitAmount * float64(time.Hour))
	case "days":
		return time.Duration(s.WaitAmount * float64(24*time.Hour))
	default:
		return 0
	}
}

func stringValue(v any) string {
	s, _ := v.(string)

	return s
}

func floatValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
