// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/google/uuid"

	"github.com/wrenchworks/campaignd/pkg/models"
)

// CreateTestNode creates a test GraphNode with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.GraphNode)) *models.GraphNode {
	node := &models.GraphNode{
		ID:       uuid.New().String(),
		Key:      models.NodeKeyLaunch,
		Settings: map[string]any{},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithID sets the node identifier.
func WithID(id string) func(*models.GraphNode) {
	return func(n *models.GraphNode) {
		n.ID = id
	}
}

// WithKey sets the builder type key.
func WithKey(key string) func(*models.GraphNode) {
	return func(n *models.GraphNode) {
		n.Key = key
	}
}

// WithIncoming sets the node's incoming connections.
func WithIncoming(ids ...string) func(*models.GraphNode) {
	return func(n *models.GraphNode) {
		n.Incoming = ids
	}
}

// WithDurationDelay configures the node as a relative delay.
func WithDurationDelay(amount float64, unit string) func(*models.GraphNode) {
	return func(n *models.GraphNode) {
		n.Key = models.NodeKeyDelay
		n.Settings = map[string]any{
			"waitType":   models.WaitTypeDuration,
			"waitAmount": amount,
			"waitUnit":   unit,
		}
	}
}

// WithDateTimeDelay configures the node as an absolute date-time delay.
func WithDateTimeDelay(value string) func(*models.GraphNode) {
	return func(n *models.GraphNode) {
		n.Key = models.NodeKeyDelay
		n.Settings = map[string]any{
			"waitType":     models.WaitTypeDateTime,
			"waitDateTime": value,
		}
	}
}

// CreateTestGraph assembles a company-scoped CampaignGraph from nodes.
func CreateTestGraph(campaignID string, nodes ...*models.GraphNode) *models.CampaignGraph {
	byID := make(map[string]*models.GraphNode, len(nodes))
	for _, node := range nodes {
		byID[node.ID] = node
	}

	companyID := "company-1"

	return &models.CampaignGraph{
		Scope:      models.GraphScopeCompany,
		CompanyID:  &companyID,
		CampaignID: campaignID,
		Nodes:      byID,
	}
}
