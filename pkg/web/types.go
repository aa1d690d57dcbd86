package web

import (
	"github.com/wrenchworks/campaignd/pkg/models"
)

// ScheduleCampaignRequest is the POST body for scheduling a campaign.
// Scope is inferred from company_id when omitted. base_url overrides the
// server's configured callback origin for this invocation.
type ScheduleCampaignRequest struct {
	Scope     string  `json:"scope"      validate:"omitempty,oneof=global company"`
	CompanyID *string `json:"company_id" validate:"omitempty,min=1"`
	BaseURL   string  `json:"base_url"   validate:"omitempty,url"`
}

// ResolveScope applies the company-implies-company-scope default.
func (r ScheduleCampaignRequest) ResolveScope() models.GraphScope {
	if r.Scope != "" {
		return models.GraphScope(r.Scope)
	}

	if r.CompanyID != nil {
		return models.GraphScopeCompany
	}

	return models.GraphScopeGlobal
}

// RunCallbackRequest carries the query parameters of an execution
// callback. One of ScheduleID or NodeID must identify the record.
type RunCallbackRequest struct {
	ScheduleID string `query:"scheduleId" validate:"omitempty,min=1"`
	NodeID     string `query:"nodeId"     validate:"omitempty,min=1"`
	CompanyID  string `query:"companyId"  validate:"omitempty,min=1"`
	Status     string `query:"status"     validate:"omitempty,oneof=completed failed"`
}
