package models

import "strings"

// MarketingSettings is the per-company scheduling configuration. A
// company without a row is represented as nil, which leaves launch
// scheduling enabled and unprovisioned.
type MarketingSettings struct {
	CompanyID        string `json:"company_id"        validate:"required"`
	ScheduleLaunch   bool   `json:"schedule_launch"`
	EasyCronAPIKey   string `json:"easycron_api_key,omitempty"`
	EasyCronTimezone string `json:"easycron_timezone,omitempty"`
}

// HasProviderCredentials reports whether an EasyCron API key is configured.
func (s *MarketingSettings) HasProviderCredentials() bool {
	return s != nil && strings.TrimSpace(s.EasyCronAPIKey) != ""
}
