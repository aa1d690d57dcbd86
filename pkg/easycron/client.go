// Package easycron is a minimal client for an EasyCron-style one-shot
// job provider. The engine only ever creates jobs; listing and deletion
// stay with the provider's own dashboard.
package easycron

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wrenchworks/campaignd/pkg/cronexpr"
)

// DefaultAPIURL is the provider's job-creation endpoint.
const DefaultAPIURL = "https://www.easycron.com/rest/add"

const defaultTimeout = 30 * time.Second

// Client issues job-creation requests against the provider REST API.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint. An empty endpoint
// selects DefaultAPIURL.
func NewClient(apiURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// CreateJobInput describes one one-shot job to provision.
type CreateJobInput struct {
	APIKey   string
	URL      string // Callback the provider invokes when the job fires
	RunAt    time.Time
	Timezone string
	JobName  string
}

// Job is the normalized provisioning result. ID is nil when the provider
// response carried no recognizable job identifier - a soft success, the
// job may still have been created.
type Job struct {
	ID      *string
	Payload map[string]any
}

// ProviderError is a non-success response from the provider, carrying
// the error message the provider reported.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// CreateOneShotJob registers a single-execution job. The request is one
// HTTP GET with the token, callback URL, cron expression, timezone, the
// "once" job-type marker and the job name as query parameters.
func (c *Client) CreateOneShotJob(ctx context.Context, input CreateJobInput) (*Job, error) {
	trigger := cronexpr.Translate(input.RunAt, input.Timezone)

	params := url.Values{}
	params.Set("token", input.APIKey)
	params.Set("url", input.URL)
	params.Set("cron_expression", trigger.Expression)
	params.Set("timezone", trigger.Timezone)
	params.Set("cron_type", "once")
	params.Set("cron_job_name", input.JobName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Malformed bodies degrade to an empty payload rather than an error.
	payload := map[string]any{}
	_ = json.Unmarshal(body, &payload)

	if resp.StatusCode >= 400 {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    providerErrorMessage(payload),
		}
	}

	return &Job{
		ID:      jobIDFromPayload(payload),
		Payload: payload,
	}, nil
}

func providerErrorMessage(payload map[string]any) string {
	switch detail := payload["error"].(type) {
	case string:
		if detail != "" {
			return detail
		}
	case map[string]any:
		if message, ok := detail["message"].(string); ok && message != "" {
			return message
		}
	}

	return "easycron request failed"
}

// jobIDFromPayload tolerates the provider's two job-id spellings.
func jobIDFromPayload(payload map[string]any) *string {
	for _, key := range []string{"jobid", "job_id"} {
		switch id := payload[key].(type) {
		case string:
			if id != "" {
				return &id
			}
		case float64:
			formatted := fmt.Sprintf("%.0f", id)

			return &formatted
		}
	}

	return nil
}
