// Package web provides the HTTP surface of the campaign scheduling
// engine: scheduling invocations, run callbacks and schedule lookups.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/wrenchworks/campaignd/pkg/models"
	"github.com/wrenchworks/campaignd/pkg/persistence"
	"github.com/wrenchworks/campaignd/pkg/scheduler"
)

type APIHandlers struct {
	scheduler   *scheduler.Service
	persistence persistence.Persistence
	validator   *validator.Validate

	// baseURL is the default callback origin; requests may override it.
	baseURL string
}

func NewAPIHandlers(
	schedulerService *scheduler.Service,
	persist persistence.Persistence,
	validate *validator.Validate,
	baseURL string,
) *APIHandlers {
	return &APIHandlers{
		scheduler:   schedulerService,
		persistence: persist,
		validator:   validate,
		baseURL:     baseURL,
	}
}

// ScheduleCampaign resolves and provisions every launch node of the
// campaign. The response always carries schedules and warnings; the
// caller judges completeness from their combination.
func (h *APIHandlers) ScheduleCampaign(c fiber.Ctx) error {
	campaignID := c.Params("campaignID")

	var req ScheduleCampaignRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	baseURL := req.BaseURL
	if baseURL == "" {
		baseURL = h.baseURL
	}

	result, err := h.scheduler.ScheduleCampaign(c.Context(), scheduler.ScheduleCampaignRequest{
		Scope:      req.ResolveScope(),
		CompanyID:  req.CompanyID,
		CampaignID: campaignID,
		BaseURL:    baseURL,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

// RunCampaignNode is the callback the external job service invokes when
// a provisioned one-shot trigger fires.
func (h *APIHandlers) RunCampaignNode(c fiber.Ctx) error {
	campaignID := c.Params("campaignID")

	req := RunCallbackRequest{
		ScheduleID: c.Query("scheduleId"),
		NodeID:     c.Query("nodeId"),
		CompanyID:  c.Query("companyId"),
		Status:     c.Query("status"),
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if req.ScheduleID == "" && req.NodeID == "" {
		return badRequest(c, "scheduleId or nodeId is required")
	}

	var companyID *string
	if req.CompanyID != "" {
		companyID = &req.CompanyID
	}

	record, err := h.scheduler.CompleteRun(c.Context(), scheduler.RunCallbackRequest{
		CompanyID:  companyID,
		CampaignID: campaignID,
		ScheduleID: req.ScheduleID,
		NodeID:     req.NodeID,
		Status:     models.ScheduleStatus(req.Status),
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"schedule": record})
}

func (h *APIHandlers) GetSchedule(c fiber.Ctx) error {
	record, err := h.persistence.Schedules().GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(record)
}

func (h *APIHandlers) ListCampaignSchedules(c fiber.Ctx) error {
	records, err := h.persistence.Schedules().ListByCampaign(c.Context(), c.Params("campaignID"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"schedules":   records,
		"total_count": len(records),
	})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	status := "healthy"
	httpStatus := http.StatusOK

	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		status = "unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}
