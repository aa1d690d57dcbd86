package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/wrenchworks/campaignd/pkg/persistence"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

// handleServiceError maps persistence errors onto RFC 7807 responses.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case persistence.IsScheduleNotFound(err):
		problem := problems.NewStatusProblem(404).
			WithInstance(c.Path()).
			WithType("schedule_not_found").
			WithDetail("schedule not found")

		return c.Status(fiber.StatusNotFound).JSON(problem)

	case persistence.IsCampaignNotFound(err):
		problem := problems.NewStatusProblem(404).
			WithInstance(c.Path()).
			WithType("campaign_not_found").
			WithDetail("campaign not found")

		return c.Status(fiber.StatusNotFound).JSON(problem)

	case persistence.IsScheduleCompleted(err):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("schedule_completed").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	default:
		problem := problems.NewStatusProblem(500).
			WithInstance(c.Path()).
			WithType("internal_error").
			WithError(err)

		return c.Status(fiber.StatusInternalServerError).JSON(problem)
	}
}
