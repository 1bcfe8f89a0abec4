package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"pivotpath/pivot-api/internal/models"
	"pivotpath/pivot-api/internal/services"
)

type AnalyzeHandler struct {
	advisor       services.AdvisorService
	opportunities services.OpportunityService
}

func NewAnalyzeHandler(
	advisor services.AdvisorService,
	opportunities services.OpportunityService,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		advisor:       advisor,
		opportunities: opportunities,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	text := req.Resume
	if strings.TrimSpace(text) == "" {
		text = req.JobDesc
	}
	if strings.TrimSpace(text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing resume (or jobDesc) text",
		})
	}

	return c.JSON(h.advisor.Analyze(text))
}

// HandleOpportunities handles POST /opportunities
func (h *AnalyzeHandler) HandleOpportunities(c *fiber.Ctx) error {
	var req models.OpportunitiesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	opportunities, err := h.opportunities.Rank(c.Context(), req.Resume, req.Limit)
	if err != nil {
		if errors.Is(err, services.ErrMissingInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing resume text",
			})
		}

		log.Printf("opportunity ranking failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error",
		})
	}

	return c.JSON(models.OpportunitiesResponse{Opportunities: opportunities})
}
