package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"pivotpath/pivot-api/internal/models"
	"pivotpath/pivot-api/internal/services"
)

type MatchHandler struct {
	matcher  services.MatchService
	advisor  services.AdvisorService
	recorder services.Recorder
}

func NewMatchHandler(
	matcher services.MatchService,
	advisor services.AdvisorService,
	recorder services.Recorder,
) *MatchHandler {
	return &MatchHandler{
		matcher:  matcher,
		advisor:  advisor,
		recorder: recorder,
	}
}

// HandleMatch handles POST /match
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	result, err := h.matcher.Match(c.Context(), req.Resume, req.Job)
	if err != nil {
		if errors.Is(err, services.ErrMissingInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing resume or job text",
			})
		}

		log.Printf("match scoring failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error",
		})
	}

	if h.recorder != nil {
		h.recorder.Record(&models.MatchRecord{
			Match:       result.Match,
			QuickMatch:  result.QuickMatch,
			Overlap:     strings.Join(result.Overlap, ", "),
			Missing:     strings.Join(result.Missing, ", "),
			Method:      result.Method,
			Model:       result.Model,
			ResumeChars: len(req.Resume),
			JobChars:    len(req.Job),
		})
	}

	return c.JSON(models.MatchResponse{
		Match:      result.Match,
		QuickMatch: result.QuickMatch,
		Overlap:    result.Overlap,
		Missing:    result.Missing,
		Method:     result.Method,
		Model:      result.Model,
	})
}

// HandleExplain handles POST /match/explain
func (h *MatchHandler) HandleExplain(c *fiber.Ctx) error {
	var req models.ExplainRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	explanation, err := h.advisor.Explain(c.Context(), &req)
	if err != nil {
		log.Printf("explain failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error",
		})
	}

	return c.JSON(models.ExplainResponse{Explanation: explanation})
}

// HandleRewrite handles POST /match/rewrite
func (h *MatchHandler) HandleRewrite(c *fiber.Ctx) error {
	var req models.RewriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	bullets, err := h.advisor.Rewrite(c.Context(), &req)
	if err != nil {
		log.Printf("rewrite failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error",
		})
	}

	return c.JSON(models.RewriteResponse{Bullets: bullets})
}
