package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pivotpath/pivot-api/internal/repositories"
)

type HistoryHandler struct {
	recordRepo repositories.MatchRecordRepository
}

func NewHistoryHandler(recordRepo repositories.MatchRecordRepository) *HistoryHandler {
	return &HistoryHandler{
		recordRepo: recordRepo,
	}
}

// HandleList handles GET /history
func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := h.recordRepo.FindRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load match history",
		})
	}

	return c.JSON(fiber.Map{
		"records": records,
	})
}

// HandleGet handles GET /history/:id
func (h *HistoryHandler) HandleGet(c *fiber.Ctx) error {
	idParam := c.Params("id")
	recordID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid record ID format",
		})
	}

	record, err := h.recordRepo.FindByID(recordID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Match record not found",
		})
	}

	return c.JSON(record)
}
