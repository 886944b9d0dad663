package handlers

import (
	"github.com/buchhaltung/invoice-analytics-be/internal/core/extraction"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/services"
	"github.com/gofiber/fiber/v2"
)

type IngestHandler struct {
	ingestService *services.IngestService
}

func NewIngestHandler(ingestService *services.IngestService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
	}
}

// Ingest godoc
// @Summary Ingest extracted documents
// @Description Normalize a batch of raw extraction documents into canonical invoices. Re-posting the same batch is a no-op.
// @Tags Ingest
// @Accept json
// @Produce json
// @Param batch body []extraction.RawDocument true "Raw extraction documents"
// @Success 200 {object} services.IngestSummary
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /ingest [post]
func (h *IngestHandler) Ingest(c *fiber.Ctx) error {
	var batch []extraction.RawDocument
	if err := c.BodyParser(&batch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: expected an array of documents",
		})
	}

	summary, err := h.ingestService.Normalize(batch)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summary)
}
