package handlers

import (
	"github.com/buchhaltung/invoice-analytics-be/internal/shared/database"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	db *database.DB
}

func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API and database are alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.db.Ping(); err != nil {
		dbStatus = "down"
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "invoice-analytics-api",
		"database": dbStatus,
	})
}
