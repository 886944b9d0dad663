package handlers

import (
	"strconv"

	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/repositories"
	"github.com/gofiber/fiber/v2"
)

type InvoiceHandler struct {
	invoiceRepo repositories.InvoiceRepo
}

func NewInvoiceHandler(invoiceRepo repositories.InvoiceRepo) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceRepo: invoiceRepo,
	}
}

// ListInvoices godoc
// @Summary List invoices
// @Description List invoices with search, status filter, sorting and pagination
// @Tags Invoices
// @Produce json
// @Param search query string false "Search in invoice number and vendor name"
// @Param status query string false "Filter by status (draft, pending, paid, overdue, all)"
// @Param sort query string false "Sort column (date, due_date, amount, status, invoiceNumber, vendor)"
// @Param order query string false "Sort direction (asc, desc)"
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	invoices, total, err := h.invoiceRepo.List(repositories.ListParams{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"invoices": invoices,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// ListFiles godoc
// @Summary List invoice documents
// @Description List invoices that carry a source file, newest first
// @Tags Invoices
// @Produce json
// @Param departmentId query string false "Filter by department"
// @Param organizationId query string false "Filter by organization"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /files [get]
func (h *InvoiceHandler) ListFiles(c *fiber.Ctx) error {
	invoices, err := h.invoiceRepo.ListFiles(c.Query("departmentId"), c.Query("organizationId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	files := make([]fiber.Map, 0, len(invoices))
	for _, inv := range invoices {
		files = append(files, fiber.Map{
			"invoiceNumber": inv.InvoiceNumber,
			"fileName":      inv.FileName,
			"filePath":      inv.FilePath,
			"fileType":      inv.FileType,
			"vendor":        inv.Vendor.Name,
			"totalAmount":   inv.TotalAmount,
			"date":          inv.Date,
			"documentId":    inv.DocumentID,
		})
	}
	return c.JSON(fiber.Map{
		"count": len(files),
		"files": files,
	})
}
