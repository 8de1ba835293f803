package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/garajesoft/taller-api/internal/application/billing"
	"github.com/garajesoft/taller-api/internal/application/dto"
)

// WorkHandler consultas del maestro de trabajos (protegido, solo lectura).
type WorkHandler struct {
	uc *billing.WorkUseCase
}

// NewWorkHandler construye el handler.
func NewWorkHandler(uc *billing.WorkUseCase) *WorkHandler {
	return &WorkHandler{uc: uc}
}

// List lista las plantillas de trabajo de la tienda.
// GET /api/works
func (h *WorkHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	works, err := h.uc.List(c.Context(), GetStoreID(c), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(works)
}

// GetByID obtiene una plantilla de trabajo.
// GET /api/works/:id
func (h *WorkHandler) GetByID(c *fiber.Ctx) error {
	work, err := h.uc.Get(c.Context(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(work)
}

// Materials devuelve el BOM de un trabajo.
// GET /api/works/:id/materials
func (h *WorkHandler) Materials(c *fiber.Ctx) error {
	materials, err := h.uc.Materials(c.Context(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(materials)
}
