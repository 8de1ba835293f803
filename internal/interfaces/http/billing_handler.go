package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/garajesoft/taller-api/internal/application/billing"
	"github.com/garajesoft/taller-api/internal/application/dto"
)

// BillingHandler maneja el ciclo de vida de presupuestos y facturas (protegido).
type BillingHandler struct {
	uc *billing.DocumentUseCase
}

// NewBillingHandler construye el handler.
func NewBillingHandler(uc *billing.DocumentUseCase) *BillingHandler {
	return &BillingHandler{uc: uc}
}

// Create crea un presupuesto o factura (con emisión inmediata opcional).
// POST /api/billing
func (h *BillingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.CreateDocument(c.Context(), GetStoreID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// List lista documentos de la tienda (filtros kind y status opcionales).
// GET /api/billing?kind=invoice&status=draft
func (h *BillingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	docs, err := h.uc.ListDocuments(c.Context(), GetStoreID(c), c.Query("kind"), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(docs)
}

// GetByID obtiene un documento con sus líneas.
// GET /api/billing/:id
func (h *BillingHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetDocument(c.Context(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(doc)
}

// Update edita un documento mutable (líneas, cliente, meta, draft -> issued).
// PUT /api/billing/:id
func (h *BillingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBillingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.UpdateDocument(c.Context(), GetStoreID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(doc)
}

// Issue emite una factura borrador (idempotente).
// POST /api/billing/:id/issue
func (h *BillingHandler) Issue(c *fiber.Ctx) error {
	doc, err := h.uc.IssueDocument(c.Context(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(doc)
}

// Void anula una factura emitida con reversa de inventario (idempotente).
// POST /api/billing/:id/void
func (h *BillingHandler) Void(c *fiber.Ctx) error {
	var in dto.VoidBillingRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	doc, err := h.uc.VoidDocument(c.Context(), GetStoreID(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(doc)
}

// Convert crea una factura borrador a partir de un presupuesto.
// POST /api/billing/:id/convert
func (h *BillingHandler) Convert(c *fiber.Ctx) error {
	doc, err := h.uc.ConvertToInvoice(c.Context(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Delete elimina un borrador.
// DELETE /api/billing/:id
func (h *BillingHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteDocument(c.Context(), GetStoreID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
