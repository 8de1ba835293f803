package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/garajesoft/taller-api/internal/application/dto"
	"github.com/garajesoft/taller-api/internal/application/inventory"
)

// InventoryHandler maneja artículos y movimientos de inventario (protegido).
type InventoryHandler struct {
	itemUC  *inventory.ItemUseCase
	stockUC *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(itemUC *inventory.ItemUseCase, stockUC *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{itemUC: itemUC, stockUC: stockUC}
}

// CreateItem crea un artículo de inventario.
// POST /api/items
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.itemUC.Create(c.Context(), GetStoreID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// ListItems lista artículos de la tienda (filtro q opcional sobre nombre/SKU).
// GET /api/items?q=aceite
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	items, err := h.itemUC.List(c.Context(), GetStoreID(c), c.Query("q"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// GetItem obtiene un artículo.
// GET /api/items/:id
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.itemUC.Get(c.Context(), GetStoreID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// UpdateItem actualiza un artículo.
// PUT /api/items/:id
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.itemUC.Update(c.Context(), GetStoreID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// DeleteItem elimina un artículo.
// DELETE /api/items/:id
func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.itemUC.Delete(c.Context(), GetStoreID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterMove registra un movimiento manual de inventario (in/out/adjust).
// POST /api/stock/moves
func (h *InventoryHandler) RegisterMove(c *fiber.Ctx) error {
	var in dto.CreateStockMoveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mv, err := h.stockUC.RegisterMove(c.Context(), GetStoreID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mv)
}

// ListMoves lista el libro de movimientos (filtro item_id opcional).
// GET /api/stock/moves?item_id=...
func (h *InventoryHandler) ListMoves(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	moves, err := h.stockUC.ListMoves(c.Context(), GetStoreID(c), c.Query("item_id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(moves)
}

// DocumentConsumption devuelve el neto retirado por un documento, por artículo.
// GET /api/stock/consumption/:billingId
func (h *InventoryHandler) DocumentConsumption(c *fiber.Ctx) error {
	net, err := h.stockUC.DocumentConsumption(c.Context(), GetStoreID(c), c.Params("billingId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(net)
}
