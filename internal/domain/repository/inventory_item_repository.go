package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/garajesoft/taller-api/internal/domain/entity"
)

// InventoryItemRepository define el puerto para artículos de inventario.
// Usado dentro de transacciones para garantizar consistencia del stock.
type InventoryItemRepository interface {
	Create(item *entity.InventoryItem) error
	Update(item *entity.InventoryItem) error
	Delete(id string) error
	GetByID(id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.InventoryItem, error)
	// UpdateQty fija la cantidad en mano; solo el motor de inventario debe
	// llamarlo, siempre tras GetForUpdate en la misma transacción.
	UpdateQty(id string, qty decimal.Decimal, now time.Time) error
	ListByStore(storeID, q string, limit, offset int) ([]*entity.InventoryItem, error)
}
