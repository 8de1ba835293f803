package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un artículo de inventario del taller (por tienda).
// QtyOnHand solo se modifica aplicando StockMoves, salvo carga inicial o
// ajuste manual de inventario físico.
type InventoryItem struct {
	ID        string
	StoreID   string
	SKU       string
	Name      string
	Unit      string          // ej. "L", "unidad"
	CostPrice decimal.Decimal // costo unitario de compra
	SalePrice decimal.Decimal // opcional: venta directa del artículo
	QtyOnHand decimal.Decimal
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
