package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest alta de artículo de inventario.
type CreateItemRequest struct {
	StoreID   string          `json:"store_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	QtyOnHand decimal.Decimal `json:"qty_on_hand"`
	Note      string          `json:"note"`
}

// UpdateItemRequest patch de artículo (punteros = campo no enviado).
type UpdateItemRequest struct {
	SKU       *string          `json:"sku"`
	Name      *string          `json:"name"`
	Unit      *string          `json:"unit"`
	CostPrice *decimal.Decimal `json:"cost_price"`
	SalePrice *decimal.Decimal `json:"sale_price"`
	QtyOnHand *decimal.Decimal `json:"qty_on_hand"`
	Note      *string          `json:"note"`
}

// ItemResponse artículo de inventario.
type ItemResponse struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	SKU       string          `json:"sku,omitempty"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit,omitempty"`
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	QtyOnHand decimal.Decimal `json:"qty_on_hand"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateStockMoveRequest movimiento manual (in/out/adjust).
type CreateStockMoveRequest struct {
	StoreID  string           `json:"store_id"`
	ItemID   string           `json:"item_id"`
	MoveType string           `json:"move_type"`
	Qty      decimal.Decimal  `json:"qty"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
	Note     string           `json:"note"`
}

// StockMoveResponse fila del libro de movimientos.
type StockMoveResponse struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	ItemID    string          `json:"item_id"`
	MoveType  string          `json:"move_type"`
	Qty       decimal.Decimal `json:"qty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	RefType   string          `json:"ref_type,omitempty"`
	RefID     string          `json:"ref_id,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
