package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkResponse plantilla de trabajo (maestro).
type WorkResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit,omitempty"`
	UnitPrice int64     `json:"unit_price"`
	CostPrice int64     `json:"cost_price"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkMaterialResponse entrada del BOM de un trabajo.
type WorkMaterialResponse struct {
	ID         string          `json:"id"`
	WorkID     string          `json:"work_id"`
	ItemID     string          `json:"item_id"`
	QtyPerWork decimal.Decimal `json:"qty_per_work"`
}
