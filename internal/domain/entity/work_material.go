package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkMaterial define el BOM: qué artículo de inventario consume un trabajo
// y en qué cantidad por unidad de trabajo. Maestro de solo lectura para el
// motor de facturación.
type WorkMaterial struct {
	ID         string
	StoreID    string
	WorkID     string
	ItemID     string
	QtyPerWork decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
