package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingLine representa una línea de un documento de facturación.
// Si WorkID no es vacío, name/unit/unit_price/cost_price son un snapshot
// del maestro de trabajos tomado al crear la línea (nunca se relee).
// Las líneas sin WorkID son servicios/mano de obra: no mueven inventario.
type BillingLine struct {
	ID        string
	BillingID string
	WorkID    string // opcional: plantilla de trabajo para resolver BOM
	Name      string
	Qty       decimal.Decimal
	Unit      string
	UnitPrice int64
	CostPrice int64
	Amount    int64 // floor(qty * unit_price), siempre entero
	SortOrder int
	CreatedAt time.Time
}
