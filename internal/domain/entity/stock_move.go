package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento. Qty siempre es positiva; el signo lo da el tipo.
const (
	MoveTypeIn     = "in"
	MoveTypeOut    = "out"
	MoveTypeAdjust = "adjust" // delta con signo sobre el stock
)

// Referencias de origen del movimiento. El libro de movimientos es la única
// fuente de verdad de "cuánto consumió este documento": nunca se guarda un
// flag booleano de consumo.
const (
	RefTypeBillingIssue  = "billing_issue"
	RefTypeBillingUpdate = "billing_update"
	RefTypeBillingVoid   = "billing_void"
	RefTypeManual        = "manual"
)

// StockMove es una entrada del libro de inventario (append-only).
type StockMove struct {
	ID        string
	StoreID   string
	ItemID    string
	MoveType  string          // in | out | adjust
	Qty       decimal.Decimal // positiva (en adjust admite signo)
	UnitCost  decimal.Decimal // snapshot del costo del artículo al moverse
	RefType   string          // billing_issue | billing_update | billing_void | manual
	RefID     string          // id del documento de facturación, si aplica
	Note      string
	CreatedAt time.Time
}
