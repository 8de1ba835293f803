package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de facturación.
const (
	KindEstimate = "estimate" // presupuesto
	KindInvoice  = "invoice"  // factura
)

// Estados del ciclo de vida: draft -> issued -> void (terminal).
const (
	StatusDraft  = "draft"
	StatusIssued = "issued"
	StatusVoid   = "void"
)

// Modos de impuesto.
const (
	TaxModeExclusive = "exclusive" // el total suma subtotal + impuesto
	TaxModeInclusive = "inclusive" // el subtotal ya incluye el impuesto
)

// Políticas de redondeo del impuesto.
const (
	RoundingFloor  = "floor"
	RoundingCeil   = "ceil"
	RoundingHalfUp = "half_up"
)

// Clave de meta donde se guarda el motivo de anulación (sin columna tipada).
const MetaVoidReason = "void_reason"

// BillingDocument representa la cabecera de un presupuesto o factura.
// Los montos (subtotal, tax_total, total) son enteros en unidades mínimas
// de moneda y siempre derivables de las líneas + configuración de impuesto.
type BillingDocument struct {
	ID           string
	StoreID      string
	CustomerID   string // opcional: vínculo al maestro de clientes
	CustomerName string // snapshot al momento de crear
	Kind         string // estimate | invoice
	Status       string // draft | issued | void
	DocNo        string // único por (store, kind) una vez asignado; INV-2026-00001
	Subtotal     int64
	TaxTotal     int64
	Total        int64
	TaxRate      decimal.Decimal // ej. 0.10
	TaxMode      string          // exclusive | inclusive
	TaxRounding  string          // floor | ceil | half_up
	IssuedAt     *time.Time
	SourceDocID  string // presupuesto origen cuando nace por conversión
	Meta         map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsMutable indica si el documento admite edición (draft o issued; void es terminal).
func (d *BillingDocument) IsMutable() bool {
	return d.Status == StatusDraft || d.Status == StatusIssued
}
