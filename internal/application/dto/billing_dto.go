package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingLineRequest una línea entrante. Si WorkID viene informado, el
// servidor resuelve name/unit/unit_price/cost_price desde el maestro de
// trabajos y los congela como snapshot (lo que venga en el request se
// ignora salvo qty y sort_order).
type BillingLineRequest struct {
	WorkID    string          `json:"work_id"`
	Name      string          `json:"name"`
	Qty       decimal.Decimal `json:"qty"`
	Unit      string          `json:"unit"`
	UnitPrice int64           `json:"unit_price"`
	CostPrice int64           `json:"cost_price"`
	SortOrder int             `json:"sort_order"`
}

// CreateBillingRequest alta de presupuesto o factura.
// Los campos de impuesto son opcionales; si faltan se toma la configuración
// "tax" de system_settings.
type CreateBillingRequest struct {
	Kind         string               `json:"kind"`
	Status       string               `json:"status"`
	StoreID      string               `json:"store_id"`
	CustomerID   string               `json:"customer_id"`
	CustomerName string               `json:"customer_name"`
	TaxRate      *decimal.Decimal     `json:"tax_rate"`
	TaxMode      string               `json:"tax_mode"`
	TaxRounding  string               `json:"tax_rounding"`
	Lines        []BillingLineRequest `json:"lines"`
	Meta         map[string]any       `json:"meta"`
}

// UpdateBillingRequest patch de un documento mutable (draft o issued).
// Lines nil = no tocar líneas; Lines vacío = dejar el documento sin líneas.
type UpdateBillingRequest struct {
	Status       *string               `json:"status"`
	CustomerID   *string               `json:"customer_id"`
	CustomerName *string               `json:"customer_name"`
	Lines        *[]BillingLineRequest `json:"lines"`
	Meta         map[string]any        `json:"meta"`
}

// VoidBillingRequest motivo opcional de anulación (va a meta, sin columna).
type VoidBillingRequest struct {
	Reason string `json:"reason"`
}

// BillingLineResponse línea persistida (snapshot congelado).
type BillingLineResponse struct {
	ID        string          `json:"id"`
	BillingID string          `json:"billing_id"`
	WorkID    string          `json:"work_id,omitempty"`
	Name      string          `json:"name"`
	Qty       decimal.Decimal `json:"qty"`
	Unit      string          `json:"unit,omitempty"`
	UnitPrice int64           `json:"unit_price"`
	CostPrice int64           `json:"cost_price"`
	Amount    int64           `json:"amount"`
	SortOrder int             `json:"sort_order"`
	CreatedAt time.Time       `json:"created_at"`
}

// BillingDocResponse cabecera de documento.
type BillingDocResponse struct {
	ID           string                `json:"id"`
	StoreID      string                `json:"store_id"`
	CustomerID   string                `json:"customer_id,omitempty"`
	CustomerName string                `json:"customer_name,omitempty"`
	Kind         string                `json:"kind"`
	Status       string                `json:"status"`
	DocNo        string                `json:"doc_no"`
	Subtotal     int64                 `json:"subtotal"`
	TaxTotal     int64                 `json:"tax_total"`
	Total        int64                 `json:"total"`
	TaxRate      decimal.Decimal       `json:"tax_rate"`
	TaxMode      string                `json:"tax_mode"`
	TaxRounding  string                `json:"tax_rounding"`
	IssuedAt     *time.Time            `json:"issued_at,omitempty"`
	SourceDocID  string                `json:"source_doc_id,omitempty"`
	Meta         map[string]any        `json:"meta,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Lines        []BillingLineResponse `json:"lines,omitempty"`
}
