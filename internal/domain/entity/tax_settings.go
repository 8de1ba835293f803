package entity

import "github.com/shopspring/decimal"

// TaxSettings configuración de impuesto por defecto (clave "tax" en
// system_settings). El documento puede sobreescribirla al crearse.
type TaxSettings struct {
	Rate     decimal.Decimal `json:"rate"`
	Mode     string          `json:"mode"`
	Rounding string          `json:"rounding"`
}

// DefaultTaxSettings valores usados cuando no hay configuración guardada.
func DefaultTaxSettings() TaxSettings {
	return TaxSettings{
		Rate:     decimal.NewFromFloat(0.10),
		Mode:     TaxModeExclusive,
		Rounding: RoundingFloor,
	}
}
