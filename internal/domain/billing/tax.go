package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/garajesoft/taller-api/internal/domain"
	"github.com/garajesoft/taller-api/internal/domain/entity"
)

// LineAmount calcula el importe de una línea: floor(qty * unit_price).
// La cantidad puede ser fraccionaria (ej. 2.5 L); el importe siempre es
// entero en unidades mínimas de moneda.
func LineAmount(qty decimal.Decimal, unitPrice int64) int64 {
	return qty.Mul(decimal.NewFromInt(unitPrice)).Floor().IntPart()
}

// Totals calcula (subtotal, tax_total, total) a partir de las líneas y la
// configuración de impuesto. Servicio de dominio puro: aritmética decimal
// exacta, sin punto flotante (los totales tienen valor legal).
//
//   - exclusive: tax = round(subtotal * rate); total = subtotal + tax
//   - inclusive: tax = round(subtotal * rate / (1 + rate)); total = subtotal
//     (el subtotal registrado ya incluye el impuesto; el tax es informativo)
func Totals(lines []*entity.BillingLine, cfg entity.TaxSettings) (subtotal, taxTotal, total int64, err error) {
	if cfg.Rate.IsNegative() {
		return 0, 0, 0, fmt.Errorf("%w: tax_rate negativo", domain.ErrInvalidInput)
	}

	for _, l := range lines {
		subtotal += LineAmount(l.Qty, l.UnitPrice)
	}

	sub := decimal.NewFromInt(subtotal)
	var exact decimal.Decimal
	switch cfg.Mode {
	case entity.TaxModeExclusive:
		exact = sub.Mul(cfg.Rate)
	case entity.TaxModeInclusive:
		exact = sub.Mul(cfg.Rate).Div(decimal.NewFromInt(1).Add(cfg.Rate))
	default:
		return 0, 0, 0, fmt.Errorf("%w: tax_mode %q", domain.ErrInvalidInput, cfg.Mode)
	}

	taxTotal, err = roundTax(exact, cfg.Rounding)
	if err != nil {
		return 0, 0, 0, err
	}

	if cfg.Mode == entity.TaxModeInclusive {
		total = subtotal
	} else {
		total = subtotal + taxTotal
	}
	return subtotal, taxTotal, total, nil
}

func roundTax(d decimal.Decimal, rounding string) (int64, error) {
	switch rounding {
	case entity.RoundingFloor:
		return d.Floor().IntPart(), nil
	case entity.RoundingCeil:
		return d.Ceil().IntPart(), nil
	case entity.RoundingHalfUp:
		return d.Round(0).IntPart(), nil
	default:
		return 0, fmt.Errorf("%w: tax_rounding %q", domain.ErrInvalidInput, rounding)
	}
}
