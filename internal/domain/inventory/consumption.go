package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/garajesoft/taller-api/internal/domain/entity"
)

// RequiredConsumption calcula el consumo de inventario que exigen las líneas
// de un documento: por cada línea con work_id, qty de la línea por cada
// qty_per_work del BOM, acumulado por artículo. Las líneas sin work_id son
// servicios y no mueven inventario.
func RequiredConsumption(lines []*entity.BillingLine, materialsByWork map[string][]*entity.WorkMaterial) map[string]decimal.Decimal {
	required := make(map[string]decimal.Decimal)
	for _, line := range lines {
		if line.WorkID == "" {
			continue
		}
		for _, m := range materialsByWork[line.WorkID] {
			required[m.ItemID] = required[m.ItemID].Add(line.Qty.Mul(m.QtyPerWork))
		}
	}
	return required
}

// NetConsumed repliega el libro de movimientos de un documento y devuelve la
// cantidad neta retirada por artículo: out suma, in resta. El estado de
// consumo nunca se cachea; siempre se recalcula desde las filas.
func NetConsumed(moves []*entity.StockMove) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal)
	for _, mv := range moves {
		switch mv.MoveType {
		case entity.MoveTypeOut:
			net[mv.ItemID] = net[mv.ItemID].Add(mv.Qty)
		case entity.MoveTypeIn:
			net[mv.ItemID] = net[mv.ItemID].Sub(mv.Qty)
		}
	}
	return net
}
