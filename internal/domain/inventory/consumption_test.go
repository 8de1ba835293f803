package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/inventory"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRequiredConsumption_BOMPorCantidadDeLinea(t *testing.T) {
	// Cambio de aceite: 4 L de aceite y 1 filtro por trabajo.
	bom := map[string][]*entity.WorkMaterial{
		"w-oil": {
			{WorkID: "w-oil", ItemID: "item-aceite", QtyPerWork: dec("4")},
			{WorkID: "w-oil", ItemID: "item-filtro", QtyPerWork: dec("1")},
		},
	}
	lines := []*entity.BillingLine{
		{WorkID: "w-oil", Qty: dec("1")},
		{Name: "Mano de obra", Qty: dec("1")}, // servicio sin work_id: no consume
	}

	req := inventory.RequiredConsumption(lines, bom)
	assert.Len(t, req, 2)
	assert.True(t, req["item-aceite"].Equal(dec("4")))
	assert.True(t, req["item-filtro"].Equal(dec("1")))
}

func TestRequiredConsumption_AcumulaLineasRepetidasYFraccionarias(t *testing.T) {
	bom := map[string][]*entity.WorkMaterial{
		"w": {{WorkID: "w", ItemID: "item", QtyPerWork: dec("0.5")}},
	}
	lines := []*entity.BillingLine{
		{WorkID: "w", Qty: dec("2")},
		{WorkID: "w", Qty: dec("1.5")},
	}
	req := inventory.RequiredConsumption(lines, bom)
	assert.True(t, req["item"].Equal(dec("1.75")))
}

func TestRequiredConsumption_SinTrabajosNoConsume(t *testing.T) {
	lines := []*entity.BillingLine{{Name: "Diagnóstico", Qty: dec("1")}}
	req := inventory.RequiredConsumption(lines, nil)
	assert.Empty(t, req)
}

func TestNetConsumed_OutSumaInResta(t *testing.T) {
	moves := []*entity.StockMove{
		{ItemID: "a", MoveType: entity.MoveTypeOut, Qty: dec("4")},
		{ItemID: "a", MoveType: entity.MoveTypeOut, Qty: dec("2")},
		{ItemID: "a", MoveType: entity.MoveTypeIn, Qty: dec("1")},
		{ItemID: "b", MoveType: entity.MoveTypeOut, Qty: dec("1")},
	}
	net := inventory.NetConsumed(moves)
	assert.True(t, net["a"].Equal(dec("5")))
	assert.True(t, net["b"].Equal(dec("1")))
}

func TestNetConsumed_ReversaCompletaDejaNetoCero(t *testing.T) {
	moves := []*entity.StockMove{
		{ItemID: "a", MoveType: entity.MoveTypeOut, Qty: dec("4")},
		{ItemID: "a", MoveType: entity.MoveTypeIn, Qty: dec("4")},
	}
	net := inventory.NetConsumed(moves)
	assert.True(t, net["a"].IsZero())
}
