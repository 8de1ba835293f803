package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/garajesoft/taller-api/internal/application/dto"
	"github.com/garajesoft/taller-api/internal/domain"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

// StockUseCase registra movimientos manuales de inventario y presta el motor
// de conciliación a facturación (ver engine.go).
type StockUseCase struct {
	txRunner TxRunner
	itemRepo repository.InventoryItemRepository
	moveRepo repository.StockMoveRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	moveRepo repository.StockMoveRepository,
) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, itemRepo: itemRepo, moveRepo: moveRepo}
}

// RegisterMove registra un movimiento manual (in/out/adjust) en una
// transacción: bloquea el artículo, aplica la cantidad y agrega la fila al
// libro con ref_type "manual".
func (uc *StockUseCase) RegisterMove(ctx context.Context, storeID string, in dto.CreateStockMoveRequest) (*dto.StockMoveResponse, error) {
	if storeID == "" {
		return nil, domain.ErrStoreRequired
	}
	if in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.MoveType {
	case entity.MoveTypeIn, entity.MoveTypeOut:
		if !in.Qty.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	case entity.MoveTypeAdjust:
		if in.Qty.IsZero() {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, fmt.Errorf("%w: move_type %q", domain.ErrInvalidInput, in.MoveType)
	}

	now := time.Now()
	var saved *entity.StockMove

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
	) error {
		item, err := itemRepo.GetForUpdate(in.ItemID)
		if err != nil {
			return err
		}
		if item == nil || item.StoreID != storeID {
			return domain.ErrNotFound
		}

		newQty := item.QtyOnHand
		switch in.MoveType {
		case entity.MoveTypeIn:
			newQty = newQty.Add(in.Qty)
		case entity.MoveTypeOut:
			if item.QtyOnHand.LessThan(in.Qty) {
				return fmt.Errorf("%w: %s (requerido %s %s, disponible %s)",
					domain.ErrInsufficientStock, item.Name, in.Qty, item.Unit, item.QtyOnHand)
			}
			newQty = newQty.Sub(in.Qty)
		case entity.MoveTypeAdjust:
			// adjust lleva el signo en qty (delta sobre el stock actual)
			newQty = newQty.Add(in.Qty)
			if newQty.IsNegative() {
				return fmt.Errorf("%w: ajuste deja stock negativo en %s", domain.ErrInvalidInput, item.Name)
			}
		}
		if err := itemRepo.UpdateQty(item.ID, newQty, now); err != nil {
			return err
		}

		unitCost := item.CostPrice
		if in.UnitCost != nil {
			unitCost = *in.UnitCost
		}
		saved = &entity.StockMove{
			ID:        uuid.New().String(),
			StoreID:   storeID,
			ItemID:    item.ID,
			MoveType:  in.MoveType,
			Qty:       in.Qty,
			UnitCost:  unitCost,
			RefType:   entity.RefTypeManual,
			Note:      in.Note,
			CreatedAt: now,
		}
		return moveRepo.Create(saved)
	})
	if err != nil {
		return nil, err
	}
	return toMoveResponse(saved), nil
}

// ListMoves lista el libro de movimientos de la tienda (opcionalmente por artículo).
func (uc *StockUseCase) ListMoves(ctx context.Context, storeID, itemID string, limit, offset int) ([]*dto.StockMoveResponse, error) {
	if storeID == "" {
		return nil, domain.ErrStoreRequired
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	moves, err := uc.moveRepo.ListByStore(storeID, itemID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockMoveResponse, 0, len(moves))
	for _, mv := range moves {
		out = append(out, toMoveResponse(mv))
	}
	return out, nil
}

// DocumentConsumption devuelve el neto retirado por un documento, por
// artículo, releyendo el libro (consulta de auditoría).
func (uc *StockUseCase) DocumentConsumption(ctx context.Context, storeID, billingID string) (map[string]decimal.Decimal, error) {
	if storeID == "" {
		return nil, domain.ErrStoreRequired
	}
	moves, err := uc.moveRepo.ListByRef(billingID,
		entity.RefTypeBillingIssue, entity.RefTypeBillingUpdate, entity.RefTypeBillingVoid)
	if err != nil {
		return nil, err
	}
	net := make(map[string]decimal.Decimal)
	for _, mv := range moves {
		if mv.StoreID != storeID {
			return nil, domain.ErrNotFound
		}
		switch mv.MoveType {
		case entity.MoveTypeOut:
			net[mv.ItemID] = net[mv.ItemID].Add(mv.Qty)
		case entity.MoveTypeIn:
			net[mv.ItemID] = net[mv.ItemID].Sub(mv.Qty)
		}
	}
	return net, nil
}

func toMoveResponse(mv *entity.StockMove) *dto.StockMoveResponse {
	return &dto.StockMoveResponse{
		ID:        mv.ID,
		StoreID:   mv.StoreID,
		ItemID:    mv.ItemID,
		MoveType:  mv.MoveType,
		Qty:       mv.Qty,
		UnitCost:  mv.UnitCost,
		RefType:   mv.RefType,
		RefID:     mv.RefID,
		Note:      mv.Note,
		CreatedAt: mv.CreatedAt,
	}
}
