package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/garajesoft/taller-api/internal/domain"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	domaininv "github.com/garajesoft/taller-api/internal/domain/inventory"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

// Motor de conciliación de inventario. Todas las operaciones reciben los
// repositorios del caller (misma transacción que el cambio de estado del
// documento): si el inventario falla, el estado del documento también se
// revierte. La idempotencia se decide releyendo el libro de movimientos,
// nunca con un flag de "ya consumido".

// ConsumeForIssueInTx descuenta el stock que exigen las líneas del documento
// al emitirse. Si ya existen movimientos billing_issue para el documento,
// no hace nada (reintento seguro). Stock insuficiente en cualquier artículo
// aborta sin aplicar nada.
func (uc *StockUseCase) ConsumeForIssueInTx(
	itemRepo repository.InventoryItemRepository,
	moveRepo repository.StockMoveRepository,
	workRepo repository.WorkRepository,
	doc *entity.BillingDocument,
	lines []*entity.BillingLine,
	now time.Time,
) error {
	consumed, err := moveRepo.HasRef(doc.ID, entity.RefTypeBillingIssue)
	if err != nil {
		return err
	}
	if consumed {
		return nil // ya consumido: la emisión reintentada es un no-op
	}

	required, err := requiredForLines(workRepo, lines)
	if err != nil {
		return err
	}
	for _, itemID := range sortedKeys(required) {
		qty := required[itemID]
		if !qty.IsPositive() {
			continue
		}
		if err := applyOut(itemRepo, moveRepo, doc.StoreID, itemID, qty, entity.RefTypeBillingIssue, doc.ID, now); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileLinesInTx ajusta el consumo de un documento emitido cuyas líneas
// fueron reemplazadas: delta = requerido(nuevas líneas) − consumido(libro).
// Delta positivo genera un out billing_update, negativo un in billing_update,
// cero no toca el libro (guardar sin cambios de BOM es un no-op real).
func (uc *StockUseCase) ReconcileLinesInTx(
	itemRepo repository.InventoryItemRepository,
	moveRepo repository.StockMoveRepository,
	workRepo repository.WorkRepository,
	doc *entity.BillingDocument,
	newLines []*entity.BillingLine,
	now time.Time,
) error {
	moves, err := moveRepo.ListByRef(doc.ID, entity.RefTypeBillingIssue, entity.RefTypeBillingUpdate)
	if err != nil {
		return err
	}
	consumedSoFar := domaininv.NetConsumed(moves)

	required, err := requiredForLines(workRepo, newLines)
	if err != nil {
		return err
	}

	// Unión de artículos presentes en requerido o en el libro.
	all := make(map[string]struct{}, len(required)+len(consumedSoFar))
	for id := range required {
		all[id] = struct{}{}
	}
	for id := range consumedSoFar {
		all[id] = struct{}{}
	}
	for _, itemID := range sortedSet(all) {
		delta := required[itemID].Sub(consumedSoFar[itemID])
		switch {
		case delta.IsPositive():
			if err := applyOut(itemRepo, moveRepo, doc.StoreID, itemID, delta, entity.RefTypeBillingUpdate, doc.ID, now); err != nil {
				return err
			}
		case delta.IsNegative():
			if err := applyIn(itemRepo, moveRepo, doc.StoreID, itemID, delta.Neg(), entity.RefTypeBillingUpdate, doc.ID, now); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReverseForVoidInTx devuelve al inventario el neto exacto que el documento
// retiró (billing_issue + billing_update, out menos in). Si ya existe una
// reversa billing_void no hace nada.
func (uc *StockUseCase) ReverseForVoidInTx(
	itemRepo repository.InventoryItemRepository,
	moveRepo repository.StockMoveRepository,
	doc *entity.BillingDocument,
	now time.Time,
) error {
	reversed, err := moveRepo.HasRef(doc.ID, entity.RefTypeBillingVoid)
	if err != nil {
		return err
	}
	if reversed {
		return nil
	}

	moves, err := moveRepo.ListByRef(doc.ID, entity.RefTypeBillingIssue, entity.RefTypeBillingUpdate)
	if err != nil {
		return err
	}
	net := domaininv.NetConsumed(moves)
	for _, itemID := range sortedKeys(net) {
		qty := net[itemID]
		if !qty.IsPositive() {
			continue
		}
		if err := applyIn(itemRepo, moveRepo, doc.StoreID, itemID, qty, entity.RefTypeBillingVoid, doc.ID, now); err != nil {
			return err
		}
	}
	return nil
}

// requiredForLines resuelve el BOM de todas las líneas con work_id y pliega
// el consumo requerido por artículo.
func requiredForLines(workRepo repository.WorkRepository, lines []*entity.BillingLine) (map[string]decimal.Decimal, error) {
	workIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if l.WorkID == "" {
			continue
		}
		if _, ok := seen[l.WorkID]; ok {
			continue
		}
		seen[l.WorkID] = struct{}{}
		workIDs = append(workIDs, l.WorkID)
	}
	if len(workIDs) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	materials, err := workRepo.MaterialsByWorks(workIDs)
	if err != nil {
		return nil, err
	}
	return domaininv.RequiredConsumption(lines, materials), nil
}

// applyOut bloquea el artículo, verifica stock suficiente, descuenta y
// registra el movimiento out con el costo actual como snapshot.
func applyOut(
	itemRepo repository.InventoryItemRepository,
	moveRepo repository.StockMoveRepository,
	storeID, itemID string,
	qty decimal.Decimal,
	refType, refID string,
	now time.Time,
) error {
	item, err := itemRepo.GetForUpdate(itemID)
	if err != nil {
		return err
	}
	if item == nil || item.StoreID != storeID {
		return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, itemID)
	}
	if item.QtyOnHand.LessThan(qty) {
		return fmt.Errorf("%w: %s (requerido %s %s, disponible %s)",
			domain.ErrInsufficientStock, item.Name, qty, item.Unit, item.QtyOnHand)
	}
	if err := itemRepo.UpdateQty(itemID, item.QtyOnHand.Sub(qty), now); err != nil {
		return err
	}
	return moveRepo.Create(&entity.StockMove{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		ItemID:    itemID,
		MoveType:  entity.MoveTypeOut,
		Qty:       qty,
		UnitCost:  item.CostPrice,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: now,
	})
}

// applyIn bloquea el artículo, suma y registra el movimiento in.
func applyIn(
	itemRepo repository.InventoryItemRepository,
	moveRepo repository.StockMoveRepository,
	storeID, itemID string,
	qty decimal.Decimal,
	refType, refID string,
	now time.Time,
) error {
	item, err := itemRepo.GetForUpdate(itemID)
	if err != nil {
		return err
	}
	if item == nil || item.StoreID != storeID {
		return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, itemID)
	}
	if err := itemRepo.UpdateQty(itemID, item.QtyOnHand.Add(qty), now); err != nil {
		return err
	}
	return moveRepo.Create(&entity.StockMove{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		ItemID:    itemID,
		MoveType:  entity.MoveTypeIn,
		Qty:       qty,
		UnitCost:  item.CostPrice,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: now,
	})
}

// Orden fijo de artículos: resultados deterministas y un solo orden de
// adquisición de locks de fila entre transacciones concurrentes.
func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
