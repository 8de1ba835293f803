package billing

import (
	"context"
	"time"

	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repositorios de facturación, numeración e inventario. Es la unidad de
// trabajo del motor: numeración, totales, líneas y movimientos de stock se
// confirman o revierten juntos.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		docRepo repository.BillingDocumentRepository,
		seqRepo repository.BillingSequenceRepository,
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
		workRepo repository.WorkRepository,
	) error) error
}

// StockEngine interfaz del motor de conciliación de inventario. Cada método
// opera con los repositorios del caller (misma transacción que el cambio de
// estado del documento); si retorna error el caller debe hacer rollback.
type StockEngine interface {
	ConsumeForIssueInTx(
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
		workRepo repository.WorkRepository,
		doc *entity.BillingDocument,
		lines []*entity.BillingLine,
		now time.Time,
	) error
	ReconcileLinesInTx(
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
		workRepo repository.WorkRepository,
		doc *entity.BillingDocument,
		newLines []*entity.BillingLine,
		now time.Time,
	) error
	ReverseForVoidInTx(
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
		doc *entity.BillingDocument,
		now time.Time,
	) error
}
