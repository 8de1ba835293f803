package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/garajesoft/taller-api/internal/application/billing"
	"github.com/garajesoft/taller-api/internal/application/inventory"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and billing.BillingTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.InventoryItemRepository,
	moveRepo repository.StockMoveRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewInventoryItemRepository(tx)
	moveRepo := NewStockMoveRepository(tx)

	if err := fn(itemRepo, moveRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBilling inicia una transacción con los repos de facturación, numeración
// e inventario: el ciclo de vida del documento y sus efectos de stock se
// confirman o revierten juntos.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	docRepo repository.BillingDocumentRepository,
	seqRepo repository.BillingSequenceRepository,
	itemRepo repository.InventoryItemRepository,
	moveRepo repository.StockMoveRepository,
	workRepo repository.WorkRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	docRepo := NewBillingDocumentRepository(tx)
	seqRepo := NewBillingSequenceRepository(tx)
	itemRepo := NewInventoryItemRepository(tx)
	moveRepo := NewStockMoveRepository(tx)
	workRepo := NewWorkRepository(tx)

	if err := fn(docRepo, seqRepo, itemRepo, moveRepo, workRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
