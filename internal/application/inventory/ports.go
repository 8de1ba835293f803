package inventory

import (
	"context"

	"github.com/garajesoft/taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para los movimientos
// manuales de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.InventoryItemRepository,
		moveRepo repository.StockMoveRepository,
	) error) error
}
