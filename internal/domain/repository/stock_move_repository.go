package repository

import "github.com/garajesoft/taller-api/internal/domain/entity"

// StockMoveRepository define el puerto para el libro de movimientos de
// inventario (append-only). Las consultas por referencia son la base de la
// idempotencia del motor: el consumo de un documento se deriva releyendo
// sus filas, nunca de un flag.
type StockMoveRepository interface {
	Create(mv *entity.StockMove) error
	// ListByRef devuelve los movimientos etiquetados con un documento,
	// filtrados por ref_type.
	ListByRef(refID string, refTypes ...string) ([]*entity.StockMove, error)
	// HasRef indica si existe al menos un movimiento con esa referencia.
	HasRef(refID, refType string) (bool, error)
	ListByStore(storeID, itemID string, limit, offset int) ([]*entity.StockMove, error)
}
