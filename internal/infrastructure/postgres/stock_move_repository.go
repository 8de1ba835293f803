package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*StockMoveRepo)(nil)

// StockMoveRepo implementación de StockMoveRepository (usable con pool o tx).
// El libro es append-only: no hay Update ni Delete.
type StockMoveRepo struct {
	q Querier
}

// NewStockMoveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMoveRepository(q Querier) *StockMoveRepo {
	return &StockMoveRepo{q: q}
}

const moveColumns = `id, store_id, item_id, move_type, qty, unit_cost, ref_type, ref_id, note, created_at`

// Create agrega una entrada al libro de movimientos.
func (r *StockMoveRepo) Create(mv *entity.StockMove) error {
	if mv.ID == "" {
		mv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_moves (id, store_id, item_id, move_type, qty, unit_cost, ref_type, ref_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		mv.ID, mv.StoreID, mv.ItemID, mv.MoveType, mv.Qty, mv.UnitCost,
		mv.RefType, nullIfEmpty(mv.RefID), mv.Note, mv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock move: %w", err)
	}
	return nil
}

// ListByRef devuelve los movimientos de un documento filtrados por ref_type.
func (r *StockMoveRepo) ListByRef(refID string, refTypes ...string) ([]*entity.StockMove, error) {
	query := `
		SELECT ` + moveColumns + `
		FROM stock_moves
		WHERE ref_id = $1 AND ref_type = ANY($2)
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, refID, refTypes)
	if err != nil {
		return nil, fmt.Errorf("list stock moves by ref: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// HasRef indica si existe al menos un movimiento con esa referencia.
func (r *StockMoveRepo) HasRef(refID, refType string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM stock_moves WHERE ref_id = $1 AND ref_type = $2)`,
		refID, refType,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check stock move ref: %w", err)
	}
	return exists, nil
}

// ListByStore lista los movimientos de una tienda; itemID filtra opcionalmente.
func (r *StockMoveRepo) ListByStore(storeID, itemID string, limit, offset int) ([]*entity.StockMove, error) {
	query := `
		SELECT ` + moveColumns + `
		FROM stock_moves
		WHERE store_id = $1 AND ($2 = '' OR item_id = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, storeID, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *StockMoveRepo) collect(rows pgx.Rows) ([]*entity.StockMove, error) {
	var list []*entity.StockMove
	for rows.Next() {
		var mv entity.StockMove
		var refID *string
		if err := rows.Scan(&mv.ID, &mv.StoreID, &mv.ItemID, &mv.MoveType, &mv.Qty, &mv.UnitCost,
			&mv.RefType, &refID, &mv.Note, &mv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		mv.RefID = derefStr(refID)
		list = append(list, &mv)
	}
	return list, rows.Err()
}
