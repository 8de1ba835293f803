package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

var _ repository.WorkRepository = (*WorkRepo)(nil)

// WorkRepo implementación de WorkRepository (solo lectura desde facturación).
type WorkRepo struct {
	q Querier
}

// NewWorkRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkRepository(q Querier) *WorkRepo {
	return &WorkRepo{q: q}
}

// GetByID obtiene una plantilla de trabajo por ID (nil si no existe).
func (r *WorkRepo) GetByID(id string) (*entity.Work, error) {
	query := `
		SELECT id, store_id, name, unit, unit_price, cost_price, note, created_at, updated_at
		FROM works WHERE id = $1`
	var w entity.Work
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&w.ID, &w.StoreID, &w.Name, &w.Unit, &w.UnitPrice, &w.CostPrice, &w.Note,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work: %w", err)
	}
	return &w, nil
}

// ListByStore lista las plantillas de trabajo de una tienda.
func (r *WorkRepo) ListByStore(storeID string, limit, offset int) ([]*entity.Work, error) {
	query := `
		SELECT id, store_id, name, unit, unit_price, cost_price, note, created_at, updated_at
		FROM works WHERE store_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}
	defer rows.Close()
	var list []*entity.Work
	for rows.Next() {
		var w entity.Work
		if err := rows.Scan(&w.ID, &w.StoreID, &w.Name, &w.Unit, &w.UnitPrice, &w.CostPrice, &w.Note,
			&w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan work: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// MaterialsByWork obtiene el BOM de un trabajo.
func (r *WorkRepo) MaterialsByWork(workID string) ([]*entity.WorkMaterial, error) {
	byWork, err := r.MaterialsByWorks([]string{workID})
	if err != nil {
		return nil, err
	}
	return byWork[workID], nil
}

// MaterialsByWorks agrupa los materiales de varios trabajos por work_id en
// una sola consulta.
func (r *WorkRepo) MaterialsByWorks(workIDs []string) (map[string][]*entity.WorkMaterial, error) {
	out := make(map[string][]*entity.WorkMaterial, len(workIDs))
	if len(workIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT id, store_id, work_id, item_id, qty_per_work, created_at, updated_at
		FROM work_materials WHERE work_id = ANY($1::uuid[]) ORDER BY work_id, item_id`
	rows, err := r.q.Query(context.Background(), query, workIDs)
	if err != nil {
		return nil, fmt.Errorf("list work materials: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m entity.WorkMaterial
		if err := rows.Scan(&m.ID, &m.StoreID, &m.WorkID, &m.ItemID, &m.QtyPerWork,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan work material: %w", err)
		}
		out[m.WorkID] = append(out[m.WorkID], &m)
	}
	return out, rows.Err()
}
