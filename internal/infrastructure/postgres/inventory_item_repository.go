package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/garajesoft/taller-api/internal/domain"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, store_id, sku, name, unit, cost_price, sale_price, qty_on_hand, note, created_at, updated_at`

// Create persiste un artículo de inventario.
func (r *InventoryItemRepo) Create(item *entity.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_items (id, store_id, sku, name, unit, cost_price, sale_price, qty_on_hand, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.StoreID, nullIfEmpty(item.SKU), item.Name, item.Unit,
		item.CostPrice, item.SalePrice, item.QtyOnHand, item.Note,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, item.SKU)
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// Update actualiza los campos editables del artículo (incluye qty_on_hand
// para el ajuste manual de inventario físico).
func (r *InventoryItemRepo) Update(item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET sku = $2, name = $3, unit = $4, cost_price = $5, sale_price = $6,
		    qty_on_hand = $7, note = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, nullIfEmpty(item.SKU), item.Name, item.Unit,
		item.CostPrice, item.SalePrice, item.QtyOnHand, item.Note, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, item.SKU)
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// Delete elimina un artículo.
func (r *InventoryItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID (nil si no existe).
func (r *InventoryItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE).
func (r *InventoryItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// UpdateQty fija la cantidad en mano. Solo el motor de inventario, tras
// GetForUpdate en la misma transacción.
func (r *InventoryItemRepo) UpdateQty(id string, qty decimal.Decimal, now time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE inventory_items SET qty_on_hand = $2, updated_at = $3 WHERE id = $1`,
		id, qty, now,
	)
	if err != nil {
		return fmt.Errorf("update qty_on_hand: %w", err)
	}
	return nil
}

// ListByStore lista los artículos de una tienda; q filtra por nombre o SKU.
func (r *InventoryItemRepo) ListByStore(storeID, q string, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE store_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR sku ILIKE '%' || $2 || '%')
		ORDER BY name
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, storeID, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func (r *InventoryItemRepo) scanOne(row pgx.Row) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	var sku *string
	err := row.Scan(
		&item.ID, &item.StoreID, &sku, &item.Name, &item.Unit,
		&item.CostPrice, &item.SalePrice, &item.QtyOnHand, &item.Note,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	item.SKU = derefStr(sku)
	return &item, nil
}
