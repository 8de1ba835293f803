package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/garajesoft/taller-api/internal/application/dto"
	"github.com/garajesoft/taller-api/internal/domain"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

// ItemUseCase CRUD de artículos de inventario (maestro por tienda).
type ItemUseCase struct {
	repo repository.InventoryItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.InventoryItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un artículo. QtyOnHand inicial se acepta como carga de alta;
// después solo debe moverse vía movimientos de inventario.
func (uc *ItemUseCase) Create(ctx context.Context, storeID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if storeID == "" {
		return nil, domain.ErrStoreRequired
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CostPrice.IsNegative() || in.SalePrice.IsNegative() || in.QtyOnHand.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.InventoryItem{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		SKU:       strings.TrimSpace(in.SKU),
		Name:      name,
		Unit:      strings.TrimSpace(in.Unit),
		CostPrice: in.CostPrice,
		SalePrice: in.SalePrice,
		QtyOnHand: in.QtyOnHand,
		Note:      in.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Get obtiene un artículo (scoping por tienda: ajeno = no encontrado).
func (uc *ItemUseCase) Get(ctx context.Context, storeID, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista artículos de la tienda, con filtro de texto opcional.
func (uc *ItemUseCase) List(ctx context.Context, storeID, q string, limit, offset int) ([]*dto.ItemResponse, error) {
	if storeID == "" {
		return nil, domain.ErrStoreRequired
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	items, err := uc.repo.ListByStore(storeID, q, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out, nil
}

// Update actualiza campos del maestro. Sobrescribir qty_on_hand a mano es
// propenso a accidentes pero se permite mientras no exista UI de conteo
// físico.
func (uc *ItemUseCase) Update(ctx context.Context, storeID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil {
		item.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.Unit != nil {
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.CostPrice = *in.CostPrice
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.SalePrice = *in.SalePrice
	}
	if in.QtyOnHand != nil {
		if in.QtyOnHand.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.QtyOnHand = *in.QtyOnHand
	}
	if in.Note != nil {
		item.Note = *in.Note
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina un artículo del maestro.
func (uc *ItemUseCase) Delete(ctx context.Context, storeID, id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil || item.StoreID != storeID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toItemResponse(item *entity.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:        item.ID,
		StoreID:   item.StoreID,
		SKU:       item.SKU,
		Name:      item.Name,
		Unit:      item.Unit,
		CostPrice: item.CostPrice,
		SalePrice: item.SalePrice,
		QtyOnHand: item.QtyOnHand,
		Note:      item.Note,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
