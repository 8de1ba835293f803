package billing

import (
	"context"

	"github.com/garajesoft/taller-api/internal/application/dto"
	"github.com/garajesoft/taller-api/internal/domain"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

// WorkUseCase consultas del maestro de trabajos y su lista de materiales.
// Solo lectura: el alta de trabajos queda fuera del alcance de la API.
type WorkUseCase struct {
	repo repository.WorkRepository
}

// NewWorkUseCase construye el caso de uso.
func NewWorkUseCase(repo repository.WorkRepository) *WorkUseCase {
	return &WorkUseCase{repo: repo}
}

// Get obtiene una plantilla de trabajo (ajena a la tienda = no encontrada).
func (uc *WorkUseCase) Get(ctx context.Context, storeID, id string) (*dto.WorkResponse, error) {
	work, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if work == nil || work.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return toWorkResponse(work), nil
}

// List lista las plantillas de la tienda.
func (uc *WorkUseCase) List(ctx context.Context, storeID string, limit, offset int) ([]*dto.WorkResponse, error) {
	if storeID == "" {
		return nil, domain.ErrStoreRequired
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	works, err := uc.repo.ListByStore(storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.WorkResponse, 0, len(works))
	for _, w := range works {
		out = append(out, toWorkResponse(w))
	}
	return out, nil
}

// Materials devuelve el BOM de un trabajo de la tienda.
func (uc *WorkUseCase) Materials(ctx context.Context, storeID, workID string) ([]dto.WorkMaterialResponse, error) {
	work, err := uc.repo.GetByID(workID)
	if err != nil {
		return nil, err
	}
	if work == nil || work.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	materials, err := uc.repo.MaterialsByWork(workID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkMaterialResponse, 0, len(materials))
	for _, m := range materials {
		out = append(out, dto.WorkMaterialResponse{
			ID:         m.ID,
			WorkID:     m.WorkID,
			ItemID:     m.ItemID,
			QtyPerWork: m.QtyPerWork,
		})
	}
	return out, nil
}

func toWorkResponse(w *entity.Work) *dto.WorkResponse {
	return &dto.WorkResponse{
		ID:        w.ID,
		StoreID:   w.StoreID,
		Name:      w.Name,
		Unit:      w.Unit,
		UnitPrice: w.UnitPrice,
		CostPrice: w.CostPrice,
		Note:      w.Note,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
