package billing

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

// CustomerUseCase CRUD de clientes (maestro por tienda).
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, storeID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if storeID == "" {
		return nil, domain.ErrStoreRequired
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Note:      in.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get obtiene un cliente (ajeno a la tienda = no encontrado).
func (uc *CustomerUseCase) Get(ctx context.Context, storeID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.StoreID != storeID {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// List lista los clientes de la tienda.
func (uc *CustomerUseCase) List(ctx context.Context, storeID string, limit, offset int) ([]*dto.CustomerResponse, error) {
	if storeID == "" {
		return nil, domain.ErrStoreRequired
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	customers, err := uc.repo.ListByStore(storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID,
		StoreID: c.StoreID,
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Note:    c.Note,
	}
}
