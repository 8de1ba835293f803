package repository

import "github.com/garajesoft/taller-api/internal/domain/entity"

// CustomerRepository define el puerto para clientes.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	ListByStore(storeID string, limit, offset int) ([]*entity.Customer, error)
}
