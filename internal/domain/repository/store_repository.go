package repository

import "github.com/garajesoft/taller-api/internal/domain/entity"

// StoreRepository define el puerto para tiendas (scoping de tenant).
type StoreRepository interface {
	GetByID(id string) (*entity.Store, error)
}
