package repository

import "github.com/garajesoft/taller-api/internal/domain/entity"

// BillingDocumentRepository define el puerto de persistencia para documentos
// de facturación y sus líneas. Las líneas pertenecen en exclusiva a su
// documento: reemplazarlas es borrar-y-reinsertar, nunca edición parcial.
type BillingDocumentRepository interface {
	Create(doc *entity.BillingDocument) error
	Update(doc *entity.BillingDocument) error
	GetByID(id string) (*entity.BillingDocument, error)
	// GetForUpdate bloquea la fila del documento (SELECT FOR UPDATE) para
	// serializar transiciones de estado concurrentes sobre el mismo documento.
	GetForUpdate(id string) (*entity.BillingDocument, error)
	List(storeID, kind, status string, limit, offset int) ([]*entity.BillingDocument, error)
	Delete(id string) error

	ReplaceLines(billingID string, lines []*entity.BillingLine) error
	GetLines(billingID string) ([]*entity.BillingLine, error)
}

// BillingSequenceRepository asigna números de documento únicos por
// (store, kind, año). Debe invocarse dentro de la misma transacción que
// insertará/actualizará el documento; el lock se mantiene hasta el commit.
type BillingSequenceRepository interface {
	AllocateDocNo(storeID, kind string, year int) (string, error)
}
