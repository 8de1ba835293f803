package repository

import "github.com/garajesoft/taller-api/internal/domain/entity"

// WorkRepository define el puerto para el maestro de trabajos y su BOM.
// Solo lectura desde el motor de facturación.
type WorkRepository interface {
	GetByID(id string) (*entity.Work, error)
	ListByStore(storeID string, limit, offset int) ([]*entity.Work, error)
	MaterialsByWork(workID string) ([]*entity.WorkMaterial, error)
	// MaterialsByWorks agrupa los materiales de varios trabajos por work_id
	// (una sola consulta para resolver el consumo de todas las líneas).
	MaterialsByWorks(workIDs []string) (map[string][]*entity.WorkMaterial, error)
}
