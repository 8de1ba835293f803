package repository

import "github.com/garajesoft/taller-api/internal/domain/entity"

// SettingsRepository provee configuración de la aplicación (system_settings).
// El motor solo consume la entrada "tax"; si no existe se devuelven los
// valores por defecto.
type SettingsRepository interface {
	TaxSettings() (entity.TaxSettings, error)
}
