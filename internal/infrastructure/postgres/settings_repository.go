package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/garajesoft/taller-api/internal/domain/entity"
	"github.com/garajesoft/taller-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo lee system_settings (clave -> JSON).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// TaxSettings devuelve la configuración de impuesto (clave "tax"). Si no hay
// fila o algún campo viene vacío se completan los valores por defecto.
func (r *SettingsRepo) TaxSettings() (entity.TaxSettings, error) {
	def := entity.DefaultTaxSettings()
	var raw []byte
	err := r.q.QueryRow(context.Background(),
		`SELECT value FROM system_settings WHERE key = 'tax'`,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return def, nil
		}
		return entity.TaxSettings{}, fmt.Errorf("get tax settings: %w", err)
	}
	var cfg entity.TaxSettings
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return entity.TaxSettings{}, fmt.Errorf("decode tax settings: %w", err)
	}
	if cfg.Rate.IsZero() && cfg.Mode == "" && cfg.Rounding == "" {
		return def, nil
	}
	if cfg.Mode == "" {
		cfg.Mode = def.Mode
	}
	if cfg.Rounding == "" {
		cfg.Rounding = def.Rounding
	}
	return cfg, nil
}
