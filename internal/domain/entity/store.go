package entity

import "time"

// Store representa una tienda/taller (unidad de multi-tenancy).
type Store struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
