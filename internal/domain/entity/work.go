package entity

import "time"

// Work representa una plantilla de trabajo del taller (maestro).
// Las líneas de facturación que la referencian copian estos campos como
// snapshot; cambios posteriores no alteran documentos históricos.
type Work struct {
	ID        string
	StoreID   string
	Name      string
	Unit      string
	UnitPrice int64
	CostPrice int64
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
