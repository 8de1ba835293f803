package entity

import "time"

// Customer representa un cliente del taller (por tienda).
type Customer struct {
	ID        string
	StoreID   string
	Name      string
	Phone     string
	Email     string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
