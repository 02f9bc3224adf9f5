package entity

import "time"

// Client representa un cliente que coloca pedidos.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
