package models

import "time"

// Tenant is a customer organization. Manager users are scoped to a tenant.
type Tenant struct {
	ID        int64
	Name      string
	Address   string
	CreatedAt time.Time
}
