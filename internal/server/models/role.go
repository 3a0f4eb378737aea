package models

import "fmt"

// Role is the closed set of principal roles. Keeping it an integer enum
// (rather than free-form strings) makes role checks exhaustive.
type Role int

const (
	RoleCustomer Role = iota
	RoleManager
	RoleAdmin
)

const (
	roleNameCustomer = "customer"
	roleNameManager  = "manager"
	roleNameAdmin    = "admin"
)

// String returns the canonical name used in token claims and DB rows.
func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return roleNameCustomer
	case RoleManager:
		return roleNameManager
	case RoleAdmin:
		return roleNameAdmin
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// ParseRole maps a canonical role name back to its Role value.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleNameCustomer:
		return RoleCustomer, nil
	case roleNameManager:
		return RoleManager, nil
	case roleNameAdmin:
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}
