package models

import (
	"database/sql"
	"time"
)

// User is a principal stored in the users table. PasswordHash holds a
// self-describing bcrypt string and never leaves the server.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	TenantID     sql.NullInt64
	CreatedAt    time.Time
}
