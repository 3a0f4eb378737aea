package models

import "time"

// RefreshToken is one still-valid session row. The row's existence is the
// proof of validity: deleting it is the revocation mechanism, there is no
// separate revoked flag.
type RefreshToken struct {
	ID        string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}
