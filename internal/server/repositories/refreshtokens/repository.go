// Package refreshtokens provides the repository of issued refresh-token
// records. A record's existence is the proof of the session's validity:
// deleting the row is the revocation mechanism.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dsmirnov/authkeeper/internal/server/models"
)

// Repository defines operations for issuing, checking, and revoking
// refresh-token records.
type Repository interface {
	// Create stores a new record for userID with an expiry of now+validity
	// and returns it; the generated id is embedded into the signed token.
	Create(ctx context.Context, userID int64, validity time.Duration) (*models.RefreshToken, error)

	// FindByIDAndUser looks up the record whose id AND user id both match.
	// The double binding prevents a record id from being replayed with a
	// different principal. Returns common.ErrorNotFound when absent.
	FindByIDAndUser(ctx context.Context, id string, userID int64) (*models.RefreshToken, error)

	// Delete removes a record by id. Deleting a non-existent record is a
	// no-op success, so duplicate logout or rotation calls stay safe.
	Delete(ctx context.Context, id string) error

	// DeleteAllForUser removes every record belonging to userID.
	DeleteAllForUser(ctx context.Context, userID int64) error
}
