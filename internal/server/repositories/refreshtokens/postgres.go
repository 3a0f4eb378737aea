package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dsmirnov/authkeeper/internal/common"
	"github.com/dsmirnov/authkeeper/internal/dbx"
	"github.com/dsmirnov/authkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new record with a generated UUID for userID with an
// expiry time of now+validity.
func (r *PostgresRepository) Create(ctx context.Context, userID int64, validity time.Duration) (*models.RefreshToken, error) {
	record := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(validity),
	}

	query := `
		INSERT INTO refresh_tokens (id, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING issued_at
	`
	if err := r.db.QueryRowContext(ctx, query, record.ID, record.UserID, record.ExpiresAt).Scan(&record.IssuedAt); err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	return record, nil
}

// FindByIDAndUser returns the record matching both the record id and the
// owning user id. If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) FindByIDAndUser(ctx context.Context, id string, userID int64) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, issued_at, expires_at
		FROM refresh_tokens
		WHERE id = $1 AND user_id = $2
	`
	record := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&record.ID, &record.UserID, &record.IssuedAt, &record.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

// Delete removes a record by id. A missing row is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteAllForUser removes all records belonging to userID.
func (r *PostgresRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
