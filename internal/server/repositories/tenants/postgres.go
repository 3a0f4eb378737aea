package tenants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// Create inserts the tenant and fills in the generated id and creation time.
func (r *PostgresRepository) Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	query := `
		INSERT INTO tenants (name, address)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, tenant.Name, tenant.Address).
		Scan(&tenant.ID, &tenant.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	return tenant, nil
}

// GetByID returns the tenant row for the given id.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	query := `
		SELECT id, name, address, created_at
		FROM tenants
		WHERE id = $1
	`
	tenant := &models.Tenant{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&tenant.ID, &tenant.Name, &tenant.Address, &tenant.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tenant, nil
}

// List returns all tenants ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Tenant, error) {
	query := `
		SELECT id, name, address, created_at
		FROM tenants
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []*models.Tenant
	for rows.Next() {
		tenant := &models.Tenant{}
		if err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.Address, &tenant.CreatedAt); err != nil {
			return nil, fmt.Errorf("error reading rows: %v", err)
		}
		result = append(result, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %v", err)
	}
	return result, nil
}

// Update rewrites name and address for the given tenant id.
func (r *PostgresRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $1, address = $2
		WHERE id = $3
	`
	res, err := r.db.ExecContext(ctx, query, tenant.Name, tenant.Address, tenant.ID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading result: %v", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes a tenant row by id.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM tenants
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading result: %v", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
