package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/pkg/postgres"
)

type CustomerRepo struct {
	db *pgxpool.Pool
}

func NewCustomerRepo(db *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// GetByPhone fetches a customer by phone (the dedup key).
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	q := TxorDB(ctx, r.db)

	var c models.Customer
	query := `SELECT id, name, email, phone, created_at FROM customers WHERE phone = $1;`

	err := q.QueryRow(ctx, query, phone).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("customer repo: GetByPhone: %w", err)
	}

	return &c, nil
}

// Create inserts a customer row. The UNIQUE constraint on phone catches a
// concurrent insert racing the lookup-or-create path; it surfaces as
// types.ErrDuplicatePhone rather than a generic failure.
func (r *CustomerRepo) Create(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	q := TxorDB(ctx, r.db)

	query := `
        INSERT INTO customers (name, email, phone)
        VALUES ($1, $2, $3)
        RETURNING id, created_at;`

	if err := q.QueryRow(ctx, query, c.Name, c.Email, c.Phone).Scan(&c.ID, &c.CreatedAt); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, types.ErrDuplicatePhone
		}
		return nil, fmt.Errorf("customer repo: Create: %w", err)
	}

	return c, nil
}

// Get fetches a customer by id.
func (r *CustomerRepo) Get(ctx context.Context, id int64) (*models.Customer, error) {
	q := TxorDB(ctx, r.db)

	var c models.Customer
	query := `SELECT id, name, email, phone, created_at FROM customers WHERE id = $1;`

	err := q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("customer repo: Get: %w", err)
	}

	return &c, nil
}
