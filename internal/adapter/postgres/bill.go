package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/pkg/metrics"
	"github.com/Temutjin2k/cab-billing-system/pkg/postgres"
)

const serviceName = "billing"

type BillRepo struct {
	db *pgxpool.Pool
}

func NewBillRepo(db *pgxpool.Pool) *BillRepo {
	return &BillRepo{db: db}
}

// Create inserts a bill row. The UNIQUE constraint on invoice_number is the
// backstop for count-based numbering: a concurrent duplicate fails here as
// types.ErrDuplicateNumber instead of committing silently.
func (r *BillRepo) Create(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	q := TxorDB(ctx, r.db)

	query := `
        INSERT INTO bills (invoice_number, invoice_date, order_by, used_by, trip_details, car,
                           package_qty, package_rate, extra_km_qty, extra_km_rate,
                           extra_time_qty, extra_time_rate, toll, driver_allowance, total)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING id, created_at;`

	start := time.Now()
	err := q.QueryRow(ctx, query,
		bill.InvoiceNumber, bill.InvoiceDate, bill.OrderBy, bill.UsedBy, bill.TripDetails, bill.Car,
		bill.PackageQty, bill.PackageRate, bill.ExtraKmQty, bill.ExtraKmRate,
		bill.ExtraTimeQty, bill.ExtraTimeRate, bill.Toll, bill.DriverAllow, bill.Total,
	).Scan(&bill.ID, &bill.CreatedAt)
	metrics.RecordDatabaseQuery(serviceName, "bill_insert", err, time.Since(start))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, types.ErrDuplicateNumber
		}
		return nil, fmt.Errorf("bill repo: Create: %w", err)
	}

	return bill, nil
}

// List returns all bills, newest first.
func (r *BillRepo) List(ctx context.Context) ([]models.Bill, error) {
	q := TxorDB(ctx, r.db)

	query := `
        SELECT id, invoice_number, invoice_date, order_by, used_by, trip_details, car,
               package_qty, package_rate, extra_km_qty, extra_km_rate,
               extra_time_qty, extra_time_rate, toll, driver_allowance, total, created_at
        FROM bills
        ORDER BY created_at DESC;`

	start := time.Now()
	rows, err := q.Query(ctx, query)
	metrics.RecordDatabaseQuery(serviceName, "bill_list", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("bill repo: List: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var b models.Bill
		if err := rows.Scan(
			&b.ID, &b.InvoiceNumber, &b.InvoiceDate, &b.OrderBy, &b.UsedBy, &b.TripDetails, &b.Car,
			&b.PackageQty, &b.PackageRate, &b.ExtraKmQty, &b.ExtraKmRate,
			&b.ExtraTimeQty, &b.ExtraTimeRate, &b.Toll, &b.DriverAllow, &b.Total, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("bill repo: List scan: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bill repo: List rows: %w", err)
	}

	return bills, nil
}

// CountByDay counts bills created on the given calendar day.
func (r *BillRepo) CountByDay(ctx context.Context, date time.Time) (int64, error) {
	q := TxorDB(ctx, r.db)

	var count int64
	query := `SELECT COUNT(*) FROM bills WHERE DATE(created_at) = $1;`

	if err := q.QueryRow(ctx, query, date.Format("2006-01-02")).Scan(&count); err != nil {
		return 0, fmt.Errorf("bill repo: CountByDay: %w", err)
	}
	return count, nil
}

// CountByYear counts bills created in the given calendar year.
func (r *BillRepo) CountByYear(ctx context.Context, date time.Time) (int64, error) {
	q := TxorDB(ctx, r.db)

	var count int64
	query := `SELECT COUNT(*) FROM bills WHERE EXTRACT(YEAR FROM created_at) = $1;`

	if err := q.QueryRow(ctx, query, date.Year()).Scan(&count); err != nil {
		return 0, fmt.Errorf("bill repo: CountByYear: %w", err)
	}
	return count, nil
}
