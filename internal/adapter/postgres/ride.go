package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/pkg/metrics"
	"github.com/Temutjin2k/cab-billing-system/pkg/postgres"
)

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

// Create inserts a ride row. The UNIQUE constraint on bill_number turns a
// numbering race into types.ErrDuplicateNumber.
func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	q := TxorDB(ctx, r.db)

	query := `
        INSERT INTO rides (customer_id, pickup_location, drop_location, distance_km, distance_source,
                           start_odometer, end_odometer, fare_total, night_charge, toll_charge,
                           payment_mode, driver_name, bill_number)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, created_at;`

	start := time.Now()
	err := q.QueryRow(ctx, query,
		ride.CustomerID, ride.PickupLocation, ride.DropLocation, ride.DistanceKm, ride.DistanceSource,
		ride.StartOdometer, ride.EndOdometer, ride.FareTotal, ride.NightCharge, ride.TollCharge,
		ride.PaymentMode, ride.DriverName, ride.BillNumber,
	).Scan(&ride.ID, &ride.CreatedAt)
	metrics.RecordDatabaseQuery(serviceName, "ride_insert", err, time.Since(start))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, types.ErrDuplicateNumber
		}
		if postgres.IsForeignKeyViolation(err) {
			return nil, types.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("ride repo: Create: %w", err)
	}

	return ride, nil
}

func (r *RideRepo) Get(ctx context.Context, rideID int64) (*models.Ride, error) {
	q := TxorDB(ctx, r.db)

	var ride models.Ride
	query := `
        SELECT id, customer_id, pickup_location, drop_location, distance_km, distance_source,
               start_odometer, end_odometer, fare_total, night_charge, toll_charge,
               payment_mode, driver_name, bill_number, created_at
        FROM rides
        WHERE id = $1;`

	err := q.QueryRow(ctx, query, rideID).Scan(
		&ride.ID, &ride.CustomerID, &ride.PickupLocation, &ride.DropLocation, &ride.DistanceKm, &ride.DistanceSource,
		&ride.StartOdometer, &ride.EndOdometer, &ride.FareTotal, &ride.NightCharge, &ride.TollCharge,
		&ride.PaymentMode, &ride.DriverName, &ride.BillNumber, &ride.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("ride repo: Get: %w", err)
	}

	return &ride, nil
}

// List returns rides matching the filter, newest first. All filter values are
// bound as parameters, never concatenated into the query text.
func (r *RideRepo) List(ctx context.Context, filter models.RideFilter) ([]models.Ride, error) {
	q := TxorDB(ctx, r.db)

	where, args := buildRideFilter(filter)
	query := `
        SELECT id, customer_id, pickup_location, drop_location, distance_km, distance_source,
               start_odometer, end_odometer, fare_total, night_charge, toll_charge,
               payment_mode, driver_name, bill_number, created_at
        FROM rides` + where + `
        ORDER BY created_at DESC;`

	start := time.Now()
	rows, err := q.Query(ctx, query, args...)
	metrics.RecordDatabaseQuery(serviceName, "ride_list", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("ride repo: List: %w", err)
	}
	defer rows.Close()

	var rides []models.Ride
	for rows.Next() {
		var ride models.Ride
		if err := rows.Scan(
			&ride.ID, &ride.CustomerID, &ride.PickupLocation, &ride.DropLocation, &ride.DistanceKm, &ride.DistanceSource,
			&ride.StartOdometer, &ride.EndOdometer, &ride.FareTotal, &ride.NightCharge, &ride.TollCharge,
			&ride.PaymentMode, &ride.DriverName, &ride.BillNumber, &ride.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ride repo: List scan: %w", err)
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ride repo: List rows: %w", err)
	}

	return rides, nil
}

// CountByDay counts rides created on the given calendar day.
func (r *RideRepo) CountByDay(ctx context.Context, date time.Time) (int64, error) {
	q := TxorDB(ctx, r.db)

	var count int64
	query := `SELECT COUNT(*) FROM rides WHERE DATE(created_at) = $1;`

	if err := q.QueryRow(ctx, query, date.Format("2006-01-02")).Scan(&count); err != nil {
		return 0, fmt.Errorf("ride repo: CountByDay: %w", err)
	}
	return count, nil
}

// buildRideFilter assembles the WHERE clause for List. Absent predicates
// impose no constraint, present ones combine with AND.
func buildRideFilter(f models.RideFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(format string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(format, len(args)))
	}

	if f.Driver != "" {
		add("driver_name ILIKE $%d", "%"+f.Driver+"%")
	}
	if f.Pickup != "" {
		add("pickup_location ILIKE $%d", "%"+f.Pickup+"%")
	}
	if f.Drop != "" {
		add("drop_location ILIKE $%d", "%"+f.Drop+"%")
	}
	if f.PaymentMode != "" {
		add("payment_mode = $%d", f.PaymentMode)
	}
	if f.FromDate != nil {
		add("created_at >= $%d", *f.FromDate)
	}
	if f.ToDate != nil {
		add("created_at <= $%d", *f.ToDate)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "\n        WHERE " + strings.Join(conds, " AND "), args
}
