package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ride is a completed trip attributed to a customer.
// Rows are immutable once created, there are no update or delete paths.
type Ride struct {
	ID             int64            `json:"id"`
	CustomerID     int64            `json:"customer_id"`
	PickupLocation string           `json:"pickup_location"`
	DropLocation   string           `json:"drop_location"`
	DistanceKm     decimal.Decimal  `json:"distance_km"`
	DistanceSource string           `json:"distance_source"`
	StartOdometer  decimal.Decimal  `json:"start_odometer"`
	EndOdometer    *decimal.Decimal `json:"end_odometer,omitempty"`
	FareTotal      decimal.Decimal  `json:"fare_total"`
	NightCharge    bool             `json:"night_charge"`
	TollCharge     decimal.Decimal  `json:"toll_charge"`
	PaymentMode    string           `json:"payment_mode"`
	DriverName     string           `json:"driver_name"`
	BillNumber     string           `json:"bill_number"`
	CreatedAt      time.Time        `json:"created_at"`
}

// RideFilter holds optional list predicates. Zero values impose no constraint.
// Text filters are case-insensitive substring matches, PaymentMode is exact,
// the date range is inclusive.
type RideFilter struct {
	Driver      string
	Pickup      string
	Drop        string
	PaymentMode string
	FromDate    *time.Time
	ToDate      *time.Time
}
