package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is a persisted invoice for a booked trip package.
// Total is always computed server-side, never taken from the caller.
type Bill struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	OrderBy       string          `json:"order_by"`
	UsedBy        string          `json:"used_by"`
	TripDetails   string          `json:"trip_details"`
	Car           string          `json:"car"`
	PackageQty    decimal.Decimal `json:"package_qty"`
	PackageRate   decimal.Decimal `json:"package_rate"`
	ExtraKmQty    decimal.Decimal `json:"extra_km_qty"`
	ExtraKmRate   decimal.Decimal `json:"extra_km_rate"`
	ExtraTimeQty  decimal.Decimal `json:"extra_time_qty"`
	ExtraTimeRate decimal.Decimal `json:"extra_time_rate"`
	Toll          decimal.Decimal `json:"toll"`
	DriverAllow   decimal.Decimal `json:"driver_allowance"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}
