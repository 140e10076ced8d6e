package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/pkg/validator"
)

type CreateBillRequest struct {
	InvoiceDate   string          `json:"invoice_date"`
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
}

func (r *CreateBillRequest) Validate(v *validator.Validator) {
	v.Check(r.InvoiceDate != "", "invoice_date", "must be provided")
	if r.InvoiceDate != "" {
		_, err := time.Parse("2006-01-02", r.InvoiceDate)
		v.Check(err == nil, "invoice_date", "must be a date in YYYY-MM-DD format")
	}

	v.Check(validator.NotBlank(r.OrderBy), "order_by", "must be provided")
	v.Check(validator.NotBlank(r.Car), "car", "must be provided")

	v.Check(!r.PackageQty.IsNegative(), "package_qty", "must not be negative")
	v.Check(!r.PackageRate.IsNegative(), "package_rate", "must not be negative")
	v.Check(!r.ExtraKmQty.IsNegative(), "extra_km_qty", "must not be negative")
	v.Check(!r.ExtraKmRate.IsNegative(), "extra_km_rate", "must not be negative")
	v.Check(!r.ExtraTimeQty.IsNegative(), "extra_time_qty", "must not be negative")
	v.Check(!r.ExtraTimeRate.IsNegative(), "extra_time_rate", "must not be negative")
	v.Check(!r.Toll.IsNegative(), "toll", "must not be negative")
	v.Check(!r.DriverAllow.IsNegative(), "driver_allowance", "must not be negative")
}

func (r *CreateBillRequest) ToModel() (*models.Bill, error) {
	invoiceDate, err := time.Parse("2006-01-02", r.InvoiceDate)
	if err != nil {
		return nil, err
	}

	return &models.Bill{
		InvoiceDate:   invoiceDate,
		OrderBy:       r.OrderBy,
		UsedBy:        r.UsedBy,
		TripDetails:   r.TripDetails,
		Car:           r.Car,
		PackageQty:    r.PackageQty,
		PackageRate:   r.PackageRate,
		ExtraKmQty:    r.ExtraKmQty,
		ExtraKmRate:   r.ExtraKmRate,
		ExtraTimeQty:  r.ExtraTimeQty,
		ExtraTimeRate: r.ExtraTimeRate,
		Toll:          r.Toll,
		DriverAllow:   r.DriverAllow,
	}, nil
}
