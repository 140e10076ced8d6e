package billing

import (
	"github.com/shopspring/decimal"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
)

// InvoiceCharges are the raw quantities and rates of a bill. Absent optional
// charges (toll, driver allowance) are simply zero decimals.
type InvoiceCharges struct {
	PackageQty    decimal.Decimal
	PackageRate   decimal.Decimal
	ExtraKmQty    decimal.Decimal
	ExtraKmRate   decimal.Decimal
	ExtraTimeQty  decimal.Decimal
	ExtraTimeRate decimal.Decimal
	Toll          decimal.Decimal
	DriverAllow   decimal.Decimal
}

// InvoiceTotal computes
//
//	packageQty*packageRate + extraKmQty*extraKmRate + extraTimeQty*extraTimeRate + toll + driverAllowance
//
// rounded half-up to 2 decimal places. Any negative input is rejected.
func InvoiceTotal(c InvoiceCharges) (decimal.Decimal, error) {
	for _, v := range []decimal.Decimal{
		c.PackageQty, c.PackageRate, c.ExtraKmQty, c.ExtraKmRate,
		c.ExtraTimeQty, c.ExtraTimeRate, c.Toll, c.DriverAllow,
	} {
		if v.IsNegative() {
			return decimal.Zero, types.ErrNegativeAmount
		}
	}

	total := c.PackageQty.Mul(c.PackageRate).
		Add(c.ExtraKmQty.Mul(c.ExtraKmRate)).
		Add(c.ExtraTimeQty.Mul(c.ExtraTimeRate)).
		Add(c.Toll).
		Add(c.DriverAllow)

	return total.Round(2), nil
}

// RideFare computes
//
//	distanceKm*baseRate + (night ? distanceKm*nightRate : 0) + tollCharge
//
// rounded half-up to 2 decimal places. Distance must be strictly positive,
// the toll must not be negative.
func RideFare(distanceKm, baseRate, nightRate, tollCharge decimal.Decimal, night bool) (decimal.Decimal, error) {
	if !distanceKm.IsPositive() {
		return decimal.Zero, types.ErrNonPositiveDistance
	}
	if tollCharge.IsNegative() {
		return decimal.Zero, types.ErrNegativeAmount
	}

	fare := distanceKm.Mul(baseRate)
	if night {
		fare = fare.Add(distanceKm.Mul(nightRate))
	}
	fare = fare.Add(tollCharge)

	return fare.Round(2), nil
}
