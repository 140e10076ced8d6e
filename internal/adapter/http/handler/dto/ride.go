package dto

import (
	"github.com/shopspring/decimal"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/pkg/validator"
)

type RideCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreateRideRequest struct {
	Customer       RideCustomer     `json:"customer"`
	PickupLocation string           `json:"pickup_location"`
	DropLocation   string           `json:"drop_location"`
	DistanceKm     decimal.Decimal  `json:"distance_km"`
	DistanceSource string           `json:"distance_source"`
	StartOdometer  decimal.Decimal  `json:"start_odometer"`
	EndOdometer    *decimal.Decimal `json:"end_odometer"`
	NightCharge    bool             `json:"night_charge"`
	TollCharge     decimal.Decimal  `json:"toll_charge"`
	PaymentMode    string           `json:"payment_mode"`
	DriverName     string           `json:"driver_name"`
}

func (r *CreateRideRequest) Validate(v *validator.Validator) {
	// Customer
	v.Check(validator.NotBlank(r.Customer.Name), "customer.name", "must be provided")
	v.Check(r.Customer.Phone != "", "customer.phone", "must be provided")
	if r.Customer.Phone != "" {
		v.Check(validator.Matches(r.Customer.Phone, validator.PhoneRX), "customer.phone", "must be a valid phone number")
	}
	if r.Customer.Email != "" {
		v.Check(validator.Matches(r.Customer.Email, validator.EmailRX), "customer.email", "must be a valid email address")
	}

	// Trip
	v.Check(validator.NotBlank(r.PickupLocation), "pickup_location", "must be provided")
	v.Check(validator.NotBlank(r.DropLocation), "drop_location", "must be provided")
	v.Check(r.DistanceKm.IsPositive(), "distance_km", "must be greater than zero")
	v.Check(!r.StartOdometer.IsNegative(), "start_odometer", "must not be negative")
	if r.EndOdometer != nil {
		v.Check(r.EndOdometer.GreaterThanOrEqual(r.StartOdometer), "end_odometer", "must not be less than start_odometer")
	}

	// Charges
	v.Check(!r.TollCharge.IsNegative(), "toll_charge", "must not be negative")

	// Payment
	v.Check(r.PaymentMode != "", "payment_mode", "must be provided")
	if r.PaymentMode != "" {
		v.Check(validator.PermittedValue(r.PaymentMode, "cash", "card", "upi", "wallet"), "payment_mode", "must be one of cash, card, upi or wallet")
	}

	v.Check(validator.NotBlank(r.DriverName), "driver_name", "must be provided")
}

func (r *CreateRideRequest) ToModels() (*models.Customer, *models.Ride) {
	source := r.DistanceSource
	if source == "" {
		source = "manual"
	}

	customer := &models.Customer{
		Name:  r.Customer.Name,
		Email: r.Customer.Email,
		Phone: r.Customer.Phone,
	}

	ride := &models.Ride{
		PickupLocation: r.PickupLocation,
		DropLocation:   r.DropLocation,
		DistanceKm:     r.DistanceKm,
		DistanceSource: source,
		StartOdometer:  r.StartOdometer,
		EndOdometer:    r.EndOdometer,
		NightCharge:    r.NightCharge,
		TollCharge:     r.TollCharge,
		PaymentMode:    r.PaymentMode,
		DriverName:     r.DriverName,
	}

	return customer, ride
}
