package types

import "errors"

var (
	ErrRideNotFound     = errors.New("ride not found")
	ErrBillNotFound     = errors.New("bill not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNotFound         = errors.New("requested item not found")

	// ErrDuplicateNumber surfaces a unique-constraint violation on an
	// identifier column. Count-based numbering can race under concurrent
	// writers, the constraint turns that race into this error.
	ErrDuplicateNumber = errors.New("bill number already exists")

	// ErrDuplicatePhone surfaces a concurrent insert racing on the phone
	// dedup key. The transaction is already aborted at that point, so the
	// caller gets a conflict instead of an in-tx retry.
	ErrDuplicatePhone = errors.New("customer phone already exists")

	ErrNegativeAmount      = errors.New("quantities and rates must not be negative")
	ErrNonPositiveDistance = errors.New("distance must be greater than zero")
	ErrNoCustomerEmail     = errors.New("customer has no email on file")
)
