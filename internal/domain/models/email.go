package models

import "time"

// InvoiceEmailJob is the payload queued for the email worker. The worker
// re-reads the ride at delivery time, so redelivery of the same job is safe.
type InvoiceEmailJob struct {
	RideID     int64     `json:"ride_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}
