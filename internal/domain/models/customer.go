package models

import "time"

// Customer is deduplicated by phone: looked up first, created when absent,
// never updated or deleted by this service.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
