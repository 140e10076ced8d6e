package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers) {
	// System Health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	setupMetricsRoute(mux)

	// Bills
	mux.HandleFunc("POST /bills", routes.bill.Create) // Create a new bill
	mux.HandleFunc("GET /bills", routes.bill.List)    // List bills, newest first

	// Rides
	mux.HandleFunc("POST /rides", routes.ride.Create)                   // Record a ride and compute its fare
	mux.HandleFunc("GET /rides", routes.ride.List)                      // List rides with optional filters
	mux.HandleFunc("GET /rides/export", routes.ride.Export)             // Export rides as an xlsx workbook
	mux.HandleFunc("GET /rides/{ride_id}/preview", routes.ride.Preview) // Render the invoice PDF inline
	mux.HandleFunc("POST /rides/{ride_id}/send", routes.ride.Send)      // Queue invoice email delivery
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
