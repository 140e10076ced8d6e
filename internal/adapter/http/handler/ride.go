package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Temutjin2k/cab-billing-system/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
	"github.com/Temutjin2k/cab-billing-system/pkg/validator"
)

type RideService interface {
	CreateRide(ctx context.Context, customer *models.Customer, ride *models.Ride) (*models.Ride, error)
	ListRides(ctx context.Context, filter models.RideFilter) ([]models.Ride, error)
	ExportRides(ctx context.Context, from, to *time.Time) ([]byte, error)
	RenderInvoice(ctx context.Context, rideID int64) ([]byte, *models.Ride, error)
	QueueInvoiceEmail(ctx context.Context, rideID int64) error
}

type Ride struct {
	service RideService
	log     logger.Logger
}

func NewRide(service RideService, log logger.Logger) *Ride {
	return &Ride{
		service: service,
		log:     log,
	}
}

// Create handles POST /rides.
func (h *Ride) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRideRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	customer, ride := req.ToModels()

	created, err := h.service.CreateRide(r.Context(), customer, ride)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}

	resp := envelope{
		"success":     true,
		"fare":        created.FareTotal,
		"bill_number": created.BillNumber,
		"ride_id":     created.ID,
	}
	if err := writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		h.log.Error(r.Context(), "failed to write ride response", err)
	}
}

// List handles GET /rides with optional filters.
func (h *Ride) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRideFilter(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	rides, err := h.service.ListRides(r.Context(), filter)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}

	if rides == nil {
		rides = []models.Ride{}
	}

	if err := writeJSON(w, http.StatusOK, envelope{"rides": rides}, nil); err != nil {
		h.log.Error(r.Context(), "failed to write rides response", err)
	}
}

// Export handles GET /rides/export and streams an xlsx attachment.
func (h *Ride) Export(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from", false)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}
	to, err := parseDateParam(r, "to", true)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	book, err := h.service.ExportRides(r.Context(), from, to)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}

	filename := fmt.Sprintf("rides-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(book)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(book); err != nil {
		h.log.Error(r.Context(), "failed to stream rides export", err)
	}
}

// Preview handles GET /rides/{ride_id}/preview and returns the rendered PDF.
func (h *Ride) Preview(w http.ResponseWriter, r *http.Request) {
	rideID, err := strconv.ParseInt(r.PathValue("ride_id"), 10, 64)
	if err != nil {
		badRequestResponse(w, "ride_id must be an integer")
		return
	}

	pdf, ride, err := h.service.RenderInvoice(r.Context(), rideID)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+ride.BillNumber+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.log.Error(r.Context(), "failed to stream invoice pdf", err)
	}
}

// Send handles POST /rides/{ride_id}/send and enqueues email delivery.
func (h *Ride) Send(w http.ResponseWriter, r *http.Request) {
	rideID, err := strconv.ParseInt(r.PathValue("ride_id"), 10, 64)
	if err != nil {
		badRequestResponse(w, "ride_id must be an integer")
		return
	}

	if err := h.service.QueueInvoiceEmail(r.Context(), rideID); err != nil {
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusAccepted, envelope{"success": true, "queued": true}, nil); err != nil {
		h.log.Error(r.Context(), "failed to write send response", err)
	}
}

// parseRideFilter reads the optional list predicates from the query string.
func parseRideFilter(r *http.Request) (models.RideFilter, error) {
	q := r.URL.Query()

	filter := models.RideFilter{
		Driver:      q.Get("driver"),
		Pickup:      q.Get("pickup"),
		Drop:        q.Get("drop"),
		PaymentMode: q.Get("payment_mode"),
	}

	from, err := parseDate(q.Get("from_date"), false)
	if err != nil {
		return filter, fmt.Errorf("from_date %w", err)
	}
	filter.FromDate = from

	to, err := parseDate(q.Get("to_date"), true)
	if err != nil {
		return filter, fmt.Errorf("to_date %w", err)
	}
	filter.ToDate = to

	return filter, nil
}

func parseDateParam(r *http.Request, name string, endOfDay bool) (*time.Time, error) {
	t, err := parseDate(r.URL.Query().Get(name), endOfDay)
	if err != nil {
		return nil, fmt.Errorf("%s %w", name, err)
	}
	return t, nil
}

// parseDate parses a YYYY-MM-DD value. When endOfDay is set, the result is
// pushed to the last instant of that day so the range bound stays inclusive.
func parseDate(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("must be a date in YYYY-MM-DD format")
	}

	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
