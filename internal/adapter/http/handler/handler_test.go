package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
)

func TestGetCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{types.ErrNegativeAmount, http.StatusBadRequest},
		{types.ErrNonPositiveDistance, http.StatusBadRequest},
		{types.ErrNoCustomerEmail, http.StatusBadRequest},
		{types.ErrRideNotFound, http.StatusNotFound},
		{types.ErrBillNotFound, http.StatusNotFound},
		{types.ErrCustomerNotFound, http.StatusNotFound},
		{types.ErrDuplicateNumber, http.StatusConflict},
		{types.ErrDuplicatePhone, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		if got := GetCode(c.err); got != c.want {
			t.Errorf("GetCode(%v): got %d want %d", c.err, got, c.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2026-03-14", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("unexpected time: got %v want %v", got, want)
	}
}

func TestParseDate_EndOfDay(t *testing.T) {
	got, err := parseDate("2026-03-14", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day() != 14 || got.Hour() != 23 || got.Minute() != 59 {
		t.Fatalf("end-of-day bound must stay inside the requested day, got %v", got)
	}
}

func TestParseDate_Empty(t *testing.T) {
	got, err := parseDate("", false)
	if err != nil || got != nil {
		t.Fatalf("empty value must parse to nil, got %v, %v", got, err)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := parseDate("14/03/2026", false); err == nil {
		t.Fatal("expected error for invalid date format")
	}
}

func TestParseRideFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/rides?driver=marat&pickup=airport&payment_mode=cash&from_date=2026-03-01&to_date=2026-03-14", nil)

	filter, err := parseRideFilter(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filter.Driver != "marat" || filter.Pickup != "airport" || filter.PaymentMode != "cash" {
		t.Fatalf("unexpected filter: %+v", filter)
	}
	if filter.FromDate == nil || filter.ToDate == nil {
		t.Fatal("date bounds must be set")
	}
	if !filter.ToDate.After(*filter.FromDate) {
		t.Fatalf("to_date must be after from_date: %v vs %v", filter.ToDate, filter.FromDate)
	}
}

type fakeBillService struct {
	created *models.Bill
	err     error
}

func (f *fakeBillService) CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = bill
	bill.InvoiceNumber = "INV-INNOVA-1234-20260314-0001"
	return bill, nil
}

func (f *fakeBillService) ListBills(ctx context.Context) ([]models.Bill, error) {
	return nil, f.err
}

func TestBillCreate(t *testing.T) {
	svc := &fakeBillService{}
	h := NewBill(svc, logger.InitLogger("test", logger.LevelError))

	body := `{
		"invoice_date": "2026-03-14",
		"order_by": "Acme Corp",
		"car": "Innova KA01AB1234",
		"package_qty": 2,
		"package_rate": 500,
		"extra_km_qty": 10,
		"extra_km_rate": 12,
		"toll": 50
	}`

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success       bool   `json:"success"`
		InvoiceNumber string `json:"invoice_number"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Success || resp.InvoiceNumber == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBillCreate_ValidationFailure(t *testing.T) {
	h := NewBill(&fakeBillService{}, logger.InitLogger("test", logger.LevelError))

	// Missing order_by and car, negative toll.
	body := `{"invoice_date": "2026-03-14", "toll": -5}`

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool              `json:"success"`
		Error   map[string]string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Success || resp.Error["order_by"] == "" || resp.Error["toll"] == "" {
		t.Fatalf("per-field error map must be kept: %+v", resp)
	}
}

func TestBillCreate_MalformedJSON(t *testing.T) {
	h := NewBill(&fakeBillService{}, logger.InitLogger("test", logger.LevelError))

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(`{"invoice_date":`)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d body %s", w.Code, w.Body.String())
	}
}

func TestBillCreate_UnknownField(t *testing.T) {
	h := NewBill(&fakeBillService{}, logger.InitLogger("test", logger.LevelError))

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(`{"total": 100}`)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("client-supplied total must be rejected, got %d", w.Code)
	}
}

type fakeRideService struct {
	err error
}

func (f *fakeRideService) CreateRide(ctx context.Context, customer *models.Customer, ride *models.Ride) (*models.Ride, error) {
	if f.err != nil {
		return nil, f.err
	}
	ride.ID = 1
	ride.BillNumber = "RIDE-20260314-0001"
	return ride, nil
}

func (f *fakeRideService) ListRides(ctx context.Context, filter models.RideFilter) ([]models.Ride, error) {
	return nil, f.err
}

func (f *fakeRideService) ExportRides(ctx context.Context, from, to *time.Time) ([]byte, error) {
	return nil, f.err
}

func (f *fakeRideService) RenderInvoice(ctx context.Context, rideID int64) ([]byte, *models.Ride, error) {
	return nil, nil, f.err
}

func (f *fakeRideService) QueueInvoiceEmail(ctx context.Context, rideID int64) error {
	return f.err
}

func TestRideCreate_ZeroDistanceIsBadRequest(t *testing.T) {
	h := NewRide(&fakeRideService{}, logger.InitLogger("test", logger.LevelError))

	body := `{
		"customer": {"name": "Asel K", "phone": "+77011234567"},
		"pickup_location": "Airport",
		"drop_location": "City Center",
		"distance_km": 0,
		"payment_mode": "cash",
		"driver_name": "Marat"
	}`

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/rides", strings.NewReader(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero distance must answer 400, got %d body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool              `json:"success"`
		Error   map[string]string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Success || resp.Error["distance_km"] == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBillCreate_ServiceErrorMasked(t *testing.T) {
	h := NewBill(&fakeBillService{err: errors.New("pg: connection refused")}, logger.InitLogger("test", logger.LevelError))

	body := `{"invoice_date": "2026-03-14", "order_by": "Acme Corp", "car": "Innova"}`

	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body)))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Fatal("internal error details must not leak to the client")
	}
}
