package ride

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
)

type memRideRepo struct {
	mu    sync.Mutex
	rides []models.Ride

	failCreate error
}

func (r *memRideRepo) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreate != nil {
		return nil, r.failCreate
	}

	for _, existing := range r.rides {
		if existing.BillNumber == ride.BillNumber {
			return nil, types.ErrDuplicateNumber
		}
	}

	ride.ID = int64(len(r.rides) + 1)
	ride.CreatedAt = time.Now()
	r.rides = append(r.rides, *ride)
	return ride, nil
}

func (r *memRideRepo) Get(ctx context.Context, rideID int64) (*models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ride := range r.rides {
		if ride.ID == rideID {
			out := ride
			return &out, nil
		}
	}
	return nil, types.ErrRideNotFound
}

func (r *memRideRepo) List(ctx context.Context, filter models.RideFilter) ([]models.Ride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Ride
	for _, ride := range r.rides {
		if filter.Driver != "" && !strings.Contains(strings.ToLower(ride.DriverName), strings.ToLower(filter.Driver)) {
			continue
		}
		out = append(out, ride)
	}
	return out, nil
}

func (r *memRideRepo) CountByDay(ctx context.Context, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, ride := range r.rides {
		if ride.CreatedAt.Format("20060102") == date.Format("20060102") {
			n++
		}
	}
	return n, nil
}

type memCustomerRepo struct {
	mu        sync.Mutex
	customers []models.Customer
}

func (r *memCustomerRepo) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.customers {
		if c.Phone == phone {
			out := c
			return &out, nil
		}
	}
	return nil, types.ErrCustomerNotFound
}

func (r *memCustomerRepo) Get(ctx context.Context, id int64) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.customers {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, types.ErrCustomerNotFound
}

func (r *memCustomerRepo) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer.ID = int64(len(r.customers) + 1)
	r.customers = append(r.customers, *customer)
	return customer, nil
}

type passTxManager struct{}

func (passTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memQueue struct {
	mu   sync.Mutex
	jobs []models.InvoiceEmailJob
}

func (q *memQueue) PublishInvoiceEmail(ctx context.Context, job models.InvoiceEmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

type memSender struct {
	mu   sync.Mutex
	sent []string
	pdf  []byte

	fail error
}

func (s *memSender) SendInvoice(ctx context.Context, to, subject string, pdf []byte, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, to)
	s.pdf = pdf
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testRates() Rates {
	return Rates{Base: dec("12.50"), Night: dec("3.00")}
}

func testCustomer() *models.Customer {
	return &models.Customer{
		Name:  "Asel K",
		Email: "asel@example.com",
		Phone: "+77011234567",
	}
}

func testRide() *models.Ride {
	return &models.Ride{
		PickupLocation: "Airport",
		DropLocation:   "City Center",
		DistanceKm:     dec("10"),
		DistanceSource: "manual",
		NightCharge:    false,
		TollCharge:     dec("0"),
		PaymentMode:    "cash",
		DriverName:     "Marat",
	}
}

func newTestService(rides *memRideRepo, customers *memCustomerRepo, queue *memQueue, sender *memSender) *Service {
	return NewService(rides, customers, passTxManager{}, queue, sender, testRates(), logger.InitLogger("test", logger.LevelError))
}

func TestCreateRide_ComputesFareAndNumber(t *testing.T) {
	rides := &memRideRepo{}
	customers := &memCustomerRepo{}
	svc := newTestService(rides, customers, &memQueue{}, &memSender{})

	created, err := svc.CreateRide(context.Background(), testCustomer(), testRide())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := created.FareTotal.String(), "125"; got != want {
		t.Fatalf("unexpected fare: got %s want %s", got, want)
	}
	if !strings.HasPrefix(created.BillNumber, "RIDE-") {
		t.Fatalf("unexpected bill number: %s", created.BillNumber)
	}
	if created.CustomerID == 0 {
		t.Fatal("ride must be attributed to a customer")
	}
}

func TestCreateRide_NightFareWithToll(t *testing.T) {
	svc := newTestService(&memRideRepo{}, &memCustomerRepo{}, &memQueue{}, &memSender{})

	ride := testRide()
	ride.DistanceKm = dec("10.5")
	ride.NightCharge = true
	ride.TollCharge = dec("20")

	created, err := svc.CreateRide(context.Background(), testCustomer(), ride)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := created.FareTotal.String(), "182.75"; got != want {
		t.Fatalf("unexpected fare: got %s want %s", got, want)
	}
}

func TestCreateRide_ReusesCustomerByPhone(t *testing.T) {
	rides := &memRideRepo{}
	customers := &memCustomerRepo{}
	svc := newTestService(rides, customers, &memQueue{}, &memSender{})

	first, err := svc.CreateRide(context.Background(), testCustomer(), testRide())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.CreateRide(context.Background(), testCustomer(), testRide())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.CustomerID != second.CustomerID {
		t.Fatalf("same phone must map to the same customer: %d vs %d", first.CustomerID, second.CustomerID)
	}
	if len(customers.customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(customers.customers))
	}
}

func TestCreateRide_RejectsNonPositiveDistance(t *testing.T) {
	rides := &memRideRepo{}
	svc := newTestService(rides, &memCustomerRepo{}, &memQueue{}, &memSender{})

	ride := testRide()
	ride.DistanceKm = dec("0")

	if _, err := svc.CreateRide(context.Background(), testCustomer(), ride); !errors.Is(err, types.ErrNonPositiveDistance) {
		t.Fatalf("expected ErrNonPositiveDistance, got %v", err)
	}
	if len(rides.rides) != 0 {
		t.Fatal("rejected ride must not be persisted")
	}
}

func TestCreateRide_InsertFailureSurfaces(t *testing.T) {
	rides := &memRideRepo{failCreate: errors.New("insert failed")}
	svc := newTestService(rides, &memCustomerRepo{}, &memQueue{}, &memSender{})

	if _, err := svc.CreateRide(context.Background(), testCustomer(), testRide()); err == nil {
		t.Fatal("expected error from failing insert")
	}
}

func TestListRides_AppliesFilter(t *testing.T) {
	rides := &memRideRepo{}
	svc := newTestService(rides, &memCustomerRepo{}, &memQueue{}, &memSender{})

	first := testRide()
	first.DriverName = "Marat"
	if _, err := svc.CreateRide(context.Background(), testCustomer(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := testRide()
	second.DriverName = "Olzhas"
	customer := testCustomer()
	customer.Phone = "+77019999999"
	if _, err := svc.CreateRide(context.Background(), customer, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := svc.ListRides(context.Background(), models.RideFilter{Driver: "mara"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].DriverName != "Marat" {
		t.Fatalf("filter must match case-insensitive substring, got %+v", out)
	}
}

func TestExportRides_ProducesWorkbook(t *testing.T) {
	svc := newTestService(&memRideRepo{}, &memCustomerRepo{}, &memQueue{}, &memSender{})

	if _, err := svc.CreateRide(context.Background(), testCustomer(), testRide()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	book, err := svc.ExportRides(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(book) == 0 {
		t.Fatal("workbook must not be empty")
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(book, []byte("PK")) {
		t.Fatal("workbook is not a valid xlsx archive")
	}
}

func TestRenderInvoice(t *testing.T) {
	svc := newTestService(&memRideRepo{}, &memCustomerRepo{}, &memQueue{}, &memSender{})

	created, err := svc.CreateRide(context.Background(), testCustomer(), testRide())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pdf, ride, err := svc.RenderInvoice(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("invoice is not a valid pdf")
	}
	if ride.ID != created.ID {
		t.Fatalf("unexpected ride returned: %d", ride.ID)
	}
}

func TestRenderInvoice_NotFound(t *testing.T) {
	svc := newTestService(&memRideRepo{}, &memCustomerRepo{}, &memQueue{}, &memSender{})

	if _, _, err := svc.RenderInvoice(context.Background(), 404); !errors.Is(err, types.ErrRideNotFound) {
		t.Fatalf("expected ErrRideNotFound, got %v", err)
	}
}

func TestQueueInvoiceEmail(t *testing.T) {
	queue := &memQueue{}
	svc := newTestService(&memRideRepo{}, &memCustomerRepo{}, queue, &memSender{})

	created, err := svc.CreateRide(context.Background(), testCustomer(), testRide())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.QueueInvoiceEmail(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue.jobs) != 1 || queue.jobs[0].RideID != created.ID {
		t.Fatalf("expected one queued job for ride %d, got %+v", created.ID, queue.jobs)
	}
}

func TestQueueInvoiceEmail_NoEmail(t *testing.T) {
	queue := &memQueue{}
	svc := newTestService(&memRideRepo{}, &memCustomerRepo{}, queue, &memSender{})

	customer := testCustomer()
	customer.Email = ""

	created, err := svc.CreateRide(context.Background(), customer, testRide())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.QueueInvoiceEmail(context.Background(), created.ID); !errors.Is(err, types.ErrNoCustomerEmail) {
		t.Fatalf("expected ErrNoCustomerEmail, got %v", err)
	}
	if len(queue.jobs) != 0 {
		t.Fatal("no job must be queued without a recipient")
	}
}

func TestDeliverInvoiceEmail(t *testing.T) {
	sender := &memSender{}
	svc := newTestService(&memRideRepo{}, &memCustomerRepo{}, &memQueue{}, sender)

	created, err := svc.CreateRide(context.Background(), testCustomer(), testRide())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job := models.InvoiceEmailJob{RideID: created.ID, EnqueuedAt: time.Now()}
	if err := svc.DeliverInvoiceEmail(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 || sender.sent[0] != "asel@example.com" {
		t.Fatalf("unexpected recipients: %+v", sender.sent)
	}
	if !bytes.HasPrefix(sender.pdf, []byte("%PDF")) {
		t.Fatal("attached invoice is not a valid pdf")
	}
}

func TestDeliverInvoiceEmail_SenderFailure(t *testing.T) {
	sender := &memSender{fail: errors.New("smtp down")}
	svc := newTestService(&memRideRepo{}, &memCustomerRepo{}, &memQueue{}, sender)

	created, err := svc.CreateRide(context.Background(), testCustomer(), testRide())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job := models.InvoiceEmailJob{RideID: created.ID, EnqueuedAt: time.Now()}
	if err := svc.DeliverInvoiceEmail(context.Background(), job); err == nil {
		t.Fatal("expected sender failure to surface")
	}
}
