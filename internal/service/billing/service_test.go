package billing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
)

// memBillRepo is an in-memory BillRepository that enforces the unique
// invoice number constraint the way the database does.
type memBillRepo struct {
	mu    sync.Mutex
	bills []models.Bill
}

func (r *memBillRepo) Create(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bills {
		if b.InvoiceNumber == bill.InvoiceNumber {
			return nil, types.ErrDuplicateNumber
		}
	}

	bill.ID = int64(len(r.bills) + 1)
	r.bills = append(r.bills, *bill)
	return bill, nil
}

func (r *memBillRepo) List(ctx context.Context) ([]models.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Bill, len(r.bills))
	copy(out, r.bills)
	return out, nil
}

func (r *memBillRepo) CountByDay(ctx context.Context, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, b := range r.bills {
		if b.InvoiceDate.Format("20060102") == date.Format("20060102") {
			n++
		}
	}
	return n, nil
}

func (r *memBillRepo) CountByYear(ctx context.Context, date time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, b := range r.bills {
		if b.InvoiceDate.Year() == date.Year() {
			n++
		}
	}
	return n, nil
}

// passTxManager runs the function without a real transaction.
type passTxManager struct{}

func (passTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func testBill() *models.Bill {
	return &models.Bill{
		InvoiceDate: testDate,
		OrderBy:     "Acme Corp",
		Car:         "Innova KA01AB1234",
		PackageQty:  dec("2"),
		PackageRate: dec("500"),
		ExtraKmQty:  dec("10"),
		ExtraKmRate: dec("12"),
		Toll:        dec("50"),
	}
}

func TestCreateBill_ComputesTotalAndNumber(t *testing.T) {
	repo := &memBillRepo{}
	svc := NewService(repo, &sequenceNumberGenerator{seq: &fakeSequence{}}, passTxManager{}, logger.InitLogger("test", logger.LevelError))

	created, err := svc.CreateBill(context.Background(), testBill())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := created.Total.String(), "1170"; got != want {
		t.Fatalf("unexpected total: got %s want %s", got, want)
	}
	if got, want := created.InvoiceNumber, "INV-INNOVA-1234-20260314-0001"; got != want {
		t.Fatalf("unexpected invoice number: got %s want %s", got, want)
	}
}

func TestCreateBill_RejectsNegativeCharges(t *testing.T) {
	repo := &memBillRepo{}
	svc := NewService(repo, &sequenceNumberGenerator{seq: &fakeSequence{}}, passTxManager{}, logger.InitLogger("test", logger.LevelError))

	bill := testBill()
	bill.Toll = dec("-5")

	if _, err := svc.CreateBill(context.Background(), bill); !errors.Is(err, types.ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
	if len(repo.bills) != 0 {
		t.Fatal("rejected bill must not be persisted")
	}
}

func TestCreateBill_ConcurrentNumbersAreUnique(t *testing.T) {
	repo := &memBillRepo{}
	svc := NewService(repo, &sequenceNumberGenerator{seq: &fakeSequence{}}, passTxManager{}, logger.InitLogger("test", logger.LevelError))

	const workers = 50

	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CreateBill(context.Background(), testBill()); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Fatalf("concurrent create failed: %v", err)
	}

	seen := make(map[string]struct{}, workers)
	for _, b := range repo.bills {
		if _, dup := seen[b.InvoiceNumber]; dup {
			t.Fatalf("duplicate invoice number persisted: %s", b.InvoiceNumber)
		}
		seen[b.InvoiceNumber] = struct{}{}
	}
	if len(seen) != workers {
		t.Fatalf("expected %d bills, got %d", workers, len(seen))
	}
}

func TestListBills(t *testing.T) {
	repo := &memBillRepo{}
	svc := NewService(repo, &sequenceNumberGenerator{seq: &fakeSequence{}}, passTxManager{}, logger.InitLogger("test", logger.LevelError))

	for range 3 {
		if _, err := svc.CreateBill(context.Background(), testBill()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	bills, err := svc.ListBills(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bills) != 3 {
		t.Fatalf("expected 3 bills, got %d", len(bills))
	}
}
