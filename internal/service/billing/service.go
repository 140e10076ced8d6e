package billing

import (
	"context"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
	wrap "github.com/Temutjin2k/cab-billing-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/cab-billing-system/pkg/metrics"
)

const serviceName = "billing"

type Service struct {
	bills   BillRepository
	numbers NumberGenerator
	trm     TxManager

	log logger.Logger
}

func NewService(bills BillRepository, numbers NumberGenerator, trm TxManager, log logger.Logger) *Service {
	return &Service{
		bills:   bills,
		numbers: numbers,
		trm:     trm,
		log:     log,
	}
}

// CreateBill computes the total, generates the invoice number and inserts the
// row, all inside one transaction. On any failure nothing is committed. The
// caller must have validated the input already; the total on the returned
// bill is always the server-side computation, whatever the caller sent.
func (s *Service) CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	ctx = wrap.WithAction(ctx, types.ActionCreateBill)

	total, err := InvoiceTotal(InvoiceCharges{
		PackageQty:    bill.PackageQty,
		PackageRate:   bill.PackageRate,
		ExtraKmQty:    bill.ExtraKmQty,
		ExtraKmRate:   bill.ExtraKmRate,
		ExtraTimeQty:  bill.ExtraTimeQty,
		ExtraTimeRate: bill.ExtraTimeRate,
		Toll:          bill.Toll,
		DriverAllow:   bill.DriverAllow,
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	bill.Total = total

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		number, err := s.numbers.Generate(ctx, models.ParseCarDescriptor(bill.Car), bill.InvoiceDate)
		if err != nil {
			return err
		}
		bill.InvoiceNumber = number

		_, err = s.bills.Create(ctx, bill)
		return err
	})

	metrics.BillsTotal.WithLabelValues(serviceName, statusLabel(err)).Inc()
	if err != nil {
		s.log.Error(ctx, "failed to create bill", err)
		return nil, wrap.Error(ctx, err)
	}

	s.log.Info(wrap.WithBillNumber(ctx, bill.InvoiceNumber), "bill created",
		"invoice_number", bill.InvoiceNumber,
		"total", bill.Total.String(),
	)

	return bill, nil
}

// ListBills returns all bills, newest first.
func (s *Service) ListBills(ctx context.Context) ([]models.Bill, error) {
	ctx = wrap.WithAction(ctx, types.ActionListBills)

	bills, err := s.bills.List(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to list bills", err)
		return nil, wrap.Error(ctx, err)
	}
	return bills, nil
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
