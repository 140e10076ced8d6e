package ride

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/types"
	"github.com/Temutjin2k/cab-billing-system/internal/report"
	"github.com/Temutjin2k/cab-billing-system/internal/service/billing"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
	wrap "github.com/Temutjin2k/cab-billing-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/cab-billing-system/pkg/metrics"
)

const serviceName = "ride"

// Rates are the per-km fare rates, fixed at startup from configuration.
type Rates struct {
	Base  decimal.Decimal
	Night decimal.Decimal
}

type Service struct {
	rides     RideRepository
	customers CustomerRepository
	trm       TxManager
	queue     EmailQueue
	sender    EmailSender
	rates     Rates

	log logger.Logger
}

func NewService(
	rides RideRepository,
	customers CustomerRepository,
	trm TxManager,
	queue EmailQueue,
	sender EmailSender,
	rates Rates,
	log logger.Logger,
) *Service {
	return &Service{
		rides:     rides,
		customers: customers,
		trm:       trm,
		queue:     queue,
		sender:    sender,
		rates:     rates,
		log:       log,
	}
}

// CreateRide resolves or creates the customer by phone, computes the fare
// server-side, generates the bill number and inserts the ride, all inside one
// transaction. Any failure after the transaction begins leaves no partial
// state behind.
func (s *Service) CreateRide(ctx context.Context, customer *models.Customer, r *models.Ride) (*models.Ride, error) {
	ctx = wrap.WithAction(ctx, types.ActionCreateRide)

	fare, err := billing.RideFare(r.DistanceKm, s.rates.Base, s.rates.Night, r.TollCharge, r.NightCharge)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	r.FareTotal = fare

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		existing, err := s.customers.GetByPhone(ctx, customer.Phone)
		switch {
		case err == nil:
			r.CustomerID = existing.ID
		case errors.Is(err, types.ErrCustomerNotFound):
			created, err := s.customers.Create(ctx, customer)
			if err != nil {
				return err
			}
			r.CustomerID = created.ID
		default:
			return err
		}

		number, err := s.generateBillNumber(ctx)
		if err != nil {
			return err
		}
		r.BillNumber = number

		_, err = s.rides.Create(ctx, r)
		return err
	})

	metrics.RidesTotal.WithLabelValues(serviceName, statusLabel(err)).Inc()
	if err != nil {
		s.log.Error(ctx, "failed to create ride", err)
		return nil, wrap.Error(ctx, err)
	}

	s.log.Info(wrap.WithBillNumber(ctx, r.BillNumber), "ride created",
		"bill_number", r.BillNumber,
		"fare", r.FareTotal.String(),
	)

	return r, nil
}

// generateBillNumber derives the next daily counter from the ride count.
// The read is not atomic with the insert; the UNIQUE constraint on
// bill_number is what keeps a concurrent duplicate from committing.
func (s *Service) generateBillNumber(ctx context.Context) (string, error) {
	now := time.Now()

	count, err := s.rides.CountByDay(ctx, now)
	if err != nil {
		return "", err
	}
	return billing.FormatRideNumber(now, count+1), nil
}

// ListRides returns rides matching the filter, newest first.
func (s *Service) ListRides(ctx context.Context, filter models.RideFilter) ([]models.Ride, error) {
	ctx = wrap.WithAction(ctx, types.ActionListRides)

	rides, err := s.rides.List(ctx, filter)
	if err != nil {
		s.log.Error(ctx, "failed to list rides", err)
		return nil, wrap.Error(ctx, err)
	}
	return rides, nil
}

// ExportRides renders rides in the inclusive date range as an xlsx workbook.
// The read runs in a read-only transaction so the export is one consistent
// snapshot.
func (s *Service) ExportRides(ctx context.Context, from, to *time.Time) ([]byte, error) {
	ctx = wrap.WithAction(ctx, types.ActionExportRides)

	var rides []models.Ride
	err := s.trm.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		rides, err = s.rides.List(ctx, models.RideFilter{FromDate: from, ToDate: to})
		return err
	})
	if err == nil {
		var book []byte
		book, err = report.RidesWorkbook(rides)
		if err == nil {
			metrics.RecordExport(serviceName, "xlsx", nil)
			return book, nil
		}
	}

	metrics.RecordExport(serviceName, "xlsx", err)
	s.log.Error(ctx, "failed to export rides", err)
	return nil, wrap.Error(ctx, err)
}

// RenderInvoice renders the PDF invoice for a ride.
func (s *Service) RenderInvoice(ctx context.Context, rideID int64) ([]byte, *models.Ride, error) {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, strconv.FormatInt(rideID, 10)), types.ActionPreviewRide)

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, nil, wrap.Error(ctx, err)
	}

	customer, err := s.customers.Get(ctx, ride.CustomerID)
	if err != nil {
		return nil, nil, wrap.Error(ctx, err)
	}

	pdf, err := report.InvoicePDF(*ride, *customer)
	if err != nil {
		s.log.Error(ctx, "failed to render invoice", err)
		return nil, nil, wrap.Error(ctx, err)
	}

	return pdf, ride, nil
}

// QueueInvoiceEmail validates the recipient and enqueues a delivery job.
// Rendering and SMTP happen in the worker, not on the request path.
func (s *Service) QueueInvoiceEmail(ctx context.Context, rideID int64) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, strconv.FormatInt(rideID, 10)), types.ActionSendInvoice)

	ride, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return wrap.Error(ctx, err)
	}

	customer, err := s.customers.Get(ctx, ride.CustomerID)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if customer.Email == "" {
		return wrap.Error(ctx, types.ErrNoCustomerEmail)
	}

	job := models.InvoiceEmailJob{
		RideID:     rideID,
		EnqueuedAt: time.Now(),
	}
	if err := s.queue.PublishInvoiceEmail(ctx, job); err != nil {
		s.log.Error(ctx, "failed to enqueue invoice email", err)
		return wrap.Error(ctx, err)
	}

	s.log.Info(ctx, "invoice email queued", "ride_id", rideID, "to", customer.Email)
	return nil
}

// DeliverInvoiceEmail is executed by the queue worker: it re-reads the ride,
// renders the invoice and sends it. Safe to run again on redelivery.
func (s *Service) DeliverInvoiceEmail(ctx context.Context, job models.InvoiceEmailJob) error {
	ctx = wrap.WithAction(wrap.WithRideID(ctx, strconv.FormatInt(job.RideID, 10)), types.ActionEmailDeliver)

	ride, err := s.rides.Get(ctx, job.RideID)
	if err != nil {
		return wrap.Error(ctx, err)
	}

	customer, err := s.customers.Get(ctx, ride.CustomerID)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if customer.Email == "" {
		// The address was removed between enqueue and delivery, drop the job.
		return wrap.Error(ctx, types.ErrNoCustomerEmail)
	}

	pdf, err := report.InvoicePDF(*ride, *customer)
	if err != nil {
		return wrap.Error(ctx, err)
	}

	subject := fmt.Sprintf("Your ride invoice %s", ride.BillNumber)
	filename := ride.BillNumber + ".pdf"

	err = s.sender.SendInvoice(ctx, customer.Email, subject, pdf, filename)
	metrics.RecordInvoiceEmail(serviceName, err)
	if err != nil {
		s.log.Error(ctx, "failed to send invoice email", err)
		return wrap.Error(ctx, err)
	}

	s.log.Info(ctx, "invoice email sent", "ride_id", ride.ID, "to", customer.Email)
	return nil
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
