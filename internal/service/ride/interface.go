package ride

import (
	"context"
	"time"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
)

type (
	RideRepository interface {
		Create(ctx context.Context, ride *models.Ride) (*models.Ride, error)
		Get(ctx context.Context, rideID int64) (*models.Ride, error)
		List(ctx context.Context, filter models.RideFilter) ([]models.Ride, error)
		CountByDay(ctx context.Context, date time.Time) (int64, error)
	}

	CustomerRepository interface {
		GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
		Get(ctx context.Context, id int64) (*models.Customer, error)
		Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	}

	TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// EmailQueue hands an invoice email job to the delivery worker.
	EmailQueue interface {
		PublishInvoiceEmail(ctx context.Context, job models.InvoiceEmailJob) error
	}

	// EmailSender delivers a rendered invoice to a recipient.
	EmailSender interface {
		SendInvoice(ctx context.Context, to, subject string, pdf []byte, filename string) error
	}
)
