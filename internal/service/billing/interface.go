package billing

import (
	"context"
	"time"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
)

type (
	// BillRepository persists bills and answers the count queries the
	// derived-count numbering strategies are built on.
	BillRepository interface {
		Create(ctx context.Context, bill *models.Bill) (*models.Bill, error)
		List(ctx context.Context) ([]models.Bill, error)
		CountByDay(ctx context.Context, date time.Time) (int64, error)
		CountByYear(ctx context.Context, date time.Time) (int64, error)
	}

	// SequenceProvider hands out the next value of the database-backed
	// invoice counter. Calls are serialized by the database itself.
	SequenceProvider interface {
		Next(ctx context.Context) (int64, error)
	}

	// TxManager runs a function inside a single transaction.
	TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
	}
)
