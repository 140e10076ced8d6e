package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
)

// Numbering strategies.
const (
	NumberingSequence = "sequence"
	NumberingDaily    = "daily"
	NumberingYearly   = "yearly"
)

const carTokenPlaceholder = "XXXX"

// NumberGenerator produces a unique, human-readable invoice number for a bill
// issued against the given vehicle on the given date.
type NumberGenerator interface {
	Generate(ctx context.Context, car models.Car, date time.Time) (string, error)
}

// NewNumberGenerator selects a numbering strategy by name.
//
// The sequence strategy is collision-free by construction: the database
// serializes every Next call. The daily and yearly strategies derive the
// counter from a row count and can race under concurrent writers; they are
// only safe because the UNIQUE constraint on the identifier column turns a
// duplicate into a failed insert.
func NewNumberGenerator(strategy string, seq SequenceProvider, bills BillRepository) (NumberGenerator, error) {
	switch strategy {
	case NumberingSequence:
		return &sequenceNumberGenerator{seq: seq}, nil
	case NumberingDaily:
		return &dailyCountNumberGenerator{bills: bills}, nil
	case NumberingYearly:
		return &yearlyCountNumberGenerator{bills: bills}, nil
	default:
		return nil, fmt.Errorf("unknown numbering strategy %q", strategy)
	}
}

// FormatInvoiceNumber renders the canonical scheme
//
//	INV-<MODEL>-<LAST4>-<YYYYMMDD>-<SEQ>
//
// where MODEL is the uppercased vehicle model, LAST4 the last four characters
// of the plate (XXXX when the plate is missing), and SEQ is zero-padded to
// four digits but grows past that width rather than truncating.
func FormatInvoiceNumber(car models.Car, date time.Time, seq int64) string {
	model := strings.ToUpper(strings.TrimSpace(car.Model))
	if model == "" {
		model = "CAR"
	}

	plateToken := carTokenPlaceholder
	if plate := strings.ToUpper(strings.ReplaceAll(car.Plate, " ", "")); plate != "" {
		if len(plate) > 4 {
			plate = plate[len(plate)-4:]
		}
		plateToken = plate
	}

	return fmt.Sprintf("INV-%s-%s-%s-%04d", model, plateToken, date.Format("20060102"), seq)
}

// FormatRideNumber renders the ride bill number RIDE-<YYYYMMDD>-<SEQ> with the
// same pad-and-grow rule as invoice numbers.
func FormatRideNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("RIDE-%s-%04d", date.Format("20060102"), seq)
}

type sequenceNumberGenerator struct {
	seq SequenceProvider
}

func (g *sequenceNumberGenerator) Generate(ctx context.Context, car models.Car, date time.Time) (string, error) {
	seq, err := g.seq.Next(ctx)
	if err != nil {
		return "", err
	}
	return FormatInvoiceNumber(car, date, seq), nil
}

type dailyCountNumberGenerator struct {
	bills BillRepository
}

func (g *dailyCountNumberGenerator) Generate(ctx context.Context, car models.Car, date time.Time) (string, error) {
	count, err := g.bills.CountByDay(ctx, date)
	if err != nil {
		return "", err
	}
	return FormatInvoiceNumber(car, date, count+1), nil
}

type yearlyCountNumberGenerator struct {
	bills BillRepository
}

func (g *yearlyCountNumberGenerator) Generate(ctx context.Context, car models.Car, date time.Time) (string, error) {
	count, err := g.bills.CountByYear(ctx, date)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%05d", date.Year(), count+1), nil
}
