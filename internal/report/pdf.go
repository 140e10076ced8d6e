package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
)

// InvoicePDF renders a single-page A4 invoice document for a ride.
func InvoicePDF(ride models.Ride, customer models.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Ride Invoice", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, "Bill Number: "+ride.BillNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Date: "+ride.CreatedAt.Format("02 Jan 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	row := func(label, value string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(55, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	row("Customer", customer.Name)
	if customer.Phone != "" {
		row("Phone", customer.Phone)
	}
	row("Driver", ride.DriverName)
	row("Pickup", ride.PickupLocation)
	row("Drop", ride.DropLocation)
	row("Distance", ride.DistanceKm.String()+" km")
	if ride.NightCharge {
		row("Night charge", "applied")
	}
	if ride.TollCharge.IsPositive() {
		row("Toll", ride.TollCharge.StringFixed(2))
	}
	row("Payment mode", ride.PaymentMode)

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 10, "Total: "+ride.FareTotal.StringFixed(2), "T", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
