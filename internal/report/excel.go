package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
)

const ridesSheet = "Rides"

// RidesWorkbook builds an xlsx workbook with one row per ride.
func RidesWorkbook(rides []models.Ride) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", ridesSheet)

	headers := []string{
		"Bill Number", "Created At", "Driver", "Pickup", "Drop",
		"Distance (km)", "Night Charge", "Toll", "Fare", "Payment Mode",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("rides workbook: %w", err)
		}
		if err := f.SetCellValue(ridesSheet, cell, h); err != nil {
			return nil, fmt.Errorf("rides workbook: %w", err)
		}
	}

	for i, ride := range rides {
		values := []any{
			ride.BillNumber,
			ride.CreatedAt.Format("2006-01-02 15:04"),
			ride.DriverName,
			ride.PickupLocation,
			ride.DropLocation,
			ride.DistanceKm.String(),
			ride.NightCharge,
			ride.TollCharge.StringFixed(2),
			ride.FareTotal.StringFixed(2),
			ride.PaymentMode,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("rides workbook: %w", err)
			}
			if err := f.SetCellValue(ridesSheet, cell, v); err != nil {
				return nil, fmt.Errorf("rides workbook: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("rides workbook: %w", err)
	}
	return buf.Bytes(), nil
}
