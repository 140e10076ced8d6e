package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/cab-billing-system/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/cab-billing-system/internal/domain/models"
	"github.com/Temutjin2k/cab-billing-system/pkg/logger"
	"github.com/Temutjin2k/cab-billing-system/pkg/validator"
)

type BillService interface {
	CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error)
	ListBills(ctx context.Context) ([]models.Bill, error)
}

type Bill struct {
	service BillService
	log     logger.Logger
}

func NewBill(service BillService, log logger.Logger) *Bill {
	return &Bill{
		service: service,
		log:     log,
	}
}

// Create handles POST /bills.
func (h *Bill) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBillRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	bill, err := req.ToModel()
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	created, err := h.service.CreateBill(r.Context(), bill)
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}

	resp := envelope{
		"success":        true,
		"invoice_number": created.InvoiceNumber,
		"total":          created.Total,
	}
	if err := writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		h.log.Error(r.Context(), "failed to write bill response", err)
	}
}

// List handles GET /bills.
func (h *Bill) List(w http.ResponseWriter, r *http.Request) {
	bills, err := h.service.ListBills(r.Context())
	if err != nil {
		serviceErrorResponse(w, err)
		return
	}

	if bills == nil {
		bills = []models.Bill{}
	}

	if err := writeJSON(w, http.StatusOK, envelope{"bills": bills}, nil); err != nil {
		h.log.Error(r.Context(), "failed to write bills response", err)
	}
}
