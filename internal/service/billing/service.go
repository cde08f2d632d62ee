// Package billing issues invoices and records payments against them.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const msgAlreadyInvoiced = "invoice already exists for this appointment"

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *model.InvoiceRequest) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*model.Invoice, error)
	ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]*model.Invoice, error)
	AddPayment(ctx context.Context, invoiceID int64, req *model.PaymentRequest) (*model.Invoice, error)
	ListPayments(ctx context.Context, invoiceID int64) ([]*model.Payment, error)
	CancelInvoice(ctx context.Context, id int64) (*model.Invoice, error)
	RefundInvoice(ctx context.Context, id int64) (*model.Invoice, error)
}

type Service struct {
	invoices repository.InvoiceRepository
	patients repository.PatientRepository
	visits   repository.VisitRepository
	metrics  *metrics.Metrics
	now      func() time.Time
}

var _ InvoiceService = (*Service)(nil)

func NewService(invoices repository.InvoiceRepository, patients repository.PatientRepository,
	visits repository.VisitRepository, m *metrics.Metrics) *Service {
	return &Service{
		invoices: invoices,
		patients: patients,
		visits:   visits,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// invoiceNumber has the form INV-yyyyMMddHHmmss-xxxx.
func invoiceNumber(at time.Time) string {
	return fmt.Sprintf("INV-%s-%s", at.Format("20060102150405"), strings.ToUpper(uuid.NewString()[:4]))
}

func (s *Service) CreateInvoice(ctx context.Context, req *model.InvoiceRequest) (*model.Invoice, error) {
	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, service.FromRepository("patient", "get patient", err)
	}

	if req.VisitID != nil {
		if _, err := s.visits.Get(ctx, *req.VisitID); err != nil {
			return nil, service.FromRepository("appointment", "get appointment", err)
		}
		invoiced, err := s.invoices.ExistsForVisit(ctx, *req.VisitID)
		if err != nil {
			return nil, service.FromRepository("invoice", "check appointment invoice", err)
		}
		if invoiced {
			return nil, apperrors.Conflict(msgAlreadyInvoiced, nil)
		}
	}

	invoice := &model.Invoice{
		InvoiceNumber:     invoiceNumber(s.now()),
		PatientID:         req.PatientID,
		VisitID:           req.VisitID,
		ConsultationFee:   req.ConsultationFee,
		MedicationCharges: req.MedicationCharges,
		TestCharges:       req.TestCharges,
		OtherCharges:      req.OtherCharges,
		Discount:          req.Discount,
		Tax:               req.Tax,
		Notes:             req.Notes,
		Status:            model.InvoiceStatusPending,
	}
	for _, item := range req.Items {
		invoice.Items = append(invoice.Items, model.InvoiceItem{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	invoice.Recalculate()
	if invoice.TotalAmount < 0 {
		return nil, apperrors.BadRequest("discount exceeds invoice total", nil)
	}

	if err := s.invoices.Create(ctx, invoice); err != nil {
		if errors.Is(err, repository.ErrConflict) && req.VisitID != nil {
			return nil, apperrors.Conflict(msgAlreadyInvoiced, err)
		}
		return nil, service.FromRepository("invoice", "create invoice", err)
	}

	log.Info().
		Int64("invoice_id", invoice.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Float64("total", invoice.TotalAmount).
		Msg("invoice created")
	return invoice, nil
}

func (s *Service) GetInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	invoice, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, service.FromRepository("invoice", "get invoice", err)
	}
	return invoice, nil
}

func (s *Service) ListInvoices(ctx context.Context, filter model.InvoiceFilter) ([]*model.Invoice, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.BadRequest("invalid status", nil)
	}
	invoices, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, service.FromRepository("invoices", "list invoices", err)
	}
	return invoices, nil
}

// AddPayment applies a payment to the locked invoice. The amount may not
// exceed the outstanding balance.
func (s *Service) AddPayment(ctx context.Context, invoiceID int64, req *model.PaymentRequest) (*model.Invoice, error) {
	amount := model.RoundMoney(req.Amount)
	if amount <= 0 {
		return nil, apperrors.BadRequest("amount must be greater than 0", nil)
	}
	if req.PaymentMethod == "" {
		return nil, apperrors.BadRequest("paymentMethod is required", nil)
	}

	invoice, err := s.invoices.AddPayment(ctx, invoiceID, func(inv *model.Invoice) (*model.Payment, error) {
		switch {
		case inv.Status == model.InvoiceStatusPaid:
			return nil, apperrors.BadRequest("invoice is already paid", nil)
		case inv.Terminal():
			return nil, apperrors.BadRequest("cannot add payment to a "+strings.ToLower(string(inv.Status))+" invoice", nil)
		case amount > inv.BalanceAmount:
			return nil, apperrors.BadRequest(fmt.Sprintf("payment amount exceeds balance of %.2f", inv.BalanceAmount), nil)
		}

		method := req.PaymentMethod
		inv.PaidAmount += amount
		inv.PaymentMethod = &method
		inv.Recalculate()
		if inv.Status == model.InvoiceStatusPaid {
			paidAt := s.now()
			inv.PaidAt = &paidAt
		}

		return &model.Payment{
			Amount:        amount,
			PaymentMethod: method,
			TransactionID: req.TransactionID,
			Notes:         req.Notes,
		}, nil
	})
	if err != nil {
		return nil, service.FromRepository("invoice", "record payment", err)
	}

	s.metrics.PaymentsRecorded.WithLabelValues("invoice").Inc()
	log.Info().
		Int64("invoice_id", invoiceID).
		Float64("amount", amount).
		Str("status", string(invoice.Status)).
		Float64("balance", invoice.BalanceAmount).
		Msg("invoice payment recorded")
	return invoice, nil
}

func (s *Service) ListPayments(ctx context.Context, invoiceID int64) ([]*model.Payment, error) {
	if _, err := s.GetInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	payments, err := s.invoices.ListPayments(ctx, invoiceID)
	if err != nil {
		return nil, service.FromRepository("payments", "list payments", err)
	}
	return payments, nil
}

func (s *Service) CancelInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	invoice, err := s.invoices.UpdateStatus(ctx, id, func(inv *model.Invoice) error {
		switch inv.Status {
		case model.InvoiceStatusPaid, model.InvoiceStatusRefunded:
			return apperrors.BadRequest("cannot cancel a "+strings.ToLower(string(inv.Status))+" invoice", nil)
		case model.InvoiceStatusCancelled:
			return apperrors.BadRequest("invoice is already cancelled", nil)
		}
		now := s.now()
		inv.Status = model.InvoiceStatusCancelled
		inv.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, service.FromRepository("invoice", "cancel invoice", err)
	}
	log.Info().Int64("invoice_id", id).Msg("invoice cancelled")
	return invoice, nil
}

// RefundInvoice moves a paid invoice to REFUNDED and reopens its balance.
func (s *Service) RefundInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	invoice, err := s.invoices.UpdateStatus(ctx, id, func(inv *model.Invoice) error {
		if inv.Status != model.InvoiceStatusPaid {
			return apperrors.BadRequest("only paid invoices can be refunded", nil)
		}
		inv.Status = model.InvoiceStatusRefunded
		inv.PaidAmount = 0
		inv.BalanceAmount = inv.TotalAmount
		return nil
	})
	if err != nil {
		return nil, service.FromRepository("invoice", "refund invoice", err)
	}
	log.Info().Int64("invoice_id", id).Float64("amount", invoice.TotalAmount).Msg("invoice refunded")
	return invoice, nil
}
