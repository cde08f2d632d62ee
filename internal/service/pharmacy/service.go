// Package pharmacy serves the medicine catalogue and the append-only
// checkout payment records.
package pharmacy

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type Service struct {
	repo    repository.PharmacyRepository
	metrics *metrics.Metrics
}

func NewService(repo repository.PharmacyRepository, m *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: m}
}

func (s *Service) ListMedicines(ctx context.Context) ([]*model.Medicine, error) {
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return nil, service.FromRepository("medicines", "list medicines", err)
	}
	return medicines, nil
}

// LatestPaymentID returns the highest recorded payment id, nil when none exist.
func (s *Service) LatestPaymentID(ctx context.Context) (*int64, error) {
	id, err := s.repo.LatestPaymentID(ctx)
	if err != nil {
		return nil, service.FromRepository("payment", "get latest payment id", err)
	}
	return id, nil
}

func (s *Service) NextPaymentID(ctx context.Context) (int64, error) {
	id, err := s.repo.NextPaymentID(ctx)
	if err != nil {
		return 0, service.FromRepository("payment", "get next payment id", err)
	}
	return id, nil
}

// RecordPayment appends a payment record. A zero paymentID lets the store
// assign the next id.
func (s *Service) RecordPayment(ctx context.Context, req model.RecordPaymentRequest) (*model.PaymentRecord, error) {
	if req.PaymentID < 0 {
		return nil, apperrors.BadRequest("paymentID must not be negative", nil)
	}
	if req.Amount <= 0 {
		return nil, apperrors.BadRequest("amount must be greater than 0", nil)
	}

	record := &model.PaymentRecord{
		PaymentID: req.PaymentID,
		Amount:    model.RoundMoney(req.Amount),
	}
	if err := s.repo.RecordPayment(ctx, record); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.Conflict("payment record already exists", err)
		}
		return nil, service.FromRepository("payment", "record payment", err)
	}

	s.metrics.PaymentsRecorded.WithLabelValues("pharmacy").Inc()
	log.Info().
		Int64("payment_id", record.PaymentID).
		Float64("amount", record.Amount).
		Msg("pharmacy payment recorded")
	return record, nil
}

func (s *Service) ListPaymentRecords(ctx context.Context) ([]*model.PaymentRecord, error) {
	records, err := s.repo.ListPayments(ctx)
	if err != nil {
		return nil, service.FromRepository("payments", "list payment records", err)
	}
	return records, nil
}
