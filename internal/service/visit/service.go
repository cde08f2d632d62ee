// Package visit schedules timed appointments between patients and doctors.
package visit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/email"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

const msgDoubleBooked = "doctor already has an appointment at this time"

type VisitService interface {
	CreateVisit(ctx context.Context, req *model.VisitRequest) (*model.Visit, error)
	GetVisit(ctx context.Context, id int64) (*model.Visit, error)
	ListVisits(ctx context.Context, filter model.VisitFilter) ([]*model.Visit, error)
	UpdateVisit(ctx context.Context, id int64, req *model.VisitRequest) (*model.Visit, error)
	UpdateStatus(ctx context.Context, id int64, status model.VisitStatus) (*model.Visit, error)
	UpdateMedicalDetails(ctx context.Context, id int64, req *model.MedicalDetailsRequest) (*model.Visit, error)
	DeleteVisit(ctx context.Context, id int64) error
}

type Service struct {
	visits     repository.VisitRepository
	patients   repository.PatientRepository
	physicians repository.PhysicianRepository
	mailer     email.Service
	now        func() time.Time
}

var _ VisitService = (*Service)(nil)

func NewService(visits repository.VisitRepository, patients repository.PatientRepository,
	physicians repository.PhysicianRepository, mailer email.Service) *Service {
	return &Service{
		visits:     visits,
		patients:   patients,
		physicians: physicians,
		mailer:     mailer,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateVisit(ctx context.Context, req *model.VisitRequest) (*model.Visit, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	patient, physician, err := s.participants(ctx, req)
	if err != nil {
		return nil, err
	}
	if !physician.IsAvailable {
		return nil, apperrors.BadRequest("doctor is not available", nil)
	}

	if err := s.checkConflict(ctx, req, 0); err != nil {
		return nil, err
	}

	visit := &model.Visit{
		PatientID:   req.PatientID,
		PhysicianID: req.PhysicianID,
		Date:        req.Date,
		Time:        req.Time,
		Reason:      strings.TrimSpace(req.Reason),
		Notes:       req.Notes,
		Status:      model.VisitStatusScheduled,
	}
	if err := s.visits.Create(ctx, visit); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.Conflict(msgDoubleBooked, err)
		}
		return nil, service.FromRepository("appointment", "create appointment", err)
	}

	log.Info().
		Int64("visit_id", visit.ID).
		Int64("patient_id", visit.PatientID).
		Int64("doctor_id", visit.PhysicianID).
		Str("date", visit.Date.String()).
		Str("time", visit.Time).
		Msg("appointment scheduled")

	s.sendConfirmation(ctx, patient, physician, visit)
	return visit, nil
}

// sendConfirmation is best effort; a mail failure never fails the booking.
func (s *Service) sendConfirmation(ctx context.Context, patient *model.Patient, physician *model.Physician, visit *model.Visit) {
	err := s.mailer.SendAppointmentConfirmation(ctx, patient.Email, email.Confirmation{
		PatientName: patient.FullName(),
		DoctorName:  physician.FullName(),
		Date:        visit.Date.String(),
		Time:        visit.Time,
		Reason:      visit.Reason,
	})
	if err != nil {
		log.Warn().Err(err).Int64("visit_id", visit.ID).Msg("failed to send appointment confirmation")
	}
}

func (s *Service) GetVisit(ctx context.Context, id int64) (*model.Visit, error) {
	visit, err := s.visits.Get(ctx, id)
	if err != nil {
		return nil, service.FromRepository("appointment", "get appointment", err)
	}
	return visit, nil
}

func (s *Service) ListVisits(ctx context.Context, filter model.VisitFilter) ([]*model.Visit, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.BadRequest("invalid status", nil)
	}
	visits, err := s.visits.List(ctx, filter)
	if err != nil {
		return nil, service.FromRepository("appointments", "list appointments", err)
	}
	return visits, nil
}

func (s *Service) UpdateVisit(ctx context.Context, id int64, req *model.VisitRequest) (*model.Visit, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	visit, err := s.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	if visit.Status.Final() {
		return nil, apperrors.BadRequest("cannot modify a "+strings.ToLower(string(visit.Status))+" appointment", nil)
	}

	if _, _, err := s.participants(ctx, req); err != nil {
		return nil, err
	}
	if err := s.checkConflict(ctx, req, id); err != nil {
		return nil, err
	}

	visit.PatientID = req.PatientID
	visit.PhysicianID = req.PhysicianID
	visit.Date = req.Date
	visit.Time = req.Time
	visit.Reason = strings.TrimSpace(req.Reason)
	visit.Notes = req.Notes

	return visit, s.save(ctx, visit)
}

// UpdateStatus records the transition time of cancellations and completions.
// Cancelled and completed appointments are final.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status model.VisitStatus) (*model.Visit, error) {
	if !status.Valid() {
		return nil, apperrors.BadRequest("invalid status", nil)
	}

	visit, err := s.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	if visit.Status.Final() {
		return nil, apperrors.BadRequest("cannot change status of a "+strings.ToLower(string(visit.Status))+" appointment", nil)
	}

	now := s.now()
	switch status {
	case model.VisitStatusCancelled:
		visit.CancelledAt = &now
	case model.VisitStatusCompleted:
		visit.CompletedAt = &now
	}
	visit.Status = status

	if err := s.save(ctx, visit); err != nil {
		return nil, err
	}
	log.Info().Int64("visit_id", id).Str("status", string(status)).Msg("appointment status changed")
	return visit, nil
}

func (s *Service) UpdateMedicalDetails(ctx context.Context, id int64, req *model.MedicalDetailsRequest) (*model.Visit, error) {
	visit, err := s.GetVisit(ctx, id)
	if err != nil {
		return nil, err
	}

	visit.Diagnosis = req.Diagnosis
	visit.Prescription = req.Prescription
	if req.Notes != "" {
		visit.Notes = req.Notes
	}
	return visit, s.save(ctx, visit)
}

func (s *Service) DeleteVisit(ctx context.Context, id int64) error {
	if err := s.visits.Delete(ctx, id); err != nil {
		return service.FromRepository("appointment", "delete appointment", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, visit *model.Visit) error {
	if err := s.visits.Update(ctx, visit); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return apperrors.Conflict(msgDoubleBooked, err)
		}
		return service.FromRepository("appointment", "update appointment", err)
	}
	return nil
}

func (s *Service) participants(ctx context.Context, req *model.VisitRequest) (*model.Patient, *model.Physician, error) {
	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		return nil, nil, service.FromRepository("patient", "get patient", err)
	}
	physician, err := s.physicians.Get(ctx, req.PhysicianID)
	if err != nil {
		return nil, nil, service.FromRepository("doctor", "get doctor", err)
	}
	return patient, physician, nil
}

func (s *Service) checkConflict(ctx context.Context, req *model.VisitRequest, excludeID int64) error {
	conflict, err := s.visits.HasConflict(ctx, req.PhysicianID, req.Date, req.Time, excludeID)
	if err != nil {
		return service.FromRepository("appointment", "check doctor schedule", err)
	}
	if conflict {
		return apperrors.Conflict(msgDoubleBooked, nil)
	}
	return nil
}

func validateRequest(req *model.VisitRequest) error {
	switch {
	case req.PatientID <= 0:
		return apperrors.BadRequest("patientId must be positive", nil)
	case req.PhysicianID <= 0:
		return apperrors.BadRequest("doctorId must be positive", nil)
	case req.Date.IsZero():
		return apperrors.BadRequest("appointmentDate is required", nil)
	case req.Time == "":
		return apperrors.BadRequest("appointmentTime is required", nil)
	case strings.TrimSpace(req.Reason) == "":
		return apperrors.BadRequest("reason is required", nil)
	}
	return nil
}
