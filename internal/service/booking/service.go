// Package booking coordinates slot bookings with ward occupancy.
package booking

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const msgSlotTaken = "slot already booked"

type Service struct {
	appointments repository.AppointmentRepository
	wards        repository.WardRepository
	metrics      *metrics.Metrics
}

func NewService(appointments repository.AppointmentRepository, wards repository.WardRepository, m *metrics.Metrics) *Service {
	return &Service{
		appointments: appointments,
		wards:        wards,
		metrics:      m,
	}
}

func (s *Service) ListAppointments(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	appointments, err := s.appointments.List(ctx, filter)
	if err != nil {
		return nil, service.FromRepository("appointments", "list appointments", err)
	}
	return appointments, nil
}

func (s *Service) ListAllAppointments(ctx context.Context) ([]*model.Appointment, error) {
	return s.ListAppointments(ctx, model.AppointmentFilter{})
}

func (s *Service) ListAppointmentsForDoctor(ctx context.Context, doctorID int64) ([]*model.Appointment, error) {
	if doctorID <= 0 {
		return nil, apperrors.BadRequest("doctorID must be positive", nil)
	}
	return s.ListAppointments(ctx, model.AppointmentFilter{DoctorID: &doctorID})
}

func (s *Service) ListAppointmentsOn(ctx context.Context, date model.Date) ([]*model.Appointment, error) {
	if date.IsZero() {
		return nil, apperrors.BadRequest("date is required", nil)
	}
	return s.ListAppointments(ctx, model.AppointmentFilter{Date: &date})
}

func (s *Service) BookAppointment(ctx context.Context, req model.BookAppointmentRequest) (*model.Appointment, error) {
	appt := &model.Appointment{
		DoctorID:  req.DoctorID,
		PatientID: strings.TrimSpace(req.PatientID),
		AppDate:   req.AppDate,
		WardID:    req.WardID,
		Slot:      req.Slot,
	}
	if err := validateBooking(appt); err != nil {
		return nil, err
	}

	taken, err := s.appointments.ExistsForSlot(ctx, appt.DoctorID, appt.AppDate, appt.Slot)
	if err != nil {
		return nil, service.FromRepository("appointment", "check slot", err)
	}
	if taken {
		return nil, apperrors.Conflict(msgSlotTaken, nil)
	}

	if err := s.appointments.Book(ctx, appt); err != nil {
		// A racing booking that passed the check above trips the unique key.
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.Conflict(msgSlotTaken, err)
		}
		return nil, service.FromRepository("doctor or ward", "book appointment", err)
	}

	s.metrics.AppointmentsBooked.Inc()
	log.Info().
		Int64("app_id", appt.AppID).
		Int64("doctor_id", appt.DoctorID).
		Int64("ward_id", appt.WardID).
		Str("date", appt.AppDate.String()).
		Int("slot", appt.Slot).
		Msg("appointment booked")
	return appt, nil
}

func validateBooking(appt *model.Appointment) error {
	switch {
	case appt.DoctorID <= 0:
		return apperrors.BadRequest("doctorID must be positive", nil)
	case appt.PatientID == "":
		return apperrors.BadRequest("patientID is required", nil)
	case appt.WardID <= 0:
		return apperrors.BadRequest("wardID must be positive", nil)
	case appt.AppDate.IsZero():
		return apperrors.BadRequest("appDate is required", nil)
	case appt.Slot < model.MinSlot || appt.Slot > model.MaxSlot:
		return apperrors.BadRequest("slot must be between 1 and 5", nil)
	}
	return nil
}

// CancelAppointment deletes the appointment and frees its ward. A zero wardID
// means the appointment's own ward. Returns the released ward.
func (s *Service) CancelAppointment(ctx context.Context, appointmentID, wardID int64) (int64, error) {
	if appointmentID <= 0 {
		return 0, apperrors.BadRequest("appointmentID must be positive", nil)
	}
	if wardID < 0 {
		return 0, apperrors.BadRequest("wardID must not be negative", nil)
	}

	released, err := s.appointments.Cancel(ctx, appointmentID, wardID)
	if err != nil {
		return 0, service.FromRepository("appointment", "cancel appointment", err)
	}

	s.metrics.AppointmentsCancelled.Inc()
	log.Info().
		Int64("app_id", appointmentID).
		Int64("ward_id", released).
		Msg("appointment cancelled")
	return released, nil
}

// SetWardOccupied is idempotent. Wards held by a booking are released by
// cancelling the booking.
func (s *Service) SetWardOccupied(ctx context.Context, wardID int64, occupied bool) error {
	if wardID <= 0 {
		return apperrors.BadRequest("wardID must be positive", nil)
	}
	if err := s.wards.SetOccupied(ctx, wardID, occupied); err != nil {
		if errors.Is(err, repository.ErrWardUnavailable) {
			return apperrors.Conflict("ward is held by an appointment", err)
		}
		return service.FromRepository("ward", "update ward", err)
	}
	return nil
}

func (s *Service) ListAvailableWards(ctx context.Context) ([]*model.Ward, error) {
	wards, err := s.wards.ListAvailable(ctx)
	if err != nil {
		return nil, service.FromRepository("wards", "list wards", err)
	}
	return wards, nil
}

func (s *Service) ListWardIDsForDoctor(ctx context.Context, doctorID int64) ([]int64, error) {
	if doctorID <= 0 {
		return nil, apperrors.BadRequest("doctorID must be positive", nil)
	}
	ids, err := s.appointments.WardIDsForDoctor(ctx, doctorID)
	if err != nil {
		return nil, service.FromRepository("wards", "list wards of doctor", err)
	}
	return ids, nil
}

func (s *Service) NextAppointmentID(ctx context.Context) (int64, error) {
	next, err := s.appointments.NextID(ctx)
	if err != nil {
		return 0, service.FromRepository("appointment", "compute next appointment id", err)
	}
	return next, nil
}
