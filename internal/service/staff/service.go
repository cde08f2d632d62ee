package staff

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

const (
	MsgDoctorAdded   = "Employee and Doctor added successfully"
	MsgEmployeeAdded = "Employee added successfully"
	MsgDeleted       = "Employee, doctor, appointments, and wards updated successfully"
)

type Service struct {
	employees    repository.EmployeeRepository
	appointments repository.AppointmentRepository
	metrics      *metrics.Metrics
}

func NewService(employees repository.EmployeeRepository, appointments repository.AppointmentRepository, m *metrics.Metrics) *Service {
	return &Service{
		employees:    employees,
		appointments: appointments,
		metrics:      m,
	}
}

// AddEmployee stores the employee and, for doctors, the doctor sub-record.
// It returns the legacy success message.
func (s *Service) AddEmployee(ctx context.Context, req model.AddEmployeeRequest) (string, error) {
	kind := req.Kind
	if kind == "" {
		kind = model.KindFromDesignation(req.Designation)
	}
	if !kind.Valid() {
		return "", apperrors.BadRequest("kind must be doctor or staff", nil)
	}
	if req.EmployeeID <= 0 {
		return "", apperrors.BadRequest("employeeID must be positive", nil)
	}

	employee := &model.Employee{
		EmployeeID:  req.EmployeeID,
		Name:        strings.TrimSpace(req.Name),
		Age:         req.Age,
		Salary:      req.Salary,
		Email:       req.Email,
		Designation: req.Designation,
		Kind:        kind,
	}

	var doctor *model.Doctor
	if kind == model.EmployeeKindDoctor {
		if strings.TrimSpace(req.Specialisation) == "" {
			return "", apperrors.BadRequest("specialisation is required for doctors", nil)
		}
		doctor = &model.Doctor{
			EmployeeID:     req.EmployeeID,
			Specialisation: strings.TrimSpace(req.Specialisation),
			DocName:        employee.Name,
			Salary:         req.Salary,
		}
	}

	if err := s.employees.Create(ctx, employee, doctor); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return "", apperrors.Conflict("employee already exists", err)
		case repository.FailedStep(err) == repository.StepDoctor:
			return "", apperrors.NewInternal("failed to add doctor record", err)
		default:
			return "", apperrors.NewInternal("failed to add employee", err)
		}
	}

	log.Info().
		Int64("employee_id", employee.EmployeeID).
		Str("kind", string(kind)).
		Msg("employee added")

	if doctor != nil {
		return MsgDoctorAdded, nil
	}
	return MsgEmployeeAdded, nil
}

// DeleteEmployee removes the employee with their doctor record and
// appointments and frees the wards those appointments held, atomically.
func (s *Service) DeleteEmployee(ctx context.Context, employeeID int64) (*model.EmployeeDeletion, error) {
	if employeeID <= 0 {
		return nil, apperrors.BadRequest("employeeID must be positive", nil)
	}

	wardIDs, err := s.appointments.WardIDsForDoctor(ctx, employeeID)
	if err != nil {
		return nil, service.FromRepository("wards", "collect wards of employee", err)
	}

	result, err := s.employees.DeleteCascade(ctx, employeeID, wardIDs)
	if err != nil {
		log.Warn().Err(err).
			Int64("employee_id", employeeID).
			Str("step", repository.FailedStep(err)).
			Msg("employee delete rolled back")
		return nil, service.FromRepository("employee", "delete employee", err)
	}

	s.metrics.EmployeesDeleted.Inc()
	log.Info().
		Int64("employee_id", employeeID).
		Int64("appointments_deleted", result.AppointmentsDeleted).
		Ints64("wards_released", result.WardsReleased).
		Msg("employee deleted")
	return result, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]*model.Employee, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, service.FromRepository("employees", "list employees", err)
	}
	return employees, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.employees.ListDoctors(ctx)
	if err != nil {
		return nil, service.FromRepository("doctors", "list doctors", err)
	}
	return doctors, nil
}

func (s *Service) DoctorName(ctx context.Context, employeeID int64) (string, error) {
	if employeeID <= 0 {
		return "", apperrors.BadRequest("doctorID must be positive", nil)
	}
	doctor, err := s.employees.GetDoctor(ctx, employeeID)
	if err != nil {
		return "", service.FromRepository("doctor", "get doctor", err)
	}
	return doctor.DocName, nil
}
