package patient

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type PatientService interface {
	CreatePatient(ctx context.Context, req *model.PatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id int64) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id int64, req *model.PatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id int64) error
	ListPatients(ctx context.Context, search string) ([]*model.Patient, error)
}

type Service struct {
	repo repository.PatientRepository
}

var _ PatientService = (*Service)(nil)

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.PatientRequest) (*model.Patient, error) {
	patient := &model.Patient{}
	req.Apply(patient)
	normalize(patient)

	if err := s.checkUnique(ctx, patient, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, service.FromRepository("patient", "create patient", err)
	}

	log.Info().Int64("patient_id", patient.ID).Msg("patient registered")
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.FromRepository("patient", "get patient", err)
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id int64, req *model.PatientRequest) (*model.Patient, error) {
	patient, err := s.GetPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(patient)
	normalize(patient)

	if err := s.checkUnique(ctx, patient, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, service.FromRepository("patient", "update patient", err)
	}
	return patient, nil
}

// DeletePatient soft-deletes; the row is kept for invoices and visits.
func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return service.FromRepository("patient", "delete patient", err)
	}
	log.Info().Int64("patient_id", id).Msg("patient deleted")
	return nil
}

// ListPatients matches search against name, email and phone.
func (s *Service) ListPatients(ctx context.Context, search string) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, service.FromRepository("patients", "list patients", err)
	}
	return patients, nil
}

func (s *Service) checkUnique(ctx context.Context, patient *model.Patient, excludeID int64) error {
	taken, err := s.repo.EmailTaken(ctx, patient.Email, excludeID)
	if err != nil {
		return service.FromRepository("patient", "check email", err)
	}
	if taken {
		return apperrors.Conflict("patient with this email already exists", nil)
	}

	taken, err = s.repo.PhoneTaken(ctx, patient.Phone, excludeID)
	if err != nil {
		return service.FromRepository("patient", "check phone", err)
	}
	if taken {
		return apperrors.Conflict("patient with this phone already exists", nil)
	}
	return nil
}

func normalize(p *model.Patient) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
}
