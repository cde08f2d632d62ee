// Package physician manages the doctor profiles of the /api/v1 surface.
package physician

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type PhysicianService interface {
	CreatePhysician(ctx context.Context, req *model.PhysicianRequest) (*model.Physician, error)
	GetPhysician(ctx context.Context, id int64) (*model.Physician, error)
	UpdatePhysician(ctx context.Context, id int64, req *model.PhysicianRequest) (*model.Physician, error)
	SetAvailability(ctx context.Context, id int64, available bool) (*model.Physician, error)
	DeletePhysician(ctx context.Context, id int64) error
	ListPhysicians(ctx context.Context, filter model.PhysicianFilter) ([]*model.Physician, error)
}

type Service struct {
	repo repository.PhysicianRepository
}

var _ PhysicianService = (*Service)(nil)

func NewService(repo repository.PhysicianRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePhysician(ctx context.Context, req *model.PhysicianRequest) (*model.Physician, error) {
	physician := &model.Physician{IsAvailable: true}
	req.Apply(physician)
	normalize(physician)

	if err := validateHours(physician); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, physician, 0); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, physician); err != nil {
		return nil, service.FromRepository("doctor", "create doctor", err)
	}

	log.Info().
		Int64("doctor_id", physician.ID).
		Str("specialization", physician.Specialization).
		Msg("doctor registered")
	return physician, nil
}

func (s *Service) GetPhysician(ctx context.Context, id int64) (*model.Physician, error) {
	physician, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.FromRepository("doctor", "get doctor", err)
	}
	return physician, nil
}

func (s *Service) UpdatePhysician(ctx context.Context, id int64, req *model.PhysicianRequest) (*model.Physician, error) {
	physician, err := s.GetPhysician(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(physician)
	normalize(physician)

	if err := validateHours(physician); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, physician, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, physician); err != nil {
		return nil, service.FromRepository("doctor", "update doctor", err)
	}
	return physician, nil
}

func (s *Service) SetAvailability(ctx context.Context, id int64, available bool) (*model.Physician, error) {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		return nil, service.FromRepository("doctor", "update availability", err)
	}
	return s.GetPhysician(ctx, id)
}

func (s *Service) DeletePhysician(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return service.FromRepository("doctor", "delete doctor", err)
	}
	log.Info().Int64("doctor_id", id).Msg("doctor deleted")
	return nil
}

func (s *Service) ListPhysicians(ctx context.Context, filter model.PhysicianFilter) ([]*model.Physician, error) {
	filter.Specialization = strings.TrimSpace(filter.Specialization)
	filter.Department = strings.TrimSpace(filter.Department)
	filter.Search = strings.TrimSpace(filter.Search)

	physicians, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, service.FromRepository("doctors", "list doctors", err)
	}
	return physicians, nil
}

func (s *Service) checkUnique(ctx context.Context, p *model.Physician, excludeID int64) error {
	taken, err := s.repo.EmailTaken(ctx, p.Email, excludeID)
	if err != nil {
		return service.FromRepository("doctor", "check email", err)
	}
	if taken {
		return apperrors.Conflict("doctor with this email already exists", nil)
	}

	taken, err = s.repo.LicenseTaken(ctx, p.LicenseNumber, excludeID)
	if err != nil {
		return service.FromRepository("doctor", "check license number", err)
	}
	if taken {
		return apperrors.Conflict("doctor with this license number already exists", nil)
	}
	return nil
}

// validateHours requires start before end when both are set. Times are
// zero-padded HH:MM so string order is clock order.
func validateHours(p *model.Physician) error {
	if p.StartTime != "" && p.EndTime != "" && p.StartTime >= p.EndTime {
		return apperrors.BadRequest("startTime must be before endTime", nil)
	}
	return nil
}

func normalize(p *model.Physician) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.LicenseNumber = strings.TrimSpace(p.LicenseNumber)
	p.Specialization = strings.TrimSpace(p.Specialization)
}
