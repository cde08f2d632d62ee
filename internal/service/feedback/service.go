package feedback

import (
	"context"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type Service struct {
	repo repository.FeedbackRepository
}

func NewService(repo repository.FeedbackRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) SubmitFeedback(ctx context.Context, req model.SubmitFeedbackRequest) (*model.Feedback, error) {
	review := strings.TrimSpace(req.Review)
	if review == "" {
		return nil, apperrors.BadRequest("review is required", nil)
	}

	feedback := &model.Feedback{
		PatientID:    strings.TrimSpace(req.PatientID),
		EmployeeName: strings.TrimSpace(req.EmployeeName),
		Review:       review,
	}
	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, service.FromRepository("feedback", "submit feedback", err)
	}
	return feedback, nil
}

func (s *Service) ListFeedback(ctx context.Context) ([]*model.Feedback, error) {
	feedback, err := s.repo.List(ctx)
	if err != nil {
		return nil, service.FromRepository("feedback", "list feedback", err)
	}
	return feedback, nil
}
