package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
)

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	query := `
		INSERT INTO feedback (patient_id, employee_name, review)
		VALUES ($1, $2, $3)
		RETURNING feedback_no, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, feedback.PatientID, feedback.EmployeeName, feedback.Review).
		Scan(&feedback.FeedbackNo, &feedback.CreatedAt)
	if err != nil {
		return wrap("create feedback", err)
	}
	return nil
}

func (r *feedbackRepository) List(ctx context.Context) ([]*model.Feedback, error) {
	entries := []*model.Feedback{}
	query := `
		SELECT feedback_no, patient_id, employee_name, review, created_at
		FROM feedback
		ORDER BY feedback_no
	`
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, wrap("list feedback", err)
	}
	return entries, nil
}
