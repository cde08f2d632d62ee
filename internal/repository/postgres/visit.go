package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
)

const visitColumns = `
	id, patient_id, physician_id, visit_date, visit_time, reason, notes, status,
	diagnosis, prescription, cancelled_at, completed_at, created_at, updated_at
`

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	query := `
		INSERT INTO visits (patient_id, physician_id, visit_date, visit_time, reason, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		visit.PatientID,
		visit.PhysicianID,
		visit.Date,
		visit.Time,
		visit.Reason,
		visit.Notes,
		visit.Status,
	).Scan(&visit.ID, &visit.CreatedAt, &visit.UpdatedAt)
	if err != nil {
		return wrap("create visit", err)
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id int64) (*model.Visit, error) {
	var visit model.Visit
	if err := r.db.GetContext(ctx, &visit, `SELECT `+visitColumns+` FROM visits WHERE id = $1`, id); err != nil {
		return nil, wrap("get visit", err)
	}
	return &visit, nil
}

func (r *visitRepository) Update(ctx context.Context, visit *model.Visit) error {
	query := `
		UPDATE visits SET
			patient_id = :patient_id, physician_id = :physician_id,
			visit_date = :visit_date, visit_time = :visit_time,
			reason = :reason, notes = :notes, status = :status,
			diagnosis = :diagnosis, prescription = :prescription,
			cancelled_at = :cancelled_at, completed_at = :completed_at,
			updated_at = NOW()
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, visit)
	if err != nil {
		return wrap("update visit", err)
	}
	return requireRow(res)
}

func (r *visitRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return wrap("delete visit", err)
	}
	return requireRow(res)
}

func (r *visitRepository) List(ctx context.Context, filter model.VisitFilter) ([]*model.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM visits WHERE TRUE`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.PatientID != nil {
		query += ` AND patient_id = ` + arg(*filter.PatientID)
	}
	if filter.PhysicianID != nil {
		query += ` AND physician_id = ` + arg(*filter.PhysicianID)
	}
	if filter.Date != nil {
		query += ` AND visit_date = ` + arg(*filter.Date)
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(filter.Status)
	}
	query += ` ORDER BY visit_date, visit_time, id`

	visits := []*model.Visit{}
	if err := r.db.SelectContext(ctx, &visits, query, args...); err != nil {
		return nil, wrap("list visits", err)
	}
	return visits, nil
}

func (r *visitRepository) HasConflict(ctx context.Context, physicianID int64, date model.Date, at string, excludeID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM visits
			WHERE physician_id = $1 AND visit_date = $2 AND visit_time = $3
			  AND id <> $4 AND status NOT IN ('CANCELLED', 'NO_SHOW')
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, physicianID, date, at, excludeID); err != nil {
		return false, wrap("check visit conflict", err)
	}
	return exists, nil
}
