package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

func (r *wardRepository) ListAvailable(ctx context.Context) ([]*model.Ward, error) {
	wards := []*model.Ward{}
	query := `
		SELECT ward_id, ward_name, occupied, appointment_id
		FROM wards
		WHERE occupied = FALSE
		ORDER BY ward_id
	`
	if err := r.db.SelectContext(ctx, &wards, query); err != nil {
		return nil, wrap("list available wards", err)
	}
	return wards, nil
}

func (r *wardRepository) Get(ctx context.Context, id int64) (*model.Ward, error) {
	var ward model.Ward
	query := `SELECT ward_id, ward_name, occupied, appointment_id FROM wards WHERE ward_id = $1`
	if err := r.db.GetContext(ctx, &ward, query, id); err != nil {
		return nil, wrap("get ward", err)
	}
	return &ward, nil
}

// SetOccupied is idempotent. A ward held by an appointment is only released
// by cancelling that appointment.
func (r *wardRepository) SetOccupied(ctx context.Context, id int64, occupied bool) error {
	query := `
		UPDATE wards
		SET occupied = $2
		WHERE ward_id = $1 AND appointment_id IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, occupied)
	if err != nil {
		return wrap("update ward occupancy", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update ward occupancy: %w", err)
	}
	if n > 0 {
		return nil
	}

	ward, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if ward.Occupied == occupied {
		return nil
	}
	return fmt.Errorf("ward %d held by an appointment: %w", id, repository.ErrWardUnavailable)
}
