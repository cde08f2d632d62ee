package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
)

const physicianColumns = `
	id, first_name, last_name, email, phone, license_number, specialization,
	qualification, experience_years, consultation_fee, department, room_number,
	available_days, start_time, end_time, is_available,
	created_at, updated_at, deleted_at
`

func (r *physicianRepository) Create(ctx context.Context, physician *model.Physician) error {
	query := `
		INSERT INTO physicians (
			first_name, last_name, email, phone, license_number, specialization,
			qualification, experience_years, consultation_fee, department, room_number,
			available_days, start_time, end_time, is_available
		) VALUES (
			:first_name, :last_name, :email, :phone, :license_number, :specialization,
			:qualification, :experience_years, :consultation_fee, :department, :room_number,
			:available_days, :start_time, :end_time, :is_available
		)
		RETURNING id, created_at, updated_at
	`
	rows, err := r.db.NamedQueryContext(ctx, query, physician)
	if err != nil {
		return wrap("create physician", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&physician.ID, &physician.CreatedAt, &physician.UpdatedAt); err != nil {
			return wrap("create physician", err)
		}
	}
	return wrap("create physician", rows.Err())
}

func (r *physicianRepository) Get(ctx context.Context, id int64) (*model.Physician, error) {
	var physician model.Physician
	query := `SELECT ` + physicianColumns + ` FROM physicians WHERE id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &physician, query, id); err != nil {
		return nil, wrap("get physician", err)
	}
	return &physician, nil
}

func (r *physicianRepository) Update(ctx context.Context, physician *model.Physician) error {
	query := `
		UPDATE physicians SET
			first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
			license_number = :license_number, specialization = :specialization,
			qualification = :qualification, experience_years = :experience_years,
			consultation_fee = :consultation_fee, department = :department,
			room_number = :room_number, available_days = :available_days,
			start_time = :start_time, end_time = :end_time, is_available = :is_available,
			updated_at = NOW()
		WHERE id = :id AND deleted_at IS NULL
	`
	res, err := r.db.NamedExecContext(ctx, query, physician)
	if err != nil {
		return wrap("update physician", err)
	}
	return requireRow(res)
}

func (r *physicianRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE physicians SET is_available = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, available)
	if err != nil {
		return wrap("set physician availability", err)
	}
	return requireRow(res)
}

func (r *physicianRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE physicians SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return wrap("delete physician", err)
	}
	return requireRow(res)
}

func (r *physicianRepository) List(ctx context.Context, filter model.PhysicianFilter) ([]*model.Physician, error) {
	query := `SELECT ` + physicianColumns + ` FROM physicians WHERE deleted_at IS NULL`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Specialization != "" {
		query += ` AND specialization ILIKE ` + arg(filter.Specialization)
	}
	if filter.Department != "" {
		query += ` AND department ILIKE ` + arg(filter.Department)
	}
	if filter.AvailableOnly {
		query += ` AND is_available = TRUE`
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		query += fmt.Sprintf(` AND (first_name ILIKE %[1]s OR last_name ILIKE %[1]s OR specialization ILIKE %[1]s)`, p)
	}
	query += ` ORDER BY id`

	physicians := []*model.Physician{}
	if err := r.db.SelectContext(ctx, &physicians, query, args...); err != nil {
		return nil, wrap("list physicians", err)
	}
	return physicians, nil
}

func (r *physicianRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

func (r *physicianRepository) LicenseTaken(ctx context.Context, license string, excludeID int64) (bool, error) {
	return r.taken(ctx, "license_number", license, excludeID)
}

func (r *physicianRepository) taken(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM physicians WHERE ` + column + ` = $1 AND id <> $2 AND deleted_at IS NULL)`
	if err := r.db.GetContext(ctx, &exists, query, value, excludeID); err != nil {
		return false, wrap("check physician "+column, err)
	}
	return exists, nil
}
