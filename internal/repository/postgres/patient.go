package postgres

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
)

const patientColumns = `
	id, first_name, last_name, email, phone, date_of_birth, gender, address,
	blood_group, emergency_contact, medical_history, allergies,
	created_at, updated_at, deleted_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			first_name, last_name, email, phone, date_of_birth, gender, address,
			blood_group, emergency_contact, medical_history, allergies
		) VALUES (
			:first_name, :last_name, :email, :phone, :date_of_birth, :gender, :address,
			:blood_group, :emergency_contact, :medical_history, :allergies
		)
		RETURNING id, created_at, updated_at
	`
	rows, err := r.db.NamedQueryContext(ctx, query, patient)
	if err != nil {
		return wrap("create patient", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt); err != nil {
			return wrap("create patient", err)
		}
	}
	return wrap("create patient", rows.Err())
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	var patient model.Patient
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, wrap("get patient", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
			date_of_birth = :date_of_birth, gender = :gender, address = :address,
			blood_group = :blood_group, emergency_contact = :emergency_contact,
			medical_history = :medical_history, allergies = :allergies,
			updated_at = NOW()
		WHERE id = :id AND deleted_at IS NULL
	`
	res, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		return wrap("update patient", err)
	}
	return requireRow(res)
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE patients SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return wrap("delete patient", err)
	}
	return requireRow(res)
}

// List returns live patients, optionally matching search against name, email or phone.
func (r *patientRepository) List(ctx context.Context, search string) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE deleted_at IS NULL`
	var args []interface{}
	if search != "" {
		query += ` AND (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY id`

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, wrap("list patients", err)
	}
	return patients, nil
}

func (r *patientRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

func (r *patientRepository) PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return r.taken(ctx, "phone", phone, excludeID)
}

// taken checks a unique column among live patients; column is never user input.
func (r *patientRepository) taken(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM patients WHERE ` + column + ` = $1 AND id <> $2 AND deleted_at IS NULL)`
	if err := r.db.GetContext(ctx, &exists, query, value, excludeID); err != nil {
		return false, wrap("check patient "+column, err)
	}
	return exists, nil
}
