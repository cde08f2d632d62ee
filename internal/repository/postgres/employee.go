package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee, doctor *model.Doctor) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO employees (employee_id, name, age, salary, email, designation, kind)
			VALUES (:employee_id, :name, :age, :salary, :email, :designation, :kind)
		`
		if _, err := tx.NamedExecContext(ctx, query, employee); err != nil {
			return &repository.StepError{Step: repository.StepEmployee, Err: wrap("insert employee", err)}
		}
		if doctor == nil {
			return nil
		}

		query = `
			INSERT INTO doctors (employee_id, specialisation, doc_name, salary)
			VALUES (:employee_id, :specialisation, :doc_name, :salary)
		`
		if _, err := tx.NamedExecContext(ctx, query, doctor); err != nil {
			return &repository.StepError{Step: repository.StepDoctor, Err: wrap("insert doctor", err)}
		}
		return nil
	})
}

func (r *employeeRepository) List(ctx context.Context) ([]*model.Employee, error) {
	employees := []*model.Employee{}
	query := `
		SELECT employee_id, name, age, salary, email, designation, kind
		FROM employees
		ORDER BY employee_id
	`
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, wrap("list employees", err)
	}
	return employees, nil
}

func (r *employeeRepository) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors := []*model.Doctor{}
	query := `SELECT employee_id, specialisation, doc_name, salary FROM doctors ORDER BY employee_id`
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, wrap("list doctors", err)
	}
	return doctors, nil
}

func (r *employeeRepository) GetDoctor(ctx context.Context, employeeID int64) (*model.Doctor, error) {
	var doctor model.Doctor
	query := `SELECT employee_id, specialisation, doc_name, salary FROM doctors WHERE employee_id = $1`
	if err := r.db.GetContext(ctx, &doctor, query, employeeID); err != nil {
		return nil, wrap("get doctor", err)
	}
	return &doctor, nil
}

// DeleteCascade runs doctor, employee, appointments and wards in that order.
// The doctor foreign keys are deferred, so the intermediate states are legal
// until commit.
func (r *employeeRepository) DeleteCascade(ctx context.Context, employeeID int64, wardIDs []int64) (*model.EmployeeDeletion, error) {
	result := &model.EmployeeDeletion{EmployeeID: employeeID, WardsReleased: []int64{}}

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM doctors WHERE employee_id = $1`, employeeID); err != nil {
			return &repository.StepError{Step: repository.StepDoctor, Err: wrap("delete doctor", err)}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE employee_id = $1`, employeeID)
		if err == nil {
			err = requireRow(res)
		}
		if err != nil {
			return &repository.StepError{Step: repository.StepEmployee, Err: wrap("delete employee", err)}
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM appointments WHERE doctor_id = $1`, employeeID)
		if err != nil {
			return &repository.StepError{Step: repository.StepAppointments, Err: wrap("delete appointments", err)}
		}
		if result.AppointmentsDeleted, err = res.RowsAffected(); err != nil {
			return &repository.StepError{Step: repository.StepAppointments, Err: err}
		}

		if len(wardIDs) > 0 {
			// Wards still held by another doctor's booking stay occupied.
			query := `
				UPDATE wards SET occupied = FALSE, appointment_id = NULL
				WHERE ward_id = ANY($1) AND appointment_id IS NULL
				RETURNING ward_id
			`
			if err := tx.SelectContext(ctx, &result.WardsReleased, query, pq.Array(wardIDs)); err != nil {
				return &repository.StepError{Step: repository.StepWards, Err: wrap("release wards", err)}
			}
		}

		return insertOutbox(ctx, tx, model.EventEmployeeDeleted, result)
	})
	if err != nil {
		return nil, fmt.Errorf("delete employee %d: %w", employeeID, err)
	}
	return result, nil
}
