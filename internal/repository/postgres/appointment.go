package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

const appointmentColumns = `app_id, doctor_id, patient_id, app_date, ward_id, slot`

func (r *appointmentRepository) List(ctx context.Context, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	var args []interface{}
	switch {
	case filter.Date != nil:
		query += ` WHERE app_date = $1`
		args = append(args, *filter.Date)
	case filter.DoctorID != nil:
		query += ` WHERE doctor_id = $1`
		args = append(args, *filter.DoctorID)
	}
	query += ` ORDER BY app_date, slot, app_id`

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, wrap("list appointments", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	var appt model.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE app_id = $1`
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		return nil, wrap("get appointment", err)
	}
	return &appt, nil
}

func (r *appointmentRepository) ExistsForSlot(ctx context.Context, doctorID int64, date model.Date, slot int) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND app_date = $2 AND slot = $3
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, doctorID, date, slot); err != nil {
		return false, wrap("check appointment slot", err)
	}
	return exists, nil
}

// NextID reports the id the legacy client expects for the next booking. Ids
// themselves are assigned by the sequence on insert.
func (r *appointmentRepository) NextID(ctx context.Context) (int64, error) {
	var next int64
	if err := r.db.GetContext(ctx, &next, `SELECT COALESCE(MAX(app_id), 0) + 1 FROM appointments`); err != nil {
		return 0, wrap("compute next appointment id", err)
	}
	return next, nil
}

func (r *appointmentRepository) Book(ctx context.Context, appt *model.Appointment) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO appointments (doctor_id, patient_id, app_date, ward_id, slot)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING app_id
		`
		err := tx.QueryRowxContext(ctx, query,
			appt.DoctorID,
			appt.PatientID,
			appt.AppDate,
			appt.WardID,
			appt.Slot,
		).Scan(&appt.AppID)
		if err != nil {
			return wrap("insert appointment", err)
		}

		if err := occupyWardFor(ctx, tx, appt.WardID, appt.AppID); err != nil {
			return err
		}
		return insertOutbox(ctx, tx, model.EventAppointmentBooked, appt)
	})
}

// occupyWardFor claims a free ward for an appointment.
func occupyWardFor(ctx context.Context, tx *sqlx.Tx, wardID, appID int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE wards SET occupied = TRUE, appointment_id = $1 WHERE ward_id = $2 AND occupied = FALSE`,
		appID, wardID,
	)
	if err != nil {
		return wrap("occupy ward", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to occupy ward: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM wards WHERE ward_id = $1)`, wardID); err != nil {
		return wrap("look up ward", err)
	}
	if !exists {
		return fmt.Errorf("ward %d: %w", wardID, repository.ErrNotFound)
	}
	return fmt.Errorf("ward %d: %w", wardID, repository.ErrWardUnavailable)
}

func (r *appointmentRepository) Cancel(ctx context.Context, appointmentID, wardID int64) (int64, error) {
	var released int64
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var appt model.Appointment
		query := `DELETE FROM appointments WHERE app_id = $1 RETURNING ` + appointmentColumns
		if err := tx.GetContext(ctx, &appt, query, appointmentID); err != nil {
			return wrap("delete appointment", err)
		}
		if wardID != 0 && wardID != appt.WardID {
			return fmt.Errorf("ward %d, appointment %d: %w", wardID, appointmentID, repository.ErrWardMismatch)
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE wards SET occupied = FALSE, appointment_id = NULL WHERE ward_id = $1`,
			appt.WardID,
		)
		if err != nil {
			return wrap("release ward", err)
		}
		released = appt.WardID
		return insertOutbox(ctx, tx, model.EventAppointmentCancelled, appt)
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}

func (r *appointmentRepository) WardIDsForDoctor(ctx context.Context, doctorID int64) ([]int64, error) {
	ids := []int64{}
	query := `SELECT DISTINCT ward_id FROM appointments WHERE doctor_id = $1 ORDER BY ward_id`
	if err := r.db.SelectContext(ctx, &ids, query, doctorID); err != nil {
		return nil, wrap("list wards of doctor", err)
	}
	return ids, nil
}
