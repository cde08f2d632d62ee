package postgres

import (
	"context"
	"database/sql"

	"github.com/jwalitptl/hospital-api/internal/model"
)

func (r *pharmacyRepository) ListMedicines(ctx context.Context) ([]*model.Medicine, error) {
	medicines := []*model.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, `SELECT med_id, med_name, price FROM medicines ORDER BY med_id`); err != nil {
		return nil, wrap("list medicines", err)
	}
	return medicines, nil
}

// LatestPaymentID returns nil when no payment has been recorded.
func (r *pharmacyRepository) LatestPaymentID(ctx context.Context) (*int64, error) {
	var latest sql.NullInt64
	if err := r.db.GetContext(ctx, &latest, `SELECT MAX(payment_id) FROM payment_records`); err != nil {
		return nil, wrap("get latest payment id", err)
	}
	if !latest.Valid {
		return nil, nil
	}
	return &latest.Int64, nil
}

func (r *pharmacyRepository) NextPaymentID(ctx context.Context) (int64, error) {
	var next int64
	if err := r.db.GetContext(ctx, &next, `SELECT COALESCE(MAX(payment_id), 0) + 1 FROM payment_records`); err != nil {
		return 0, wrap("compute next payment id", err)
	}
	return next, nil
}

func (r *pharmacyRepository) RecordPayment(ctx context.Context, record *model.PaymentRecord) error {
	if record.PaymentID > 0 {
		query := `INSERT INTO payment_records (payment_id, amount) VALUES ($1, $2) RETURNING created_at`
		if err := r.db.GetContext(ctx, &record.CreatedAt, query, record.PaymentID, record.Amount); err != nil {
			return wrap("record payment", err)
		}
		return nil
	}

	// Id assignment and insert are one statement; a concurrent writer picking
	// the same id fails on the primary key.
	query := `
		INSERT INTO payment_records (payment_id, amount)
		SELECT COALESCE(MAX(payment_id), 0) + 1, $1 FROM payment_records
		RETURNING payment_id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, record.Amount).Scan(&record.PaymentID, &record.CreatedAt); err != nil {
		return wrap("record payment", err)
	}
	return nil
}

func (r *pharmacyRepository) ListPayments(ctx context.Context) ([]*model.PaymentRecord, error) {
	records := []*model.PaymentRecord{}
	if err := r.db.SelectContext(ctx, &records, `SELECT payment_id, amount, created_at FROM payment_records ORDER BY payment_id`); err != nil {
		return nil, wrap("list payment records", err)
	}
	return records, nil
}
