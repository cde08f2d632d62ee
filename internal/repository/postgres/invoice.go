package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/hospital-api/internal/model"
)

const invoiceColumns = `
	id, invoice_number, patient_id, visit_id, consultation_fee, medication_charges,
	test_charges, other_charges, discount, tax, total_amount, paid_amount,
	balance_amount, status, payment_method, notes, paid_at, cancelled_at,
	created_at, updated_at, deleted_at
`

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO invoices (
				invoice_number, patient_id, visit_id, consultation_fee, medication_charges,
				test_charges, other_charges, discount, tax, total_amount, paid_amount,
				balance_amount, status, notes
			) VALUES (
				:invoice_number, :patient_id, :visit_id, :consultation_fee, :medication_charges,
				:test_charges, :other_charges, :discount, :tax, :total_amount, :paid_amount,
				:balance_amount, :status, :notes
			)
			RETURNING id, created_at, updated_at
		`
		query, args, err := tx.BindNamed(query, invoice)
		if err != nil {
			return fmt.Errorf("failed to bind invoice: %w", err)
		}
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return wrap("create invoice", err)
		}

		for i := range invoice.Items {
			item := &invoice.Items[i]
			item.InvoiceID = invoice.ID
			err := tx.QueryRowxContext(ctx, `
				INSERT INTO invoice_items (invoice_id, description, quantity, unit_price, total_price)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice, item.TotalPrice).Scan(&item.ID)
			if err != nil {
				return wrap("create invoice item", err)
			}
		}
		return nil
	})
}

func (r *invoiceRepository) Get(ctx context.Context, id int64) (*model.Invoice, error) {
	var invoice model.Invoice
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		return nil, wrap("get invoice", err)
	}
	if err := r.attachItems(ctx, r.db, []*model.Invoice{&invoice}); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter model.InvoiceFilter) ([]*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE deleted_at IS NULL`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.PatientID != nil {
		query += ` AND patient_id = ` + arg(*filter.PatientID)
	}
	if filter.VisitID != nil {
		query += ` AND visit_id = ` + arg(*filter.VisitID)
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(filter.Status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	invoices := []*model.Invoice{}
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, wrap("list invoices", err)
	}
	if err := r.attachItems(ctx, r.db, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// attachItems loads the line items of all invoices with one query.
func (r *invoiceRepository) attachItems(ctx context.Context, q sqlx.QueryerContext, invoices []*model.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(invoices))
	byID := make(map[int64]*model.Invoice, len(invoices))
	for _, inv := range invoices {
		inv.Items = []model.InvoiceItem{}
		ids = append(ids, inv.ID)
		byID[inv.ID] = inv
	}

	var items []model.InvoiceItem
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, total_price
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY id
	`
	if err := sqlx.SelectContext(ctx, q, &items, query, pq.Array(ids)); err != nil {
		return wrap("load invoice items", err)
	}
	for _, item := range items {
		if inv, ok := byID[item.InvoiceID]; ok {
			inv.Items = append(inv.Items, item)
		}
	}
	return nil
}

func (r *invoiceRepository) ExistsForVisit(ctx context.Context, visitID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM invoices WHERE visit_id = $1 AND deleted_at IS NULL)`
	if err := r.db.GetContext(ctx, &exists, query, visitID); err != nil {
		return false, wrap("check visit invoice", err)
	}
	return exists, nil
}

// lock reads the invoice and its items holding the row lock until commit.
func (r *invoiceRepository) lock(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Invoice, error) {
	var invoice model.Invoice
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	if err := tx.GetContext(ctx, &invoice, query, id); err != nil {
		return nil, wrap("lock invoice", err)
	}
	if err := r.attachItems(ctx, tx, []*model.Invoice{&invoice}); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func saveInvoiceState(ctx context.Context, tx *sqlx.Tx, invoice *model.Invoice) error {
	query := `
		UPDATE invoices SET
			total_amount = $2, paid_amount = $3, balance_amount = $4, status = $5,
			payment_method = $6, paid_at = $7, cancelled_at = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := tx.QueryRowxContext(ctx, query,
		invoice.ID,
		invoice.TotalAmount,
		invoice.PaidAmount,
		invoice.BalanceAmount,
		invoice.Status,
		invoice.PaymentMethod,
		invoice.PaidAt,
		invoice.CancelledAt,
	).Scan(&invoice.UpdatedAt)
	if err != nil {
		return wrap("update invoice", err)
	}
	return nil
}

func (r *invoiceRepository) AddPayment(ctx context.Context, invoiceID int64, apply func(*model.Invoice) (*model.Payment, error)) (*model.Invoice, error) {
	var invoice *model.Invoice
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if invoice, err = r.lock(ctx, tx, invoiceID); err != nil {
			return err
		}
		payment, err := apply(invoice)
		if err != nil {
			return err
		}

		payment.InvoiceID = invoice.ID
		query := `
			INSERT INTO invoice_payments (invoice_id, amount, payment_method, transaction_id, notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, paid_at
		`
		err = tx.QueryRowxContext(ctx, query,
			payment.InvoiceID,
			payment.Amount,
			payment.PaymentMethod,
			payment.TransactionID,
			payment.Notes,
		).Scan(&payment.ID, &payment.PaidAt)
		if err != nil {
			return wrap("insert payment", err)
		}

		if err := saveInvoiceState(ctx, tx, invoice); err != nil {
			return err
		}
		return insertOutbox(ctx, tx, model.EventInvoicePaymentAdded, map[string]interface{}{
			"invoiceId":     invoice.ID,
			"invoiceNumber": invoice.InvoiceNumber,
			"payment":       payment,
			"status":        invoice.Status,
			"balanceAmount": invoice.BalanceAmount,
		})
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, invoiceID int64, apply func(*model.Invoice) error) (*model.Invoice, error) {
	var invoice *model.Invoice
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if invoice, err = r.lock(ctx, tx, invoiceID); err != nil {
			return err
		}
		if err := apply(invoice); err != nil {
			return err
		}
		return saveInvoiceState(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepository) ListPayments(ctx context.Context, invoiceID int64) ([]*model.Payment, error) {
	payments := []*model.Payment{}
	query := `
		SELECT id, invoice_id, amount, payment_method, transaction_id, notes, paid_at
		FROM invoice_payments
		WHERE invoice_id = $1
		ORDER BY paid_at, id
	`
	if err := r.db.SelectContext(ctx, &payments, query, invoiceID); err != nil {
		return nil, wrap("list payments", err)
	}
	return payments, nil
}
