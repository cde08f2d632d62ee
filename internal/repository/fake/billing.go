package fake

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type invoiceRepo struct{ *Store }

type outboxRepo struct{ *Store }

func (s *Store) InvoiceRepo() repository.InvoiceRepository { return invoiceRepo{s} }
func (s *Store) OutboxRepo() repository.OutboxRepository   { return outboxRepo{s} }

func cloneInvoice(inv *model.Invoice) *model.Invoice {
	c := *inv
	c.Items = append([]model.InvoiceItem{}, inv.Items...)
	return &c
}

func (r invoiceRepo) Create(_ context.Context, inv *model.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.VisitID != nil {
		for _, other := range r.Invoices {
			if other.VisitID != nil && *other.VisitID == *inv.VisitID {
				return fmt.Errorf("%w: invoices_visit_id_key", repository.ErrConflict)
			}
		}
	}
	inv.ID = r.nextID()
	inv.CreatedAt, inv.UpdatedAt = now(), now()
	for i := range inv.Items {
		inv.Items[i].ID = r.nextID()
		inv.Items[i].InvoiceID = inv.ID
	}
	r.Invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r invoiceRepo) Get(_ context.Context, id int64) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.Invoices[id]
	if !ok || inv.DeletedAt != nil {
		return nil, notFound("invoice", id)
	}
	return cloneInvoice(inv), nil
}

func (r invoiceRepo) List(_ context.Context, f model.InvoiceFilter) ([]*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Invoice{}
	for _, id := range sortedKeys(r.Invoices) {
		inv := r.Invoices[id]
		switch {
		case inv.DeletedAt != nil,
			f.PatientID != nil && inv.PatientID != *f.PatientID,
			f.VisitID != nil && (inv.VisitID == nil || *inv.VisitID != *f.VisitID),
			f.Status != "" && inv.Status != f.Status:
			continue
		}
		out = append(out, cloneInvoice(inv))
	}
	return out, nil
}

func (r invoiceRepo) ExistsForVisit(_ context.Context, visitID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.Invoices {
		if inv.VisitID != nil && *inv.VisitID == visitID && inv.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

// AddPayment holds the store lock for the whole call, standing in for the row lock.
func (r invoiceRepo) AddPayment(_ context.Context, id int64, apply func(*model.Invoice) (*model.Payment, error)) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.Invoices[id]
	if !ok || stored.DeletedAt != nil {
		return nil, notFound("invoice", id)
	}
	inv := cloneInvoice(stored)
	payment, err := apply(inv)
	if err != nil {
		return nil, err
	}
	if err := r.failure("AddPayment"); err != nil {
		return nil, err
	}

	payment.ID = r.nextID()
	payment.InvoiceID = id
	payment.PaidAt = now()
	p := *payment
	r.InvoicePayments[id] = append(r.InvoicePayments[id], &p)
	r.Invoices[id] = cloneInvoice(inv)
	return inv, r.emit(model.EventInvoicePaymentAdded, payment)
}

func (r invoiceRepo) UpdateStatus(_ context.Context, id int64, apply func(*model.Invoice) error) (*model.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.Invoices[id]
	if !ok || stored.DeletedAt != nil {
		return nil, notFound("invoice", id)
	}
	inv := cloneInvoice(stored)
	if err := apply(inv); err != nil {
		return nil, err
	}
	r.Invoices[id] = cloneInvoice(inv)
	return inv, nil
}

func (r invoiceRepo) ListPayments(_ context.Context, invoiceID int64) ([]*model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Payment{}
	for _, p := range r.InvoicePayments[invoiceID] {
		c := *p
		out = append(out, &c)
	}
	return out, nil
}

func (r outboxRepo) ClaimPending(_ context.Context, limit int, lease time.Duration) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("ClaimPending"); err != nil {
		return nil, err
	}
	sort.SliceStable(r.Events, func(i, j int) bool { return r.Events[i].CreatedAt.Before(r.Events[j].CreatedAt) })

	current := now()
	out := []*model.OutboxEvent{}
	for _, e := range r.Events {
		if len(out) == limit {
			break
		}
		if e.Status != model.OutboxStatusPending || (e.RetryAt != nil && e.RetryAt.After(current)) {
			continue
		}
		until := current.Add(lease)
		e.RetryAt = &until
		c := *e
		out = append(out, &c)
	}
	return out, nil
}

func (r outboxRepo) find(id uuid.UUID) (*model.OutboxEvent, error) {
	for _, e := range r.Events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, notFound("outbox event", id)
}

func (r outboxRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.find(id)
	if err != nil {
		return err
	}
	t := now()
	e.Status = model.OutboxStatusProcessed
	e.ProcessedAt = &t
	e.RetryAt = nil
	e.ErrorMessage = nil
	return nil
}

func (r outboxRepo) MarkFailed(_ context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.find(id)
	if err != nil {
		return err
	}
	e.Status = model.OutboxStatusFailed
	if retryAt != nil {
		e.Status = model.OutboxStatusPending
	}
	e.ErrorMessage = &errMsg
	e.RetryAt = retryAt
	e.RetryCount++
	return nil
}

func (r outboxRepo) DeleteProcessedBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.Events[:0]
	var n int64
	for _, e := range r.Events {
		if e.Status == model.OutboxStatusProcessed && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.Events = kept
	return n, nil
}

func (r outboxRepo) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.Events[:0]
	var n int64
	for _, e := range r.Events {
		if e.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.Events = kept
	return n, nil
}

// OutboxStatus returns the current status of every event, keyed by type.
func (s *Store) OutboxStatus() map[string]model.OutboxStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.OutboxStatus, len(s.Events))
	for _, e := range s.Events {
		out[e.EventType] = e.Status
	}
	return out
}
