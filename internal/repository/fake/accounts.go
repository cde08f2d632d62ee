package fake

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type pharmacyRepo struct{ *Store }

type credentialRepo struct{ *Store }

type feedbackRepo struct{ *Store }

func (s *Store) PharmacyRepo() repository.PharmacyRepository     { return pharmacyRepo{s} }
func (s *Store) CredentialRepo() repository.CredentialRepository { return credentialRepo{s} }
func (s *Store) FeedbackRepo() repository.FeedbackRepository     { return feedbackRepo{s} }

func (r pharmacyRepo) ListMedicines(context.Context) ([]*model.Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("ListMedicines"); err != nil {
		return nil, err
	}
	out := make([]*model.Medicine, 0, len(r.Medicines))
	for _, m := range r.Medicines {
		c := *m
		out = append(out, &c)
	}
	return out, nil
}

func (r pharmacyRepo) maxPaymentID() int64 {
	var max int64
	for id := range r.PaymentRecords {
		if id > max {
			max = id
		}
	}
	return max
}

func (r pharmacyRepo) LatestPaymentID(context.Context) (*int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.PaymentRecords) == 0 {
		return nil, nil
	}
	max := r.maxPaymentID()
	return &max, nil
}

func (r pharmacyRepo) NextPaymentID(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxPaymentID() + 1, nil
}

func (r pharmacyRepo) RecordPayment(_ context.Context, record *model.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("RecordPayment"); err != nil {
		return err
	}
	if record.PaymentID == 0 {
		record.PaymentID = r.maxPaymentID() + 1
	}
	if _, ok := r.PaymentRecords[record.PaymentID]; ok {
		return fmt.Errorf("%w: payment_records_pkey", repository.ErrConflict)
	}
	record.CreatedAt = now()
	c := *record
	r.PaymentRecords[c.PaymentID] = &c
	return nil
}

func (r pharmacyRepo) ListPayments(context.Context) ([]*model.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.PaymentRecord{}
	for _, id := range sortedKeys(r.PaymentRecords) {
		c := *r.PaymentRecords[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r credentialRepo) Get(_ context.Context, userID string) (*model.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("GetCredential"); err != nil {
		return nil, err
	}
	c, ok := r.Credentials[userID]
	if !ok {
		return nil, notFound("credential", userID)
	}
	cp := *c
	return &cp, nil
}

func (r credentialRepo) Create(_ context.Context, cred *model.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Credentials[cred.UserID]; ok {
		return fmt.Errorf("%w: login_credentials_pkey", repository.ErrConflict)
	}
	cred.CreatedAt = now()
	c := *cred
	r.Credentials[c.UserID] = &c
	return nil
}

func (r feedbackRepo) Create(_ context.Context, feedback *model.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failure("CreateFeedback"); err != nil {
		return err
	}
	feedback.FeedbackNo = int64(len(r.Feedback) + 1)
	feedback.CreatedAt = now()
	c := *feedback
	r.Feedback = append(r.Feedback, &c)
	return nil
}

func (r feedbackRepo) List(context.Context) ([]*model.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Feedback, 0, len(r.Feedback))
	for _, f := range r.Feedback {
		c := *f
		out = append(out, &c)
	}
	return out, nil
}
