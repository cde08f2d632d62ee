package billing

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/fake"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type fixture struct {
	svc       *Service
	store     *fake.Store
	patientID int64
	visitID   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := fake.NewStore()
	ctx := context.Background()

	patient := &model.Patient{FirstName: "Meera", LastName: "Rao", Email: "m@example.com", Phone: "1", Gender: model.GenderFemale}
	require.NoError(t, store.PatientRepo().Create(ctx, patient))
	visit := &model.Visit{PatientID: patient.ID, PhysicianID: 1, Date: model.NewDate(2024, time.May, 2), Time: "10:00", Reason: "x", Status: model.VisitStatusCompleted}
	require.NoError(t, store.VisitRepo().Create(ctx, visit))

	svc := NewService(store.InvoiceRepo(), store.PatientRepo(), store.VisitRepo(), metrics.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 2, 14, 30, 5, 0, time.UTC) }
	return &fixture{svc: svc, store: store, patientID: patient.ID, visitID: visit.ID}
}

func (f *fixture) invoice(t *testing.T) *model.Invoice {
	t.Helper()
	inv, err := f.svc.CreateInvoice(context.Background(), &model.InvoiceRequest{
		PatientID:       f.patientID,
		ConsultationFee: 500,
		Tax:             50,
		Discount:        25,
		Items:           []model.InvoiceItemRequest{{Description: "ECG", Quantity: 2, UnitPrice: 100}},
	})
	require.NoError(t, err)
	return inv
}

func pay(amount float64) *model.PaymentRequest {
	return &model.PaymentRequest{Amount: amount, PaymentMethod: model.PaymentMethodUPI}
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	f := newFixture(t)
	inv := f.invoice(t)

	assert.Regexp(t, regexp.MustCompile(`^INV-20240502143005-[0-9A-F]{4}$`), inv.InvoiceNumber)
	assert.Equal(t, 725.0, inv.TotalAmount)
	assert.Equal(t, 725.0, inv.BalanceAmount)
	assert.Equal(t, model.InvoiceStatusPending, inv.Status)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, 200.0, inv.Items[0].TotalPrice)
}

func TestCreateInvoiceRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateInvoice(ctx, &model.InvoiceRequest{PatientID: 999})
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))

	missing := int64(999)
	_, err = f.svc.CreateInvoice(ctx, &model.InvoiceRequest{PatientID: f.patientID, VisitID: &missing})
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))

	_, err = f.svc.CreateInvoice(ctx, &model.InvoiceRequest{PatientID: f.patientID, VisitID: &f.visitID, ConsultationFee: 10})
	require.NoError(t, err)
	_, err = f.svc.CreateInvoice(ctx, &model.InvoiceRequest{PatientID: f.patientID, VisitID: &f.visitID, ConsultationFee: 10})
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))

	_, err = f.svc.CreateInvoice(ctx, &model.InvoiceRequest{PatientID: f.patientID, ConsultationFee: 10, Discount: 20})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
}

func TestAddPaymentPartialThenFull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t)

	partial, err := f.svc.AddPayment(ctx, inv.ID, pay(225))
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPartiallyPaid, partial.Status)
	assert.Equal(t, 500.0, partial.BalanceAmount)
	assert.Nil(t, partial.PaidAt)

	_, err = f.svc.AddPayment(ctx, inv.ID, pay(500.01))
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err), "overpayment")

	paid, err := f.svc.AddPayment(ctx, inv.ID, pay(500))
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, 0.0, paid.BalanceAmount)
	require.NotNil(t, paid.PaidAt)

	_, err = f.svc.AddPayment(ctx, inv.ID, pay(1))
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "invoice is already paid", appErr.Message)

	payments, err := f.svc.ListPayments(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	events := f.store.EventTypes()
	assert.Equal(t, []string{model.EventInvoicePaymentAdded, model.EventInvoicePaymentAdded}, events)
	var payload model.Payment
	require.NoError(t, json.Unmarshal(f.store.Events[1].Payload, &payload))
	assert.Equal(t, 500.0, payload.Amount)
}

func TestAddPaymentRejectsInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.invoice(t)

	_, err := f.svc.AddPayment(ctx, inv.ID, pay(0))
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))

	_, err = f.svc.AddPayment(ctx, 999, pay(10))
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))

	_, err = f.svc.CancelInvoice(ctx, inv.ID)
	require.NoError(t, err)
	_, err = f.svc.AddPayment(ctx, inv.ID, pay(10))
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err))
}

func TestCancelAndRefund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	open := f.invoice(t)
	_, err := f.svc.RefundInvoice(ctx, open.ID)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err), "refund of unpaid invoice")

	cancelled, err := f.svc.CancelInvoice(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	paid := f.invoice(t)
	_, err = f.svc.AddPayment(ctx, paid.ID, pay(paid.TotalAmount))
	require.NoError(t, err)

	_, err = f.svc.CancelInvoice(ctx, paid.ID)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err), "cancel of paid invoice")

	refunded, err := f.svc.RefundInvoice(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusRefunded, refunded.Status)
	assert.Equal(t, 0.0, refunded.PaidAmount)
	assert.Equal(t, refunded.TotalAmount, refunded.BalanceAmount)

	_, err = f.svc.CancelInvoice(ctx, paid.ID)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(err), "cancel of refunded invoice")

	list, err := f.svc.ListInvoices(ctx, model.InvoiceFilter{Status: model.InvoiceStatusRefunded})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
