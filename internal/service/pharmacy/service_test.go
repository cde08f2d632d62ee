package pharmacy

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/fake"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

func newService() (*Service, *fake.Store, *metrics.Metrics) {
	store := fake.NewStore()
	m := metrics.NewNop()
	return NewService(store.PharmacyRepo(), m), store, m
}

func TestPaymentIDsOnEmptyStore(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	latest, err := svc.LatestPaymentID(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	next, err := svc.NextPaymentID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestRecordPayment(t *testing.T) {
	svc, _, m := newService()
	ctx := context.Background()

	record, err := svc.RecordPayment(ctx, model.RecordPaymentRequest{PaymentID: 10, Amount: 99.999})
	require.NoError(t, err)
	assert.Equal(t, int64(10), record.PaymentID)
	assert.Equal(t, 100.0, record.Amount)

	assigned, err := svc.RecordPayment(ctx, model.RecordPaymentRequest{Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(11), assigned.PaymentID)

	latest, err := svc.LatestPaymentID(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(11), *latest)

	records, err := svc.ListPaymentRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PaymentsRecorded.WithLabelValues("pharmacy")))
}

func TestRecordPaymentRejects(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		setup  func(*fake.Store)
		req    model.RecordPaymentRequest
		status int
	}{
		{name: "zero amount", req: model.RecordPaymentRequest{Amount: 0}, status: http.StatusBadRequest},
		{name: "negative id", req: model.RecordPaymentRequest{PaymentID: -1, Amount: 1}, status: http.StatusBadRequest},
		{
			name:   "duplicate id",
			setup:  func(s *fake.Store) { s.PaymentRecords[3] = &model.PaymentRecord{PaymentID: 3, Amount: 1} },
			req:    model.RecordPaymentRequest{PaymentID: 3, Amount: 1},
			status: http.StatusConflict,
		},
		{
			name:   "store failure",
			setup:  func(s *fake.Store) { s.Fail("RecordPayment", errors.New("connection reset")) },
			req:    model.RecordPaymentRequest{Amount: 1},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newService()
			if tt.setup != nil {
				tt.setup(store)
			}
			_, err := svc.RecordPayment(ctx, tt.req)
			assert.Equal(t, tt.status, apperrors.StatusOf(err))
		})
	}
}

func TestListMedicines(t *testing.T) {
	svc, store, _ := newService()
	store.Medicines = []*model.Medicine{{MedID: 1, MedName: "Paracetamol", Price: 2.5}}

	medicines, err := svc.ListMedicines(context.Background())
	require.NoError(t, err)
	require.Len(t, medicines, 1)
	assert.Equal(t, "Paracetamol", medicines[0].MedName)

	store.Fail("ListMedicines", errors.New("timeout"))
	_, err = svc.ListMedicines(context.Background())
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))
}
