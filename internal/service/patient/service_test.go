package patient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/fake"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func request(first, email, phone string) *model.PatientRequest {
	return &model.PatientRequest{
		FirstName: first,
		LastName:  "Rao",
		Email:     email,
		Phone:     phone,
		Gender:    model.GenderFemale,
	}
}

func TestPatientLifecycle(t *testing.T) {
	svc := NewService(fake.NewStore().PatientRepo())
	ctx := context.Background()

	created, err := svc.CreatePatient(ctx, request("Meera", "Meera@Example.com ", "9000000001"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "meera@example.com", created.Email)

	got, err := svc.GetPatient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meera", got.FirstName)

	updated, err := svc.UpdatePatient(ctx, created.ID, request("Meera", "meera@example.com", "9000000009"))
	require.NoError(t, err)
	assert.Equal(t, "9000000009", updated.Phone)

	require.NoError(t, svc.DeletePatient(ctx, created.ID))
	_, err = svc.GetPatient(ctx, created.ID)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(svc.DeletePatient(ctx, created.ID)))
}

func TestPatientUniqueness(t *testing.T) {
	svc := NewService(fake.NewStore().PatientRepo())
	ctx := context.Background()

	first, err := svc.CreatePatient(ctx, request("A", "a@example.com", "9000000001"))
	require.NoError(t, err)
	second, err := svc.CreatePatient(ctx, request("B", "b@example.com", "9000000002"))
	require.NoError(t, err)

	_, err = svc.CreatePatient(ctx, request("C", "a@example.com", "9000000003"))
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))

	_, err = svc.CreatePatient(ctx, request("C", "c@example.com", "9000000002"))
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))

	_, err = svc.UpdatePatient(ctx, second.ID, request("B", "a@example.com", "9000000002"))
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))

	// Keeping one's own email is not a conflict.
	_, err = svc.UpdatePatient(ctx, first.ID, request("A2", "a@example.com", "9000000001"))
	assert.NoError(t, err)

	// A soft-deleted patient frees the email.
	require.NoError(t, svc.DeletePatient(ctx, first.ID))
	_, err = svc.CreatePatient(ctx, request("D", "a@example.com", "9000000001"))
	assert.NoError(t, err)
}

func TestListPatientsSearch(t *testing.T) {
	svc := NewService(fake.NewStore().PatientRepo())
	ctx := context.Background()

	_, err := svc.CreatePatient(ctx, request("Meera", "meera@example.com", "9000000001"))
	require.NoError(t, err)
	_, err = svc.CreatePatient(ctx, request("Arjun", "arjun@example.com", "9111111111"))
	require.NoError(t, err)

	all, err := svc.ListPatients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := svc.ListPatients(ctx, " meer ")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Meera", byName[0].FirstName)

	byPhone, err := svc.ListPatients(ctx, "9111")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Arjun", byPhone[0].FirstName)
}
