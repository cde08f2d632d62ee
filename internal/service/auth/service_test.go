package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/fake"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

func newService(t *testing.T) (*Service, *fake.Store) {
	t.Helper()
	store := fake.NewStore()
	jwtSvc := auth.NewJWTService(auth.Config{Secret: "test-secret", Issuer: "hms", Expiry: time.Hour}, nil)
	svc := NewService(store.CredentialRepo(), security.NewBcryptHasher(4, 4), jwtSvc)
	return svc, store
}

func TestSignupThenLoginRoutesByRole(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		userID string
		role   model.Role
	}{
		{"admin1", model.RoleAdmin},
		{"p100", model.RolePatient},
		{"d7", model.RoleDoctor},
		{"r2", model.RoleDoctor},
	}
	for _, tt := range tests {
		require.NoError(t, svc.Signup(ctx, tt.userID, "secret"))

		cred, err := svc.Login(ctx, tt.userID, "secret")
		require.NoError(t, err)
		assert.Equal(t, tt.role, cred.Role, tt.userID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, "admin1", "x-secret"))

	for name, pair := range map[string][2]string{
		"wrong password": {"admin1", "nope"},
		"unknown user":   {"admin2", "x-secret"},
		"empty password": {"admin1", ""},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(ctx, pair[0], pair[1])
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))
		})
	}
}

func TestLoginStoreFailureIsInternal(t *testing.T) {
	svc, store := newService(t)
	store.Fail("GetCredential", errors.New("connection refused"))

	_, err := svc.Login(context.Background(), "admin1", "x")
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupRejects(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, "p1", "secret"))

	err := svc.Signup(ctx, "p1", "another")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode())
	assert.Equal(t, MsgUserExists, appErr.Message)

	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(svc.Signup(ctx, "x1", "secret")))
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(svc.Signup(ctx, "p2", "abc")))
}

func TestSignupStoresHashNotPassword(t *testing.T) {
	svc, store := newService(t)
	require.NoError(t, svc.Signup(context.Background(), "d1", "secret"))
	assert.NotEqual(t, "secret", store.Credentials["d1"].PasswordHash)
}

func TestTokenLifecycle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, "admin1", "secret"))

	resp, err := svc.IssueToken(ctx, "admin1", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin1", resp.Username)
	assert.Equal(t, model.RoleAdmin, resp.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	require.NoError(t, svc.Logout(resp.Token))
	_, err = svc.ValidateToken(resp.Token)
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))

	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(svc.Logout("garbage")))
}

func TestIssueTokenBadPassword(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.IssueToken(context.Background(), "admin1", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
