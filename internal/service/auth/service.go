package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/pkg/auth"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserExists         = "This user already exists"
	MsgUserRegistered     = "User registered successfully"
)

type Service struct {
	credentials repository.CredentialRepository
	hasher      security.PasswordHasher
	jwtSvc      auth.JWTService
}

func NewService(credentials repository.CredentialRepository, hasher security.PasswordHasher, jwtSvc auth.JWTService) *Service {
	return &Service{
		credentials: credentials,
		hasher:      hasher,
		jwtSvc:      jwtSvc,
	}
}

func invalidCredentials() error {
	return &apperrors.AppError{
		Code:    apperrors.ErrUnauthorized,
		Message: MsgInvalidCredentials,
		Err:     ErrInvalidCredentials,
	}
}

// Login checks the password against the stored hash. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, userID, password string) (*model.Credential, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return nil, invalidCredentials()
	}

	cred, err := s.credentials.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, service.FromRepository("credential", "look up credentials", err)
	}

	if err := s.hasher.Compare(cred.PasswordHash, password); err != nil {
		log.Warn().Str("user_id", userID).Msg("login rejected")
		return nil, invalidCredentials()
	}
	return cred, nil
}

// Signup stores a credential whose role follows from the user id prefix.
func (s *Service) Signup(ctx context.Context, userID, password string) error {
	userID = strings.TrimSpace(userID)
	role, ok := model.RoleFromUserID(userID)
	if !ok {
		return apperrors.BadRequest("username must start with a, p, d or r", nil)
	}

	if _, err := s.credentials.Get(ctx, userID); err == nil {
		return apperrors.Conflict(MsgUserExists, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return service.FromRepository("credential", "look up credentials", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) {
			return apperrors.BadRequest("password is too short", err)
		}
		return apperrors.NewInternal("failed to hash password", err)
	}

	cred := &model.Credential{UserID: userID, PasswordHash: hash, Role: role}
	if err := s.credentials.Create(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return apperrors.Conflict(MsgUserExists, err)
		}
		return service.FromRepository("credential", "register user", err)
	}

	log.Info().Str("user_id", userID).Str("role", string(role)).Msg("user registered")
	return nil
}

// IssueToken logs the user in and signs an access token for them.
func (s *Service) IssueToken(ctx context.Context, userID, password string) (*model.TokenResponse, error) {
	cred, err := s.Login(ctx, userID, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwtSvc.Generate(cred.UserID, string(cred.Role))
	if err != nil {
		return nil, apperrors.NewInternal("failed to generate token", err)
	}

	return &model.TokenResponse{
		Token:     token,
		Username:  cred.UserID,
		Role:      cred.Role,
		ExpiresAt: expiresAt.UTC().Truncate(time.Second),
	}, nil
}

func (s *Service) ValidateToken(token string) (*auth.Claims, error) {
	claims, err := s.jwtSvc.Validate(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}

// Logout revokes the token until it would have expired.
func (s *Service) Logout(token string) error {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return err
	}
	s.jwtSvc.Revoke(claims)
	log.Info().Str("user_id", claims.Username).Msg("token revoked")
	return nil
}
