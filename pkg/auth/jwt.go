package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims carried by access tokens.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type JWTService interface {
	Generate(username, role string) (token string, expiresAt time.Time, err error)
	Validate(token string) (*Claims, error)
	Revoke(claims *Claims)
}

type Config struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

type jwtService struct {
	secret  []byte
	issuer  string
	expiry  time.Duration
	revoked *RevocationList
	now     func() time.Time
}

func NewJWTService(cfg Config, revoked *RevocationList) JWTService {
	if cfg.Expiry <= 0 {
		cfg.Expiry = 24 * time.Hour
	}
	if revoked == nil {
		revoked = NewRevocationList(time.Minute)
	}
	return &jwtService{
		secret:  []byte(cfg.Secret),
		issuer:  cfg.Issuer,
		expiry:  cfg.Expiry,
		revoked: revoked,
		now:     time.Now,
	}
}

func (s *jwtService) Generate(username, role string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.expiry)

	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *jwtService) Validate(token string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if s.revoked.IsRevoked(claims.ID) {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

func (s *jwtService) Revoke(claims *Claims) {
	if claims == nil || claims.ExpiresAt == nil {
		return
	}
	s.revoked.Revoke(claims.ID, claims.ExpiresAt.Time)
}
