package roleauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/jedalosa/energymatch/pkg/errors"
)

// Role is the active view selected on the landing page. There are no accounts
// or passwords; the shell only remembers which role is active.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// ValidRole reports whether r is a selectable role.
func ValidRole(r Role) bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// Config drives token issuance.
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// Service mints and validates role-shell tokens.
type Service interface {
	IssueToken(role Role) (string, error)
	ValidateToken(token string) (Role, error)
}

type service struct {
	cfg Config
	now func() time.Time
}

// NewService wires up the role shell token service.
func NewService(cfg Config) Service {
	return &service{cfg: cfg, now: time.Now}
}

type roleClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *service) IssueToken(role Role) (string, error) {
	if !ValidRole(role) {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "unknown role", nil)
	}
	now := s.now()
	claims := roleClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "energymatch",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeAuthError, "failed to sign role token", err)
	}
	return signed, nil
}

func (s *service) ValidateToken(token string) (Role, error) {
	parsed, err := jwt.ParseWithClaims(token, &roleClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeAuthError, "invalid role token", err)
	}
	claims, ok := parsed.Claims.(*roleClaims)
	if !ok || !ValidRole(claims.Role) {
		return "", apperrors.Wrap(apperrors.CodeAuthError, "invalid role claim", nil)
	}
	return claims.Role, nil
}
