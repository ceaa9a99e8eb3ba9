// Package jwt issues and validates the signed bearer tokens that prove a
// prior successful authentication.
//
// Tokens carry {sub, iat, exp} and nothing else; they are never persisted
// server-side and there is no revocation list, so a token stays valid
// until its embedded expiry.
// A login issues two tokens through two independent calls: a short-lived
// access token and a longer-lived refresh token, same subject, same key.
package jwt

import (
	stderrors "errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/skillsenselab/identity/errors"
)

// Claims is the token payload: subject plus the standard time claims.
type Claims struct {
	gojwt.RegisteredClaims
}

// Service signs and verifies tokens with a process-wide symmetric key.
// The key is immutable after construction and safe for concurrent use.
type Service struct {
	cfg Config
}

// NewService creates a token service from validated config.
func NewService(cfg Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return &Service{cfg: cfg}, nil
}

// Issue creates a signed token for subject with iat=now and exp=now+ttl.
// A signing failure is unexpected (key handling broke) and surfaces as a
// plain error the caller treats as internal.
func (s *Service) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// IssueAccess creates a signed access token using the configured access TTL.
func (s *Service) IssueAccess(subject string) (string, error) {
	return s.Issue(subject, s.cfg.AccessTokenTTL)
}

// IssueRefresh creates a signed refresh token using the configured refresh TTL.
func (s *Service) IssueRefresh(subject string) (string, error) {
	return s.Issue(subject, s.cfg.RefreshTokenTTL)
}

// Parse validates a token string and returns its claims. Failures map to
// the service error taxonomy: a lapsed expiry yields TOKEN_EXPIRED, any
// other structural or signature problem yields INVALID_TOKEN.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
	)
	if err != nil {
		if stderrors.Is(err, gojwt.ErrTokenExpired) {
			return nil, errors.TokenExpired().WithCause(err)
		}
		return nil, errors.InvalidToken().WithCause(err)
	}
	if !token.Valid {
		return nil, errors.InvalidToken()
	}
	return claims, nil
}

// keyFunc is the jwt.Keyfunc used during token parsing.
func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	expected := s.cfg.signingMethod()
	if token.Method.Alg() != expected.Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}
