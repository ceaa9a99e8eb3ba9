package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/skillsenselab/identity/errors"
)

func newTestService(t *testing.T, secret string) *Service {
	t.Helper()
	svc, err := NewService(Config{Secret: secret})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestIssueParse_RoundTrip(t *testing.T) {
	svc := newTestService(t, "signing-key")

	token, err := svc.Issue("anish@example.com", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected three-part token, got %d parts", len(parts))
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "anish@example.com" {
		t.Errorf("expected subject anish@example.com, got %s", claims.Subject)
	}

	iat := claims.IssuedAt.Time
	exp := claims.ExpiresAt.Time
	if got := exp.Sub(iat); got != time.Minute {
		t.Errorf("expected exp-iat of 1m, got %v", got)
	}
}

func TestParse_Expired(t *testing.T) {
	svc := newTestService(t, "signing-key")

	// A negative ttl places exp in the past at issuance.
	token, err := svc.Issue("anish@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = svc.Parse(token)
	if err == nil {
		t.Fatal("expected expiry error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeTokenExpired {
		t.Errorf("expected TOKEN_EXPIRED, got %s", appErr.Code)
	}
}

func TestParse_WrongKey(t *testing.T) {
	issuer := newTestService(t, "key-a")
	verifier := newTestService(t, "key-b")

	token, err := issuer.Issue("anish@example.com", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = verifier.Parse(token)
	if err == nil {
		t.Fatal("expected signature error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidToken {
		t.Errorf("expected INVALID_TOKEN, got %s", appErr.Code)
	}
}

func TestParse_Garbage(t *testing.T) {
	svc := newTestService(t, "signing-key")

	tests := []string{"", "garbage", "a.b", "a.b.c", "ey.ey.ey"}
	for _, token := range tests {
		t.Run(token, func(t *testing.T) {
			_, err := svc.Parse(token)
			if err == nil {
				t.Fatal("expected parse failure")
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeInvalidToken {
				t.Errorf("expected INVALID_TOKEN, got %s", appErr.Code)
			}
		})
	}
}

func TestIssue_AccessAndRefreshIndependent(t *testing.T) {
	svc := newTestService(t, "signing-key")

	access, err := svc.IssueAccess("anish@example.com")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, err := svc.IssueRefresh("anish@example.com")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if access == refresh {
		t.Error("access and refresh tokens must be distinct strings")
	}

	for _, token := range []string{access, refresh} {
		claims, err := svc.Parse(token)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if claims.Subject != "anish@example.com" {
			t.Errorf("expected same subject in both tokens, got %s", claims.Subject)
		}
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{Secret: "s"}
	cfg.ApplyDefaults()
	if cfg.Method != HS256 {
		t.Errorf("expected HS256 default, got %s", cfg.Method)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("expected 15m access ttl, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("expected 168h refresh ttl, got %v", cfg.RefreshTokenTTL)
	}
}

func TestNewService_RequiresSecret(t *testing.T) {
	if _, err := NewService(Config{}); err == nil {
		t.Error("expected error for missing secret")
	}
}
