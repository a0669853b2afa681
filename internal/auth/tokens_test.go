package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MavuriAlekhya2005/docverify/internal/config"
)

func testTokens() *Tokens {
	return NewTokens(&config.AuthConfig{
		Secret:   "0123456789abcdef0123456789abcdef",
		Issuer:   "docverify",
		TokenTTL: "30m",
	})
}

func TestIssueParse_RoundTrip(t *testing.T) {
	tokens := testTokens()
	userID := uuid.New()

	signed, expires, err := tokens.Issue(userID, "user@example.com", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expires) < 29*time.Minute {
		t.Errorf("expiry too close: %s", expires)
	}

	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID || claims.Email != "user@example.com" || claims.Role != "user" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParse_Expired(t *testing.T) {
	tokens := testTokens()

	// Issue in the past, parse in the present.
	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	signed, _, err := tokens.Issue(uuid.New(), "user@example.com", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tokens.now = time.Now
	if _, err := tokens.Parse(signed); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	signed, _, err := testTokens().Issue(uuid.New(), "user@example.com", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewTokens(&config.AuthConfig{
		Secret:   "ffffffffffffffffffffffffffffffff",
		Issuer:   "docverify",
		TokenTTL: "30m",
	})
	if _, err := other.Parse(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParse_WrongIssuer(t *testing.T) {
	issued := NewTokens(&config.AuthConfig{
		Secret:   "0123456789abcdef0123456789abcdef",
		Issuer:   "somebody-else",
		TokenTTL: "30m",
	})
	signed, _, err := issued.Issue(uuid.New(), "user@example.com", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := testTokens().Parse(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := testTokens().Parse("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"missing", "", ""},
		{"bearer", "Bearer abc123", "abc123"},
		{"case insensitive", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			if got := bearerToken(r); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	tokens := testTokens()
	logger := slog.New(slog.DiscardHandler)

	var captured Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := Require(tokens, logger)(next)

	// No credential.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without credential, got %d", rec.Code)
	}

	// Valid credential.
	userID := uuid.New()
	signed, _, err := tokens.Issue(userID, "user@example.com", "user")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.UserID != userID {
		t.Errorf("claims not attached: %+v", captured)
	}
}

func TestRequireAdmin(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireAdmin(logger)(next)

	// User role.
	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithClaims(req.Context(), Claims{Role: "user"}))
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for user role, got %d", rec.Code)
	}

	// No claims at all.
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 without claims, got %d", rec.Code)
	}

	// Admin role.
	req = httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithClaims(req.Context(), Claims{Role: RoleAdmin}))
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", rec.Code)
	}
}
