package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"moviewave/internal/config"
)

func TestGetUserFromContext(t *testing.T) {
	claims := &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: "kakao_1"},
		CustomClaims:     &CustomClaims{Name: "Hana"},
	}
	ctx := context.WithValue(context.Background(), jwtmiddleware.ContextKey{}, claims)

	user, err := GetUserFromContext(ctx)
	if err != nil {
		t.Fatalf("GetUserFromContext() error = %v", err)
	}
	if user.ID != "kakao_1" || user.Name != "Hana" {
		t.Errorf("user = %+v", user)
	}

	if _, err := GetUserFromContext(context.Background()); err == nil {
		t.Error("expected error without claims")
	}
}

func TestRequireAuthDisabled(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	RequireAuth(nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies", nil))

	if !called {
		t.Error("handler not called with auth disabled")
	}
}

func TestRespondAuthError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"missing", jwtmiddleware.ErrJWTMissing, http.StatusUnauthorized, "Login required"},
		{"invalid", fmt.Errorf("%w: expired", jwtmiddleware.ErrJWTInvalid), http.StatusUnauthorized, "Invalid access token"},
		{"malformed header", fmt.Errorf("authorization header format must be Bearer {token}"), http.StatusBadRequest, "Invalid authorization header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondAuthError(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["detail"] != tt.detail {
				t.Errorf("detail = %q, want %q", body["detail"], tt.detail)
			}
		})
	}
}

func TestNewMiddlewareRequiresConfig(t *testing.T) {
	if _, err := NewMiddleware(&config.AuthConfig{Auth0Domain: "tenant.auth0.test"}); err == nil {
		t.Error("expected error without audience")
	}

	mw, err := NewMiddleware(&config.AuthConfig{Auth0Domain: "tenant.auth0.test", Auth0Audience: "moviewave"})
	if err != nil || mw == nil {
		t.Fatalf("NewMiddleware() = %v, %v", mw, err)
	}

	rec := httptest.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a token")
	})
	RequireAuth(mw)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
