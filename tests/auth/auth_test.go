package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solardesk/solardesk/internal/auth"
	"github.com/solardesk/solardesk/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func devConfig(roles ...string) *config.AuthConfig {
	return &config.AuthConfig{
		Enabled:    false,
		RolesClaim: "roles",
		DevSubject: "dev@localhost",
		DevRoles:   roles,
	}
}

func identityContext(roles ...string) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{
		Subject: "user@example.com",
		Roles:   roles,
	})
}

func TestIdentityHasRole(t *testing.T) {
	id := &auth.Identity{Subject: "user@example.com", Roles: []string{auth.RoleEditor}}

	if !id.HasRole(auth.RoleEditor) {
		t.Error("should have editor role")
	}
	if id.HasRole(auth.RoleAdmin) {
		t.Error("should not have admin role")
	}
}

func TestCanEdit(t *testing.T) {
	sys := auth.New(devConfig(auth.RoleAdmin), discardLogger())

	tests := []struct {
		name string
		ctx  context.Context
		want bool
	}{
		{"editor", identityContext(auth.RoleEditor), true},
		{"admin", identityContext(auth.RoleAdmin), true},
		{"viewer", identityContext(auth.RoleViewer), false},
		{"no roles", identityContext(), false},
		{"no identity", context.Background(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sys.CanEdit(tt.ctx); got != tt.want {
				t.Errorf("CanEdit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanAdmin(t *testing.T) {
	sys := auth.New(devConfig(auth.RoleAdmin), discardLogger())

	tests := []struct {
		name string
		ctx  context.Context
		want bool
	}{
		{"admin", identityContext(auth.RoleAdmin), true},
		{"editor", identityContext(auth.RoleEditor), false},
		{"viewer", identityContext(auth.RoleViewer), false},
		{"no identity", context.Background(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sys.CanAdmin(tt.ctx); got != tt.want {
				t.Errorf("CanAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActor(t *testing.T) {
	sys := auth.New(devConfig(auth.RoleAdmin), discardLogger())

	if got := sys.Actor(identityContext(auth.RoleViewer)); got != "user@example.com" {
		t.Errorf("Actor() = %s, want user@example.com", got)
	}
	if got := sys.Actor(context.Background()); got != "unknown" {
		t.Errorf("Actor() without identity = %s, want unknown", got)
	}
}

func TestMiddlewareDevIdentity(t *testing.T) {
	sys := auth.New(devConfig(auth.RoleAdmin), discardLogger())

	var captured *auth.Identity
	handler := sys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = auth.IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/projects", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured == nil {
		t.Fatal("identity should be attached to the request context")
	}
	if captured.Subject != "dev@localhost" {
		t.Errorf("subject = %s, want dev@localhost", captured.Subject)
	}
	if !captured.HasRole(auth.RoleAdmin) {
		t.Error("dev identity should carry the configured roles")
	}
}

func TestMiddlewareEnabledRejectsMissingToken(t *testing.T) {
	cfg := &config.AuthConfig{
		Enabled:  true,
		Issuer:   "https://login.example.com",
		ClientID: "solardesk-api",
	}
	sys := auth.New(cfg, discardLogger())

	handler := sys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached without a token")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/projects", nil)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareEnabledRejectsMalformedHeader(t *testing.T) {
	cfg := &config.AuthConfig{
		Enabled:  true,
		Issuer:   "https://login.example.com",
		ClientID: "solardesk-api",
	}
	sys := auth.New(cfg, discardLogger())

	handler := sys.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached with a malformed header")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"no token", "Bearer"},
		{"empty token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/projects", nil)
			req.Header.Set("Authorization", tt.header)
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestIdentityFromEmptyContext(t *testing.T) {
	if id := auth.IdentityFrom(context.Background()); id != nil {
		t.Errorf("IdentityFrom(empty) = %v, want nil", id)
	}
}
