package settings_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/solardesk/solardesk/internal/auth"
	"github.com/solardesk/solardesk/internal/config"
	"github.com/solardesk/solardesk/internal/settings"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func identityContext(roles ...string) context.Context {
	return auth.WithIdentity(context.Background(), &auth.Identity{
		Subject: "user@example.com",
		Roles:   roles,
	})
}

// The role gate fires before any database access, so a nil DB is safe
// for paths that never reach it.
func newGatedSystem() settings.System {
	authz := auth.New(&config.AuthConfig{
		Enabled:    false,
		RolesClaim: "roles",
		DevSubject: "dev@localhost",
	}, discardLogger())
	return settings.New(nil, authz, discardLogger())
}

func TestSaveScannerRequiresEditor(t *testing.T) {
	sys := newGatedSystem()

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"viewer", identityContext(auth.RoleViewer)},
		{"no roles", identityContext()},
		{"no identity", context.Background()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sys.SaveScanner(tt.ctx, settings.DefaultScanner())
			if !errors.Is(err, settings.ErrForbidden) {
				t.Errorf("err = %v, want ErrForbidden", err)
			}
		})
	}
}

func TestResetScannerRequiresEditor(t *testing.T) {
	sys := newGatedSystem()

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"viewer", identityContext(auth.RoleViewer)},
		{"no identity", context.Background()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sys.ResetScanner(tt.ctx)
			if !errors.Is(err, settings.ErrForbidden) {
				t.Errorf("err = %v, want ErrForbidden", err)
			}
		})
	}
}

func TestSaveScannerValidatesAfterGate(t *testing.T) {
	sys := newGatedSystem()

	bad := settings.DefaultScanner()
	bad.MinNameSimilarity = 500

	_, err := sys.SaveScanner(identityContext(auth.RoleEditor), bad)

	var ve *settings.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %T, want *ValidationError", err)
	}
	if ve.Field != "min_name_similarity" {
		t.Errorf("field = %s, want min_name_similarity", ve.Field)
	}
}
