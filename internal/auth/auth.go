// Package auth implements bearer-token verification and role-based
// authorization for the API. Identities are resolved by OIDC token
// verification, or synthesized from the configured dev identity when
// verification is disabled.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/solardesk/solardesk/internal/config"
	"github.com/solardesk/solardesk/pkg/handlers"
	"github.com/solardesk/solardesk/pkg/lifecycle"
)

// Role names recognized by the authorization gate.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// Identity describes the authenticated caller.
type Identity struct {
	Subject string   `json:"subject"`
	Name    string   `json:"name,omitempty"`
	Roles   []string `json:"roles"`
}

// HasRole reports whether the identity carries the given role.
func (i *Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// Authorizer answers role questions about the identity attached to a context.
// Domain systems depend on this narrow interface rather than the full System.
type Authorizer interface {
	// CanEdit reports whether the caller may modify records (editor or admin).
	CanEdit(ctx context.Context) bool
	// CanAdmin reports whether the caller holds the admin role.
	CanAdmin(ctx context.Context) bool
	// Actor returns the caller's subject for audit attribution.
	Actor(ctx context.Context) string
}

// System verifies request credentials and exposes the authorization gate.
type System interface {
	Authorizer

	// Start registers the OIDC provider discovery startup hook.
	Start(lc *lifecycle.Coordinator) error
	// Middleware resolves the request identity and stores it in the context.
	// Requests without a valid identity are rejected with 401.
	Middleware(next http.Handler) http.Handler
}

type contextKey struct{}

// IdentityFrom returns the identity stored in the context, or nil.
func IdentityFrom(ctx context.Context) *Identity {
	id, _ := ctx.Value(contextKey{}).(*Identity)
	return id
}

// WithIdentity returns a context carrying the given identity.
// Exposed for tests and internal callers.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

type system struct {
	cfg      *config.AuthConfig
	verifier *verifier
	logger   *slog.Logger
}

// New creates an auth system from the given configuration.
// When auth is enabled, OIDC provider discovery is deferred until Start.
func New(cfg *config.AuthConfig, logger *slog.Logger) System {
	s := &system{
		cfg:    cfg,
		logger: logger.With("system", "auth"),
	}

	if cfg.Enabled {
		s.verifier = newVerifier(cfg, s.logger)
	}

	return s
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	if s.verifier == nil {
		s.logger.Warn("auth disabled, requests use the dev identity",
			"subject", s.cfg.DevSubject,
			"roles", s.cfg.DevRoles,
		)
		return nil
	}
	return s.verifier.Start(lc)
}

func (s *system) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.resolve(r)
		if err != nil {
			handlers.RespondError(w, s.logger, http.StatusUnauthorized, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func (s *system) resolve(r *http.Request) (*Identity, error) {
	if s.verifier == nil {
		return &Identity{
			Subject: s.cfg.DevSubject,
			Roles:   s.cfg.DevRoles,
		}, nil
	}

	raw, err := bearerToken(r)
	if err != nil {
		return nil, err
	}

	return s.verifier.Verify(r.Context(), raw)
}

func (s *system) CanEdit(ctx context.Context) bool {
	id := IdentityFrom(ctx)
	if id == nil {
		return false
	}
	return id.HasRole(RoleEditor) || id.HasRole(RoleAdmin)
}

func (s *system) CanAdmin(ctx context.Context) bool {
	id := IdentityFrom(ctx)
	if id == nil {
		return false
	}
	return id.HasRole(RoleAdmin)
}

func (s *system) Actor(ctx context.Context) string {
	if id := IdentityFrom(ctx); id != nil {
		return id.Subject
	}
	return "unknown"
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrInvalidToken
	}

	return token, nil
}
