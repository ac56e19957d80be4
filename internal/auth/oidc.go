package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/solardesk/solardesk/internal/config"
	"github.com/solardesk/solardesk/pkg/lifecycle"
)

// verifier wraps go-oidc provider discovery and ID token verification.
// Discovery runs as a lifecycle startup hook so a slow identity provider
// does not block service construction.
type verifier struct {
	cfg    *config.AuthConfig
	logger *slog.Logger

	mu   sync.RWMutex
	oidc *oidc.IDTokenVerifier
}

func newVerifier(cfg *config.AuthConfig, logger *slog.Logger) *verifier {
	return &verifier{
		cfg:    cfg,
		logger: logger,
	}
}

func (v *verifier) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		provider, err := oidc.NewProvider(lc.Context(), v.cfg.Issuer)
		if err != nil {
			v.logger.Error("oidc provider discovery failed", "issuer", v.cfg.Issuer, "error", err)
			return
		}

		v.mu.Lock()
		v.oidc = provider.Verifier(&oidc.Config{ClientID: v.cfg.ClientID})
		v.mu.Unlock()

		v.logger.Info("oidc provider ready", "issuer", v.cfg.Issuer)
	})

	return nil
}

// Verify checks the raw bearer token and extracts the caller identity.
func (v *verifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	v.mu.RLock()
	tokenVerifier := v.oidc
	v.mu.RUnlock()

	if tokenVerifier == nil {
		return nil, ErrNotReady
	}

	token, err := tokenVerifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims map[string]json.RawMessage
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	identity := &Identity{
		Subject: token.Subject,
		Roles:   extractRoles(claims, v.cfg.RolesClaim),
	}

	if raw, ok := claims["name"]; ok {
		json.Unmarshal(raw, &identity.Name)
	}

	return identity, nil
}

// extractRoles reads the roles claim as either a string array or a single string.
func extractRoles(claims map[string]json.RawMessage, claim string) []string {
	raw, ok := claims[claim]
	if !ok {
		return nil
	}

	var roles []string
	if err := json.Unmarshal(raw, &roles); err == nil {
		return roles
	}

	var role string
	if err := json.Unmarshal(raw, &role); err == nil && role != "" {
		return []string{role}
	}

	return nil
}
