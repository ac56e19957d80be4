package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvAuthEnabled    = "SOLARDESK_AUTH_ENABLED"
	EnvAuthIssuer     = "SOLARDESK_AUTH_ISSUER"
	EnvAuthClientID   = "SOLARDESK_AUTH_CLIENT_ID"
	EnvAuthRolesClaim = "SOLARDESK_AUTH_ROLES_CLAIM"
	EnvAuthDevSubject = "SOLARDESK_AUTH_DEV_SUBJECT"
	EnvAuthDevRoles   = "SOLARDESK_AUTH_DEV_ROLES"
)

// AuthConfig holds OIDC verification settings for the API.
// When Enabled is false, requests are attributed to the configured dev
// identity instead of a verified token; intended for local development only.
type AuthConfig struct {
	Enabled    bool     `toml:"enabled"`
	Issuer     string   `toml:"issuer"`
	ClientID   string   `toml:"client_id"`
	RolesClaim string   `toml:"roles_claim"`
	DevSubject string   `toml:"dev_subject"`
	DevRoles   []string `toml:"dev_roles"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AuthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies; other fields
// only apply when non-zero.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled

	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.RolesClaim != "" {
		c.RolesClaim = overlay.RolesClaim
	}
	if overlay.DevSubject != "" {
		c.DevSubject = overlay.DevSubject
	}
	if overlay.DevRoles != nil {
		c.DevRoles = overlay.DevRoles
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.RolesClaim == "" {
		c.RolesClaim = "roles"
	}
	if c.DevSubject == "" {
		c.DevSubject = "dev@localhost"
	}
	if len(c.DevRoles) == 0 {
		c.DevRoles = []string{"admin"}
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvAuthIssuer); v != "" {
		c.Issuer = v
	}
	if v := os.Getenv(EnvAuthClientID); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv(EnvAuthRolesClaim); v != "" {
		c.RolesClaim = v
	}
	if v := os.Getenv(EnvAuthDevSubject); v != "" {
		c.DevSubject = v
	}
	if v := os.Getenv(EnvAuthDevRoles); v != "" {
		roles := strings.Split(v, ",")
		c.DevRoles = make([]string, 0, len(roles))
		for _, role := range roles {
			if trimmed := strings.TrimSpace(role); trimmed != "" {
				c.DevRoles = append(c.DevRoles, trimmed)
			}
		}
	}
}

func (c *AuthConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Issuer == "" {
		return fmt.Errorf("issuer required when auth is enabled")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required when auth is enabled")
	}
	return nil
}
