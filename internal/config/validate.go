package config

import (
	"fmt"
	"strings"
)

const minSecretLen = 16

// Validate checks business rules after loading; Load calls it.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be > 0 (got %d)", c.Server.MaxUploadBytes)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if strings.TrimSpace(c.Admin.Username) == "" {
		return fmt.Errorf("admin.username is required")
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("admin.password or admin.password_hash is required")
	}
	if len(c.Auth.JWTSecret) < minSecretLen {
		return fmt.Errorf("auth.jwt_secret must be at least %d characters (got %d)", minSecretLen, len(c.Auth.JWTSecret))
	}
	if !strings.EqualFold(c.Auth.JWTAlgorithm, "HS256") {
		return fmt.Errorf("auth.jwt_algorithm %q is not supported (only HS256)", c.Auth.JWTAlgorithm)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %v)", c.Auth.TokenTTL)
	}
	if strings.TrimSpace(c.Storage.Dir) == "" {
		return fmt.Errorf("storage.dir is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "pretty":
	default:
		return fmt.Errorf("log.format must be json, text or pretty (got %q)", c.Log.Format)
	}
	return nil
}
