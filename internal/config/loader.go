package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file, applies environment
// overrides for secrets, and validates the result. It fails fast: a missing
// required value is an error at load time, not at first use.
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'satinvoices config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides secret fields from the environment. Environment values
// win over file values so deployments never have to write secrets to disk.
func (c *Config) applyEnv() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"ZOHO_CLIENT_ID", &c.Zoho.ClientID},
		{"ZOHO_CLIENT_SECRET", &c.Zoho.ClientSecret},
		{"ZOHO_REFRESH_TOKEN", &c.Zoho.RefreshToken},
		{"ZOHO_API_DOMAIN", &c.Zoho.APIDomain},
		{"ZOHO_ACCOUNT_ID", &c.Zoho.AccountID},
		{"ZOHO_FOLDER_ID", &c.Zoho.FolderID},
		{"SATINVOICES_API_KEY", &c.Server.APIKey},
		{"SATINVOICES_JWT_SECRET", &c.Auth.JWTSecret},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"zoho.client_id (or ZOHO_CLIENT_ID)", c.Zoho.ClientID},
		{"zoho.client_secret (or ZOHO_CLIENT_SECRET)", c.Zoho.ClientSecret},
		{"zoho.refresh_token (or ZOHO_REFRESH_TOKEN)", c.Zoho.RefreshToken},
		{"zoho.accounts_url", c.Zoho.AccountsURL},
		{"zoho.api_domain", c.Zoho.APIDomain},
		{"zoho.account_id", c.Zoho.AccountID},
		{"zoho.folder_id", c.Zoho.FolderID},
		{"zoho.from_address", c.Zoho.FromAddress},
		{"database.path", c.Database.Path},
		{"server.addr", c.Server.Addr},
		{"server.api_key (or SATINVOICES_API_KEY)", c.Server.APIKey},
		{"auth.jwt_secret (or SATINVOICES_JWT_SECRET)", c.Auth.JWTSecret},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	if c.Auth.AccessTokenExpireMinutes < 1 {
		errs = append(errs, errors.New("auth.access_token_expire_minutes must be at least 1"))
	}
	if c.Auth.RefreshTokenExpireMinutes < c.Auth.AccessTokenExpireMinutes {
		errs = append(errs, errors.New("auth.refresh_token_expire_minutes must not be shorter than the access token expiry"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates the directories the service writes to
func (c *Config) EnsureDirectories() error {
	dir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
