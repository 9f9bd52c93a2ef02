package config

import (
	"os"
	"path/filepath"
	"testing"
)

// filled returns a config with every required field populated
func filled() *Config {
	cfg := Default()
	cfg.Zoho.ClientID = "client-id"
	cfg.Zoho.ClientSecret = "client-secret"
	cfg.Zoho.RefreshToken = "refresh-token"
	cfg.Zoho.AccountID = "123456789"
	cfg.Zoho.FolderID = "987654321"
	cfg.Zoho.FromAddress = "invoices@example.com.gt"
	cfg.Server.APIKey = "admin-key"
	cfg.Auth.JWTSecret = "jwt-secret"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Zoho.AccountsURL != "https://accounts.zoho.com" {
		t.Errorf("expected accounts URL default, got %s", cfg.Zoho.AccountsURL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected Addr=:8080, got %s", cfg.Server.Addr)
	}
	if cfg.Auth.AccessTokenExpireMinutes != 30 {
		t.Errorf("expected AccessTokenExpireMinutes=30, got %d", cfg.Auth.AccessTokenExpireMinutes)
	}
	if cfg.Auth.RefreshTokenExpireMinutes != 4320 {
		t.Errorf("expected RefreshTokenExpireMinutes=4320, got %d", cfg.Auth.RefreshTokenExpireMinutes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "fully populated config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "missing client id",
			modify: func(c *Config) {
				c.Zoho.ClientID = ""
			},
			wantErr: true,
		},
		{
			name: "missing refresh token",
			modify: func(c *Config) {
				c.Zoho.RefreshToken = ""
			},
			wantErr: true,
		},
		{
			name: "missing folder id",
			modify: func(c *Config) {
				c.Zoho.FolderID = ""
			},
			wantErr: true,
		},
		{
			name: "missing jwt secret",
			modify: func(c *Config) {
				c.Auth.JWTSecret = ""
			},
			wantErr: true,
		},
		{
			name: "zero access token expiry",
			modify: func(c *Config) {
				c.Auth.AccessTokenExpireMinutes = 0
			},
			wantErr: true,
		},
		{
			name: "refresh expiry shorter than access expiry",
			modify: func(c *Config) {
				c.Auth.RefreshTokenExpireMinutes = 5
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := filled()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[zoho]
account_id = "111"
folder_id = "222"
from_address = "invoices@example.com.gt"

[database]
path = "` + filepath.Join(dir, "test.db") + `"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv("ZOHO_CLIENT_ID", "env-client")
	t.Setenv("ZOHO_CLIENT_SECRET", "env-secret")
	t.Setenv("ZOHO_REFRESH_TOKEN", "env-refresh")
	t.Setenv("SATINVOICES_API_KEY", "env-api-key")
	t.Setenv("SATINVOICES_JWT_SECRET", "env-jwt")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Zoho.ClientID != "env-client" {
		t.Errorf("expected ClientID from env, got %q", cfg.Zoho.ClientID)
	}
	if cfg.Server.APIKey != "env-api-key" {
		t.Errorf("expected APIKey from env, got %q", cfg.Server.APIKey)
	}
	if cfg.Zoho.AccountID != "111" {
		t.Errorf("expected AccountID from file, got %q", cfg.Zoho.AccountID)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte("[zoho]\naccount_id = \"111\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	// Make sure ambient environment doesn't satisfy the requirements
	for _, env := range []string{
		"ZOHO_CLIENT_ID", "ZOHO_CLIENT_SECRET", "ZOHO_REFRESH_TOKEN",
		"ZOHO_FOLDER_ID", "SATINVOICES_API_KEY", "SATINVOICES_JWT_SECRET",
	} {
		t.Setenv(env, "")
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for config with missing required values")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		result, err := expandPath(tt.input)
		if err != nil {
			t.Errorf("expandPath(%q) error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
