package config

import "time"

// Config represents the application configuration
type Config struct {
	Zoho     ZohoConfig     `toml:"zoho"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
}

// ZohoConfig contains Zoho Mail API settings.
// ClientID, ClientSecret and RefreshToken are secrets and are normally
// supplied through the environment rather than the config file.
type ZohoConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	AccountsURL  string `toml:"accounts_url"`
	APIDomain    string `toml:"api_domain"`
	AccountID    string `toml:"account_id"`
	FolderID     string `toml:"folder_id"`
	FromAddress  string `toml:"from_address"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr string `toml:"addr"`
	// APIKey guards the admin endpoints (processing, registration).
	// Read from SATINVOICES_API_KEY when unset here.
	APIKey string `toml:"api_key"`
}

// AuthConfig contains JWT settings for accountant and company tokens
type AuthConfig struct {
	// JWTSecret is read from SATINVOICES_JWT_SECRET when unset here.
	JWTSecret                 string `toml:"jwt_secret"`
	AccessTokenExpireMinutes  int    `toml:"access_token_expire_minutes"`
	RefreshTokenExpireMinutes int    `toml:"refresh_token_expire_minutes"`
}

// AccessTokenExpiry returns the access token lifetime as a duration
func (a AuthConfig) AccessTokenExpiry() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

// RefreshTokenExpiry returns the refresh token lifetime as a duration
func (a AuthConfig) RefreshTokenExpiry() time.Duration {
	return time.Duration(a.RefreshTokenExpireMinutes) * time.Minute
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Zoho: ZohoConfig{
			AccountsURL: "https://accounts.zoho.com",
			APIDomain:   "https://mail.zoho.com/api/accounts",
		},
		Database: DatabaseConfig{
			Path: "~/.local/share/satinvoices/satinvoices.db",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Auth: AuthConfig{
			AccessTokenExpireMinutes:  30,
			RefreshTokenExpireMinutes: 4320,
		},
	}
}
