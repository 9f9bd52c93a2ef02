package zoho

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// defaultTokenLifetime is used when the token response omits expires_in
	defaultTokenLifetime = 3600 * time.Second

	// expirySafetyMargin is subtracted from the initial expiry so the first
	// wrapper call always refreshes before using the token.
	expirySafetyMargin = 5 * time.Second
)

// Credentials are the long-lived Zoho OAuth credentials. Immutable for the
// lifetime of the process.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// TokenManager holds the current bearer token and its expiry and refreshes
// it lazily through the Zoho accounts endpoint. It assumes sequential
// callers; concurrent use would need external synchronization.
type TokenManager struct {
	creds       Credentials
	accountsURL string
	httpClient  *http.Client
	logger      *slog.Logger

	// now is injectable so expiry behavior is testable
	now func() time.Time

	// token state, mutated only by refresh
	accessToken string
	expiry      time.Time
}

// NewTokenManager creates a token manager whose first EnsureValid call
// triggers a refresh: the initial expiry is set strictly in the past.
func NewTokenManager(creds Credentials, accountsURL string, logger *slog.Logger) *TokenManager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &TokenManager{
		creds:       creds,
		accountsURL: strings.TrimSuffix(accountsURL, "/"),
		httpClient:  &http.Client{Timeout: 50 * time.Second},
		logger:      logger,
		now:         time.Now,
	}
	m.expiry = m.now().Add(-expirySafetyMargin)
	return m
}

// expired reports whether the stored token can no longer be used.
// A token is usable only while its expiry is strictly in the future.
func (m *TokenManager) expired() bool {
	return !m.now().Before(m.expiry)
}

// EnsureValid returns a bearer token whose expiry is in the future,
// refreshing first when needed. It performs no network call while the
// current token is valid.
func (m *TokenManager) EnsureValid(ctx context.Context) (string, error) {
	if m.expired() {
		if err := m.refresh(ctx); err != nil {
			return "", err
		}
	}
	return m.accessToken, nil
}

// tokenResponse is the accounts endpoint's token-exchange payload
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// refresh exchanges the refresh token for a new access token. On failure
// the previous token and expiry are left untouched.
func (m *TokenManager) refresh(ctx context.Context) error {
	params := url.Values{
		"refresh_token": {m.creds.RefreshToken},
		"client_id":     {m.creds.ClientID},
		"client_secret": {m.creds.ClientSecret},
		"grant_type":    {"refresh_token"},
	}
	tokenURL := m.accountsURL + "/oauth/v2/token?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, nil)
	if err != nil {
		return transportError(ErrTokenRefresh, err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.logger.Error("failed to refresh access token", "error", err)
		return transportError(ErrTokenRefresh, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		m.logger.Error("failed to refresh access token", "status", resp.StatusCode, "body", string(body))
		return statusError(ErrTokenRefresh, resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		m.logger.Error("failed to decode token response", "error", err)
		return transportError(ErrTokenRefresh, err)
	}
	if token.AccessToken == "" {
		m.logger.Error("token response missing access_token", "body", string(body))
		return statusError(ErrTokenRefresh, resp.StatusCode, "missing access_token in response")
	}

	lifetime := defaultTokenLifetime
	if token.ExpiresIn > 0 {
		lifetime = time.Duration(token.ExpiresIn) * time.Second
	}

	m.accessToken = token.AccessToken
	m.expiry = m.now().Add(lifetime)
	m.logger.Info("refreshed Zoho access token", "expires_in", lifetime.String())
	return nil
}
