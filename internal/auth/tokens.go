package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject kinds carried in token claims
const (
	KindAccountant = "accountant"
	KindCompany    = "company"
)

// Token uses, distinguishing access from refresh tokens
const (
	useAccess  = "access"
	useRefresh = "refresh"
)

// ErrInvalidToken covers expired, malformed and mis-signed tokens
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims are the JWT claims for both token uses
type Claims struct {
	Kind string `json:"kind"`
	Use  string `json:"use"`
	jwt.RegisteredClaims
}

// TokenPair is the issued credential set returned to API clients
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Tokens issues and verifies HS256-signed JWTs
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokens creates a token service with the given signing secret and
// access/refresh lifetimes.
func NewTokens(secret string, accessTTL, refreshTTL time.Duration) *Tokens {
	return &Tokens{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair issues an access and refresh token pair for one subject
func (t *Tokens) IssuePair(subjectID, kind string) (*TokenPair, error) {
	access, err := t.sign(subjectID, kind, useAccess, t.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := t.sign(subjectID, kind, useRefresh, t.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(t.accessTTL.Seconds()),
		TokenType:    "bearer",
	}, nil
}

func (t *Tokens) sign(subjectID, kind, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Kind: kind,
		Use:  use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) parse(token, wantUse string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Use != wantUse || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccess verifies an access token and returns its claims
func (t *Tokens) ParseAccess(token string) (*Claims, error) {
	return t.parse(token, useAccess)
}

// ParseRefresh verifies a refresh token and returns its claims
func (t *Tokens) ParseRefresh(token string) (*Claims, error) {
	return t.parse(token, useRefresh)
}
