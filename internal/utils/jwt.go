// Package utils provides helpers for token creation and password hashing.
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mayastay/booking-api/internal/model"
)

// Claims are the access-token claims.  Besides the registered subject and
// expiry, the token carries the role plus the email and full name that
// were verified against the users table at issuance.  Handlers therefore
// never need a database round-trip to render the acting user, and never
// fabricate placeholder profile fields.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// AccessToken is a signed JWT along with its expiry.
type AccessToken struct {
	Token string    // serialized JWT
	Exp   time.Time // UTC expiration time
}

// RefreshToken is a long-lived opaque token used to obtain new access
// tokens.  Only a SHA-256 hash of Raw is ever stored.
type RefreshToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// TokenIssuer signs and verifies tokens with a secret injected at
// construction.  The secret is configuration, not something read from the
// process environment per call.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer builds a TokenIssuer.  accessTTLMin is in minutes,
// refreshTTLDays in days, mirroring the configuration variables.
func NewTokenIssuer(secret string, accessTTLMin, refreshTTLDays int) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMin) * time.Minute,
		refreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// NewAccessToken builds and signs an HS256 JWT for a user.
func (ti *TokenIssuer) NewAccessToken(u model.User) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ti.accessTTL)
	claims := Claims{
		Role:  string(u.Role),
		Email: u.Email,
		Name:  u.FullName(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(u.ID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParsePrincipal validates a raw access token and reconstructs the
// request principal from its claims.
func (ti *TokenIssuer) ParsePrincipal(raw string) (model.Principal, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Method.Alg())
		}
		return ti.secret, nil
	})
	if err != nil || !tok.Valid {
		return model.Principal{}, errors.New("invalid token")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return model.Principal{}, errors.New("invalid subject")
	}
	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return model.Principal{}, errors.New("unknown role")
	}
	return model.Principal{ID: id, Email: claims.Email, Name: claims.Name, Role: role}, nil
}

// NewRefreshToken returns a cryptographically random opaque token and its
// expiry.
func (ti *TokenIssuer) NewRefreshToken() (RefreshToken, error) {
	raw, err := randomHex(48) // 48 bytes -> 96 hex chars
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Raw: raw, Exp: time.Now().UTC().Add(ti.refreshTTL)}, nil
}

// HashRefreshRaw returns the SHA-256 hash of a raw refresh token as hex.
// Storing only the hash keeps stolen database rows from refreshing
// sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
