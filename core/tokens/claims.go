package tokens

import (
	"fmt"
	"time"

	"quiz-manager/core/ref"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of access token claims surfaced to logs and the CLI.
type Claims struct {
	Subject   string    `json:"subject" yaml:"subject"`
	Username  string    `json:"username,omitempty" yaml:"username,omitempty"`
	UserID    string    `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

// Expired reports whether the token has expired at now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

type accessClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	UserID   any    `json:"user_id,omitempty"`
}

// Inspect decodes the claims of an access token without verifying its
// signature. The backend owns the signing key; the result is informational.
func Inspect(access string) (Claims, error) {
	var claims accessClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(access, &claims); err != nil {
		return Claims{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	out := Claims{
		Subject:  claims.Subject,
		Username: claims.Username,
	}
	if id, ok := ref.Key(claims.UserID); ok {
		out.UserID = id
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
