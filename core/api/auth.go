package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"quiz-manager/core/domain"
	"quiz-manager/core/ref"

	"go.uber.org/zap"
)

// RegisteredUser is the account record returned by the register endpoint.
type RegisteredUser struct {
	ID       ref.ID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login exchanges credentials for a token pair and stores it.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.TokenPair, error) {
	if creds.Username == "" || creds.Password == "" {
		return domain.TokenPair{}, &domain.ValidationError{Field: "credentials", Reason: "username and password are required"}
	}

	var pair domain.TokenPair
	err := c.do(ctx, request{method: http.MethodPost, path: c.cfg.LoginPath, body: creds}, &pair)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) {
			return domain.TokenPair{}, fmt.Errorf("invalid username or password: %w", domain.ErrAuth)
		}
		return domain.TokenPair{}, err
	}
	if pair.Access == "" || pair.Refresh == "" {
		return domain.TokenPair{}, fmt.Errorf("login response missing tokens: %w", domain.ErrAuth)
	}
	if err := c.tokens.Set(ctx, pair); err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to store tokens: %w", err)
	}

	c.logger.Info("Logged in", zap.String("username", creds.Username))
	return pair, nil
}

// Register creates a backend account. Field errors surface as a
// *domain.ValidationError listing the backend's messages.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (RegisteredUser, error) {
	if reg.Username == "" || reg.Password == "" {
		return RegisteredUser{}, &domain.ValidationError{Field: "registration", Reason: "username and password are required"}
	}
	if reg.Password2 != "" && reg.Password2 != reg.Password {
		return RegisteredUser{}, &domain.ValidationError{Field: "password2", Reason: "passwords do not match"}
	}

	var user RegisteredUser
	if err := c.do(ctx, request{method: http.MethodPost, path: c.cfg.RegisterPath, body: reg}, &user); err != nil {
		return RegisteredUser{}, err
	}
	return user, nil
}

// Refresh obtains a new access token using the stored refresh token.
// Any failure clears both tokens and returns an error wrapping domain.ErrAuth.
// Concurrent callers share a single refresh round trip.
func (c *Client) Refresh(ctx context.Context) error {
	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		return nil, c.refreshOnce(ctx)
	})
	return err
}

func (c *Client) refreshOnce(ctx context.Context) error {
	pair, err := c.tokens.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read tokens: %w", err)
	}
	if pair.Refresh == "" {
		_ = c.tokens.Clear(ctx)
		return fmt.Errorf("no refresh token: %w", domain.ErrAuth)
	}

	var out struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	body := map[string]string{"refresh": pair.Refresh}
	if err := c.do(ctx, request{method: http.MethodPost, path: c.cfg.RefreshPath, body: body}, &out); err != nil || out.Access == "" {
		if clearErr := c.tokens.Clear(ctx); clearErr != nil {
			c.logger.Warn("Failed to clear tokens", zap.Error(clearErr))
		}
		c.logger.Warn("Token refresh failed", zap.Error(err))
		if err == nil {
			err = errors.New("refresh response missing access token")
		}
		return fmt.Errorf("token refresh failed: %w: %w", domain.ErrAuth, err)
	}

	next := domain.TokenPair{Access: out.Access, Refresh: pair.Refresh}
	if out.Refresh != "" {
		next.Refresh = out.Refresh
	}
	return c.tokens.Set(ctx, next)
}

// EnsureSession logs in with the configured credentials when no tokens are
// stored. Without configured credentials it does nothing and the backend
// decides whether the request is allowed.
func (c *Client) EnsureSession(ctx context.Context) error {
	pair, err := c.tokens.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read tokens: %w", err)
	}
	if !pair.IsZero() || !c.cfg.HasCredentials() {
		return nil
	}
	_, err = c.Login(ctx, domain.Credentials{Username: c.cfg.Username, Password: c.cfg.Password})
	return err
}

// Logout forgets the stored tokens.
func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Clear(ctx)
}
