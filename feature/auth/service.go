package auth

import (
	"context"
	"fmt"
	"time"

	"quiz-manager/core/api"
	"quiz-manager/core/domain"
	"quiz-manager/core/tokens"

	"go.uber.org/zap"
)

// Backend is the subset of the REST client used for the backend session.
type Backend interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.TokenPair, error)
	Register(ctx context.Context, reg domain.Registration) (api.RegisteredUser, error)
	Logout(ctx context.Context) error
	Tokens() tokens.Store
}

// Session describes the backend session held by this service.
type Session struct {
	Authenticated bool           `json:"authenticated" yaml:"authenticated"`
	Claims        *tokens.Claims `json:"claims,omitempty" yaml:"claims,omitempty"`
	Expired       bool           `json:"expired" yaml:"expired"`
}

// Service manages the backend session.
type Service struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new auth service.
func NewService(backend Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, logger: logger, now: time.Now}
}

// Login signs in to the backend and returns the new session.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (*Session, error) {
	pair, err := s.backend.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.describe(pair), nil
}

// Register creates a backend account. It does not sign in.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (api.RegisteredUser, error) {
	user, err := s.backend.Register(ctx, reg)
	if err != nil {
		return api.RegisteredUser{}, err
	}
	s.logger.Info("Registered backend account", zap.String("username", user.Username))
	return user, nil
}

// Logout forgets the stored tokens.
func (s *Service) Logout(ctx context.Context) error {
	return s.backend.Logout(ctx)
}

// WhoAmI describes the stored session. Without tokens it returns an error
// wrapping domain.ErrAuth.
func (s *Service) WhoAmI(ctx context.Context) (*Session, error) {
	pair, err := s.backend.Tokens().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokens: %w", err)
	}
	if pair.IsZero() {
		return nil, fmt.Errorf("not logged in: %w", domain.ErrAuth)
	}
	return s.describe(pair), nil
}

func (s *Service) describe(pair domain.TokenPair) *Session {
	sess := &Session{Authenticated: true}
	claims, err := tokens.Inspect(pair.Access)
	if err != nil {
		s.logger.Debug("Access token is not a readable JWT", zap.Error(err))
		return sess
	}
	sess.Claims = &claims
	sess.Expired = claims.Expired(s.now())
	return sess
}
