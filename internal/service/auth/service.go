// Package auth implements sign-in against the profiles collection and
// bearer-token session management with expiry.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

// Session is an issued bearer token with its actor and deadline.
type Session struct {
	Token     string       `json:"token"`
	Actor     models.Actor `json:"actor"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Service issues and resolves sessions.
type Service struct {
	repo   remote.ProfilesRepository
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]Session
}

// NewService wires the auth service.
func NewService(repo remote.ProfilesRepository, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
}

// SignIn verifies the credentials and issues a session token. Credential
// failures are indistinguishable between unknown email and wrong password.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	profile, err := s.repo.FindProfileByEmail(ctx, email)
	if err != nil {
		var notFound *errs.ResourceNotFoundError
		if errors.As(err, &notFound) {
			return Session{}, errs.ErrInvalidCredentials
		}
		return Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return Session{}, errs.ErrInvalidCredentials
	}

	session := Session{
		Token: uuid.NewString(),
		Actor: models.Actor{
			ID:   profile.ID,
			Role: profile.Role,
			Name: profile.Name,
		},
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.logger.Info("signed in", zap.String("profile_id", profile.ID), zap.String("role", string(profile.Role)))
	return session, nil
}

// Resolve returns the actor for a token. An expired token is removed (the
// forced sign-out) and reported as SessionExpiredError; an unknown token as
// ErrNotAuthenticated.
func (s *Service) Resolve(token string) (models.Actor, error) {
	if token == "" {
		return models.Actor{}, errs.ErrNotAuthenticated
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return models.Actor{}, errs.ErrNotAuthenticated
	}
	if s.now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		s.logger.Info("session expired", zap.String("profile_id", session.Actor.ID))
		return models.Actor{}, &errs.SessionExpiredError{}
	}

	return session.Actor, nil
}

// Refresh extends a live session's deadline and returns the updated session.
// Expired sessions cannot be refreshed.
func (s *Service) Refresh(token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return Session{}, errs.ErrNotAuthenticated
	}
	if s.now().After(session.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, &errs.SessionExpiredError{}
	}

	session.ExpiresAt = s.now().Add(s.ttl)
	s.sessions[token] = session
	return session, nil
}

// SignOut removes the session. Unknown tokens are a no-op.
func (s *Service) SignOut(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
