// Package profiles manages actor accounts. Admins manage everyone;
// employees may edit only their own profile and password.
package profiles

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

// Service performs role-gated profile management against the remote store.
// Profiles are read on demand rather than mirrored; the collection is tiny
// and has no push subscription.
type Service struct {
	repo   remote.ProfilesRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a profile service.
func NewService(repo remote.ProfilesRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// List returns every profile, admins first.
func (s *Service) List(ctx context.Context) ([]models.Profile, error) {
	return s.repo.ListProfiles(ctx)
}

// Create registers a new account. Admin only.
func (s *Service) Create(ctx context.Context, actor models.Actor, email, password, name string, role models.Role) (models.Profile, error) {
	if !models.Allow(actor, models.OpProfileCreate, "") {
		return models.Profile{}, &errs.NotAuthorizedError{Op: string(models.OpProfileCreate)}
	}

	switch {
	case strings.TrimSpace(email) == "":
		return models.Profile{}, &errs.ValidationError{Field: "email", Constraint: "must not be empty"}
	case len(password) < 8:
		return models.Profile{}, &errs.ValidationError{Field: "password", Constraint: "must be at least 8 characters"}
	case strings.TrimSpace(name) == "":
		return models.Profile{}, &errs.ValidationError{Field: "name", Constraint: "must not be empty"}
	case !models.ValidRole(role):
		return models.Profile{}, &errs.ValidationError{Field: "role", Constraint: "must be admin or employee"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Profile{}, err
	}

	profile := models.Profile{
		ID:           uuid.NewString(),
		Role:         role,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	if err := s.repo.InsertProfile(ctx, profile); err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// Update applies a partial update. Admins may edit anyone; employees only
// themselves, and never their own role.
func (s *Service) Update(ctx context.Context, actor models.Actor, id string, patch models.ProfilePatch) error {
	if !models.Allow(actor, models.OpProfileUpdate, id) {
		return &errs.NotAuthorizedError{Op: string(models.OpProfileUpdate)}
	}
	if actor.Role != models.RoleAdmin && patch.Role != nil {
		return &errs.NotAuthorizedError{Op: string(models.OpProfileUpdate)}
	}
	if patch.Role != nil && !models.ValidRole(*patch.Role) {
		return &errs.ValidationError{Field: "role", Constraint: "must be admin or employee"}
	}

	return s.repo.UpdateProfile(ctx, id, patch)
}

// Delete removes an account. Admin only, and never the admin's own.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id string) error {
	if !models.Allow(actor, models.OpProfileDelete, id) {
		return &errs.NotAuthorizedError{Op: string(models.OpProfileDelete)}
	}
	return s.repo.DeleteProfile(ctx, id)
}

// ChangePassword replaces a profile's credential. Admins may reset anyone's;
// employees only their own.
func (s *Service) ChangePassword(ctx context.Context, actor models.Actor, id, newPassword string) error {
	if !models.Allow(actor, models.OpPasswordChange, id) {
		return &errs.NotAuthorizedError{Op: string(models.OpPasswordChange)}
	}
	if len(newPassword) < 8 {
		return &errs.ValidationError{Field: "password", Constraint: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, id, string(hash))
}
