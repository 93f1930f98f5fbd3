// Package settings mirrors the single store_settings record.
package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/remote"
)

// Service owns the in-memory copy of the store settings.
type Service struct {
	repo   remote.SettingsRepository
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	settings *models.StoreSettings
}

// NewService wires a settings store.
func NewService(repo remote.SettingsRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Start loads the record if present and begins consuming pushed updates.
func (s *Service) Start(ctx context.Context) error {
	current, err := s.repo.GetSettings(ctx)
	if err != nil {
		var notFound *errs.ResourceNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	} else {
		s.mu.Lock()
		s.settings = &current
		s.mu.Unlock()
	}

	events, err := s.repo.SubscribeSettings(ctx)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					s.logger.Warn("settings subscription closed")
					return
				}
				if ev.Type == remote.EventDeleted {
					continue
				}
				updated := ev.Settings
				s.mu.Lock()
				s.settings = &updated
				s.mu.Unlock()
				s.logger.Debug("settings reconciled", zap.String("type", string(ev.Type)))
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Get returns the current settings snapshot.
func (s *Service) Get() (models.StoreSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return models.StoreSettings{}, false
	}
	return *s.settings, true
}

// Update applies a partial update, creating the record on first use. Admin
// only.
func (s *Service) Update(ctx context.Context, actor models.Actor, patch models.StoreSettingsPatch) error {
	if !models.Allow(actor, models.OpSettingsUpdate, "") {
		return &errs.NotAuthorizedError{Op: string(models.OpSettingsUpdate)}
	}

	s.mu.RLock()
	current := s.settings
	s.mu.RUnlock()

	if current == nil {
		initial := patch.Apply(models.StoreSettings{ID: uuid.NewString()}, actor.ID, s.now())
		return s.repo.InsertSettings(ctx, initial)
	}
	return s.repo.UpdateSettings(ctx, current.ID, patch, actor.ID, s.now())
}
