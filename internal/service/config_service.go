package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/events"
	"github.com/spec-kit/sla-service/internal/repository"
	apperrors "github.com/spec-kit/sla-service/pkg/util"
)

// ConfigService owns the session-wide SLAConfiguration. It is loaded once at
// startup, served from memory, and persisted on every change. A missing or
// malformed persisted document falls back to the hardcoded defaults and is
// never fatal.
type ConfigService struct {
	mu         sync.RWMutex
	current    domain.SLAConfiguration
	store      repository.ConfigRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewConfigService loads the configuration and builds the service.
func NewConfigService(ctx context.Context, store repository.ConfigRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ConfigService {
	s := &ConfigService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
	s.current = s.load(ctx)
	return s
}

func (s *ConfigService) load(ctx context.Context) domain.SLAConfiguration {
	if s.store == nil {
		return domain.DefaultSLAConfiguration()
	}
	cfg, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrConfigNotFound) {
			s.logger.Warn("failed to load sla configuration; using defaults", zap.Error(err))
		}
		return domain.DefaultSLAConfiguration()
	}
	return cfg
}

// Get returns a copy of the current configuration.
func (s *ConfigService) Get() domain.SLAConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates, persists and installs a new configuration.
func (s *ConfigService) Update(ctx context.Context, cfg domain.SLAConfiguration) error {
	templateCount := 0
	for entityType, byType := range cfg.Templates {
		for slaType, spec := range byType {
			if err := spec.Validate(); err != nil {
				return apperrors.NewValidationError("invalid duration spec", map[string]any{
					"entity_type": entityType,
					"sla_type":    slaType,
				})
			}
			templateCount++
		}
	}

	if s.store != nil {
		if err := s.store.Save(ctx, cfg); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventConfigUpdated,
			Timestamp: time.Now(),
			Payload: events.ConfigUpdatedPayload{
				Enabled:       cfg.Enabled,
				TemplateCount: templateCount,
			},
		})
	}
	return nil
}
