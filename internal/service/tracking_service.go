package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/events"
	"github.com/spec-kit/sla-service/internal/repository"
	"github.com/spec-kit/sla-service/internal/sla"
	apperrors "github.com/spec-kit/sla-service/pkg/util"
)

// TrackingService coordinates the SLA tracking lifecycle over a repository.
// The pure deadline/classification/aggregation functions live in the sla
// package; this service resolves configuration, persists state transitions
// and emits domain events.
type TrackingService struct {
	trackings  repository.TrackingRepository
	config     *ConfigService
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TrackingDependencies bundles requirements for the tracking service.
type TrackingDependencies struct {
	TrackingRepo repository.TrackingRepository
	Config       *ConfigService
	Dispatcher   events.Dispatcher
	Clock        func() time.Time
}

// CreateTrackingInput describes tracking creation payload. CustomConfig
// overrides the configured template when present.
type CreateTrackingInput struct {
	EntityType   string
	EntityID     string
	SLAType      string
	StartTime    *time.Time
	Priority     domain.Priority
	CustomConfig *domain.DurationSpec
}

// UpdateTrackingInput describes a partial overwrite. Only non-nil fields are
// applied; callers are trusted not to break their own records.
type UpdateTrackingInput struct {
	Description *string
	Priority    *domain.Priority
	Deadline    *time.Time
	Status      *domain.TrackingStatus
}

// NewTrackingService constructs the service.
func NewTrackingService(deps TrackingDependencies) *TrackingService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TrackingService{
		trackings:  deps.TrackingRepo,
		config:     deps.Config,
		dispatcher: deps.Dispatcher,
		now:        clock,
	}
}

// Create resolves the duration spec and opens a new active tracking. A
// missing spec is a hard error; silently defaulting would record a wrong
// deadline, which is worse than no tracking at all.
func (s *TrackingService) Create(ctx context.Context, input CreateTrackingInput) (*domain.SLATracking, error) {
	entityType := strings.TrimSpace(input.EntityType)
	entityID := strings.TrimSpace(input.EntityID)
	slaType := strings.TrimSpace(input.SLAType)
	if entityType == "" || entityID == "" || slaType == "" {
		return nil, apperrors.NewValidationError("entity_type, entity_id, sla_type required", nil)
	}

	spec, err := s.resolveSpec(entityType, slaType, input.CustomConfig)
	if err != nil {
		return nil, err
	}

	start := s.now()
	if input.StartTime != nil {
		start = *input.StartTime
	}
	priority := input.Priority.Normalize()

	deadline, err := sla.Deadline(start, spec, priority)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), map[string]any{
			"entity_type": entityType,
			"sla_type":    slaType,
		})
	}

	tracking := &domain.SLATracking{
		ID:          uuid.NewString(),
		EntityType:  entityType,
		EntityID:    entityID,
		SLAType:     slaType,
		Description: spec.Description,
		Priority:    priority,
		StartTime:   start,
		Deadline:    deadline,
		Status:      domain.TrackingStatusActive,
		Config:      spec,
	}

	if err := s.trackings.Create(ctx, tracking); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:       events.EventTrackingCreated,
		TrackingID: tracking.ID,
		Payload: events.TrackingCreatedPayload{
			EntityType: tracking.EntityType,
			EntityID:   tracking.EntityID,
			SLAType:    tracking.SLAType,
			Priority:   tracking.Priority,
			Deadline:   tracking.Deadline,
		},
	})
	return tracking, nil
}

// Complete performs the single terminal transition on an active tracking.
func (s *TrackingService) Complete(ctx context.Context, id string) (*domain.SLATracking, error) {
	tracking, err := s.trackings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tracking.Status != domain.TrackingStatusActive {
		return nil, apperrors.NewConflict("tracking already completed", map[string]any{
			"status": string(tracking.Status),
		})
	}

	completed := sla.Complete(*tracking, s.now())
	if err := s.trackings.Update(ctx, &completed); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:       events.EventTrackingCompleted,
		TrackingID: completed.ID,
		Payload: events.TrackingCompletedPayload{
			EntityType:       completed.EntityType,
			EntityID:         completed.EntityID,
			SLAType:          completed.SLAType,
			Breached:         completed.Breached,
			CompletedAt:      *completed.CompletedAt,
			CompletionMillis: *completed.CompletionMillis,
		},
	})
	if completed.Breached {
		s.publish(ctx, events.Event{
			Type:       events.EventSLABreached,
			TrackingID: completed.ID,
			Payload: events.SLABreachedPayload{
				EntityType:   completed.EntityType,
				EntityID:     completed.EntityID,
				SLAType:      completed.SLAType,
				Deadline:     completed.Deadline,
				OverdueHours: completed.CompletedAt.Sub(completed.Deadline).Hours(),
			},
		})
	}
	return &completed, nil
}

// Update applies a partial overwrite to a tracking.
func (s *TrackingService) Update(ctx context.Context, id string, input UpdateTrackingInput) (*domain.SLATracking, error) {
	tracking, err := s.trackings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := []string{}
	if input.Description != nil {
		tracking.Description = *input.Description
		fields = append(fields, "description")
	}
	if input.Priority != nil {
		tracking.Priority = input.Priority.Normalize()
		fields = append(fields, "priority")
	}
	if input.Deadline != nil {
		tracking.Deadline = *input.Deadline
		fields = append(fields, "deadline")
	}
	if input.Status != nil {
		tracking.Status = *input.Status
		fields = append(fields, "status")
	}
	if len(fields) == 0 {
		return tracking, nil
	}

	if err := s.trackings.Update(ctx, tracking); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:       events.EventTrackingUpdated,
		TrackingID: tracking.ID,
		Payload:    events.TrackingUpdatedPayload{Fields: fields},
	})
	return tracking, nil
}

// Delete removes a tracking entirely; there is no soft delete.
func (s *TrackingService) Delete(ctx context.Context, id string) error {
	tracking, err := s.trackings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.trackings.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:       events.EventTrackingDeleted,
		TrackingID: id,
		Payload: events.TrackingDeletedPayload{
			EntityType: tracking.EntityType,
			EntityID:   tracking.EntityID,
			SLAType:    tracking.SLAType,
		},
	})
	return nil
}

// Get fetches a tracking by id.
func (s *TrackingService) Get(ctx context.Context, id string) (*domain.SLATracking, error) {
	return s.trackings.GetByID(ctx, id)
}

// List returns trackings matching the filter.
func (s *TrackingService) List(ctx context.Context, filter repository.TrackingFilter) ([]domain.SLATracking, error) {
	return s.trackings.ListWithFilter(ctx, filter)
}

// ListByEntity returns all trackings attached to a business entity.
func (s *TrackingService) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.SLATracking, error) {
	return s.trackings.ListByEntity(ctx, entityType, entityID)
}

// ListActive returns open trackings only.
func (s *TrackingService) ListActive(ctx context.Context) ([]domain.SLATracking, error) {
	return s.trackings.ListActive(ctx)
}

// Status classifies a tracking for display. Read paths never error on
// derived values; only the lookup can fail.
func (s *TrackingService) Status(ctx context.Context, id string) (*domain.SLATracking, sla.Status, sla.Remaining, error) {
	tracking, err := s.trackings.GetByID(ctx, id)
	if err != nil {
		return nil, sla.Status{}, sla.Remaining{}, err
	}
	now := s.now()
	return tracking, sla.ClassifyTracking(tracking, now), sla.TimeRemaining(tracking.Deadline, now), nil
}

// DashboardMetrics aggregates the canonical compliance summary.
func (s *TrackingService) DashboardMetrics(ctx context.Context) (sla.Metrics, error) {
	items, err := s.trackings.ListWithFilter(ctx, repository.TrackingFilter{})
	if err != nil {
		return sla.Metrics{}, err
	}
	return sla.Report(items, s.now()), nil
}

// Violations lists every tracking that missed its deadline.
func (s *TrackingService) Violations(ctx context.Context) ([]domain.SLATracking, error) {
	items, err := s.trackings.ListWithFilter(ctx, repository.TrackingFilter{})
	if err != nil {
		return nil, err
	}
	return sla.Violations(items, s.now()), nil
}

// Approaching lists open trackings below the configured warning threshold.
func (s *TrackingService) Approaching(ctx context.Context) ([]domain.SLATracking, error) {
	items, err := s.trackings.ListWithFilter(ctx, repository.TrackingFilter{})
	if err != nil {
		return nil, err
	}
	threshold := s.config.Get().Notifications.WarningPercent
	return sla.Approaching(items, threshold, s.now()), nil
}

// Escalation computes the advisory escalation for a tracking using the
// configured ladder.
func (s *TrackingService) Escalation(ctx context.Context, id string) (*sla.Escalation, error) {
	tracking, err := s.trackings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg := s.config.Get()
	if !cfg.Escalation.Enabled {
		return nil, nil
	}
	return sla.EscalationFor(tracking, cfg.Escalation.Levels, s.now()), nil
}

func (s *TrackingService) resolveSpec(entityType, slaType string, custom *domain.DurationSpec) (domain.DurationSpec, error) {
	if custom != nil {
		if err := custom.Validate(); err != nil {
			return domain.DurationSpec{}, apperrors.NewValidationError(err.Error(), nil)
		}
		return *custom, nil
	}
	spec, ok := s.config.Get().Template(entityType, slaType)
	if !ok {
		return domain.DurationSpec{}, apperrors.NewConfigurationMissing(entityType, slaType)
	}
	return spec, nil
}

func (s *TrackingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
