package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/events"
	"github.com/spec-kit/sla-service/internal/repository"
	apperrors "github.com/spec-kit/sla-service/pkg/util"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	types := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		types = append(types, e.Type)
	}
	return types
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	svc        *TrackingService
	config     *ConfigService
	dispatcher *recordingDispatcher
	clock      *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{now: baseTime}
	dispatcher := &recordingDispatcher{}
	config := NewConfigService(context.Background(), repository.NewMemoryConfigRepository(), dispatcher, zap.NewNop())
	svc := NewTrackingService(TrackingDependencies{
		TrackingRepo: repository.NewMemoryTrackingRepository(),
		Config:       config,
		Dispatcher:   dispatcher,
		Clock:        clock.Now,
	})
	return &fixture{svc: svc, config: config, dispatcher: dispatcher, clock: clock}
}

func (f *fixture) create(t *testing.T, input CreateTrackingInput) *domain.SLATracking {
	t.Helper()
	tracking, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)
	return tracking
}

func TestCreateUsesConfiguredTemplate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tracking := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
	})

	assert.NotEmpty(t, tracking.ID)
	assert.Equal(t, domain.TrackingStatusActive, tracking.Status)
	assert.Equal(t, domain.PriorityMedium, tracking.Priority)
	assert.Equal(t, baseTime, tracking.StartTime)
	assert.Equal(t, baseTime.Add(2*time.Hour), tracking.Deadline)
	assert.Equal(t, "First response to new lead", tracking.Description)
	assert.Equal(t, []events.EventType{events.EventTrackingCreated}, f.dispatcher.types())
}

func TestCreateAppliesPriorityMultiplier(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tracking := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
		Priority:   domain.Priority("HIGH"),
	})

	assert.Equal(t, domain.PriorityHigh, tracking.Priority)
	assert.Equal(t, baseTime.Add(90*time.Minute), tracking.Deadline)
}

func TestCreateWithCustomConfig(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	custom := domain.MinutesSpec(30, "Quick check")
	tracking := f.create(t, CreateTrackingInput{
		EntityType:   domain.EntityTypeTask,
		EntityID:     "task-1",
		SLAType:      "custom",
		CustomConfig: &custom,
	})

	assert.Equal(t, baseTime.Add(30*time.Minute), tracking.Deadline)
	assert.Equal(t, "Quick check", tracking.Description)
}

func TestCreateRejectsInvalidCustomConfig(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	hours := 2.0
	days := 1.0
	_, err := f.svc.Create(context.Background(), CreateTrackingInput{
		EntityType:   domain.EntityTypeTask,
		EntityID:     "task-1",
		SLAType:      "custom",
		CustomConfig: &domain.DurationSpec{Hours: &hours, Days: &days},
	})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestCreateFailsWithoutConfiguration(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "nonexistent",
	})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SLA_CONFIG_MISSING", domainErr.Code)
	assert.Equal(t, "nonexistent", domainErr.Details["sla_type"])
	assert.Empty(t, f.dispatcher.types())
}

func TestCompleteWithinDeadline(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
	})
	f.clock.Advance(time.Hour)

	completed, err := f.svc.Complete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrackingStatusMet, completed.Status)
	assert.False(t, completed.Breached)
	require.NotNil(t, completed.CompletionMillis)
	assert.Equal(t, time.Hour.Milliseconds(), *completed.CompletionMillis)
	assert.Equal(t, []events.EventType{
		events.EventTrackingCreated,
		events.EventTrackingCompleted,
	}, f.dispatcher.types())
}

func TestCompletePastDeadlineBreaches(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
	})
	f.clock.Advance(3 * time.Hour)

	completed, err := f.svc.Complete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TrackingStatusBreached, completed.Status)
	assert.True(t, completed.Breached)
	assert.Equal(t, []events.EventType{
		events.EventTrackingCreated,
		events.EventTrackingCompleted,
		events.EventSLABreached,
	}, f.dispatcher.types())
}

func TestCompleteIsTerminal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
	})
	_, err := f.svc.Complete(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), created.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeCase,
		EntityID:   "case-1",
		SLAType:    "resolution",
	})

	description := "Escalated by customer"
	priority := domain.Priority("URGENT")
	updated, err := f.svc.Update(context.Background(), created.ID, UpdateTrackingInput{
		Description: &description,
		Priority:    &priority,
	})
	require.NoError(t, err)
	assert.Equal(t, description, updated.Description)
	assert.Equal(t, domain.PriorityUrgent, updated.Priority)
	// Untouched fields survive.
	assert.Equal(t, created.Deadline, updated.Deadline)
}

func TestDeleteRemovesTracking(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
	})
	require.NoError(t, f.svc.Delete(context.Background(), created.ID))

	_, err := f.svc.Get(context.Background(), created.ID)
	assert.Error(t, err)
}

func TestStatusClassifiesTracking(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
	})
	f.clock.Advance(110 * time.Minute) // ~8% of the 2h window left

	_, status, remaining, err := f.svc.Status(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "critical", string(status.Bucket))
	assert.False(t, remaining.Overdue)
	assert.Equal(t, "10m", remaining.Formatted)
}

func TestDashboardMetrics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	met := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
	})
	late := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeEmail,
		EntityID:   "email-1",
		SLAType:    "reply",
	})
	f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeCase,
		EntityID:   "case-1",
		SLAType:    "resolution",
	})

	f.clock.Advance(time.Hour)
	_, err := f.svc.Complete(context.Background(), met.ID)
	require.NoError(t, err)
	f.clock.Advance(4 * time.Hour)
	_, err = f.svc.Complete(context.Background(), late.ID)
	require.NoError(t, err)

	metrics, err := f.svc.DashboardMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, metrics.Total)
	assert.Equal(t, 2, metrics.Completed)
	assert.Equal(t, 1, metrics.Met)
	assert.Equal(t, 1, metrics.Breached)
	assert.Equal(t, 1, metrics.Active)
	assert.Equal(t, 50, metrics.ComplianceRate)
	assert.Equal(t, 50, metrics.BreachRate)
}

func TestViolationsAndApproaching(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	overdue := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeClaim,
		EntityID:   "claim-1",
		SLAType:    "acknowledgement", // 1h window
	})
	almost := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse", // 2h window
	})
	f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeCase,
		EntityID:   "case-1",
		SLAType:    "resolution", // 3d window
	})

	f.clock.Advance(100 * time.Minute)

	violations, err := f.svc.Violations(context.Background())
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, overdue.ID, violations[0].ID)

	// Default warning threshold is 25% of the window remaining.
	approaching, err := f.svc.Approaching(context.Background())
	require.NoError(t, err)
	require.Len(t, approaching, 1)
	assert.Equal(t, almost.ID, approaching[0].ID)
}

func TestEscalationUsesConfiguredLadder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	created := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
	})
	f.clock.Advance(2*time.Hour + 5*time.Hour) // five hours overdue

	escalation, err := f.svc.Escalation(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, escalation)
	assert.Equal(t, 2, escalation.Level)
	assert.Equal(t, "notify_manager", escalation.Action)
	assert.True(t, escalation.Urgent)
}

func TestEscalationDisabledReturnsNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	cfg := f.config.Get()
	cfg.Escalation.Enabled = false
	require.NoError(t, f.config.Update(context.Background(), cfg))

	created := f.create(t, CreateTrackingInput{
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
	})
	f.clock.Advance(10 * time.Hour)

	escalation, err := f.svc.Escalation(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, escalation)
}

func TestEscalationNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.Escalation(context.Background(), "missing")
	assert.Error(t, err)
}

func TestConfigUpdateRejectsInvalidTemplate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	cfg := f.config.Get()
	cfg.Templates = map[string]map[string]domain.DurationSpec{
		domain.EntityTypeLead: {"firstResponse": {}},
	}
	err := f.config.Update(context.Background(), cfg)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestConfigUpdatePersistsAndNotifies(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	cfg := f.config.Get()
	cfg.Notifications.WarningPercent = 40
	require.NoError(t, f.config.Update(context.Background(), cfg))

	assert.Equal(t, 40.0, f.config.Get().Notifications.WarningPercent)
	assert.Equal(t, []events.EventType{events.EventConfigUpdated}, f.dispatcher.types())
}
