package worker

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
	"github.com/spec-kit/sla-service/internal/service"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	types := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		types = append(types, e.Type)
	}
	return types
}

func newTestScanner(dispatcher events.Dispatcher) *EscalationScanner {
	return NewEscalationScanner(nil, nil, dispatcher, "* * * * *", zap.NewNop())
}

func overdueTracking(id string) *domain.SLATracking {
	return &domain.SLATracking{
		ID:         id,
		EntityType: domain.EntityTypeLead,
		EntityID:   "lead-1",
		SLAType:    "firstResponse",
		Status:     domain.TrackingStatusActive,
		StartTime:  baseTime,
		Deadline:   baseTime.Add(time.Hour),
	}
}

func TestInspectPublishesBreachOnce(t *testing.T) {
	t.Parallel()

	dispatcher := &capturingDispatcher{}
	scanner := newTestScanner(dispatcher)
	cfg := domain.DefaultSLAConfiguration()
	cfg.Escalation.Enabled = false
	tracking := overdueTracking("t1")

	now := tracking.Deadline.Add(10 * time.Minute)
	scanner.inspect(context.Background(), tracking, cfg, now)
	scanner.inspect(context.Background(), tracking, cfg, now.Add(time.Minute))

	assert.Equal(t, []events.EventType{events.EventSLABreached}, dispatcher.types())
}

func TestInspectEscalatesOnRisingLevelOnly(t *testing.T) {
	t.Parallel()

	dispatcher := &capturingDispatcher{}
	scanner := newTestScanner(dispatcher)
	cfg := domain.DefaultSLAConfiguration()
	cfg.Notifications.OnBreach = false
	tracking := overdueTracking("t1")

	// Level 1 fires, a repeat at the same level is suppressed, level 2 fires
	// once the four hour threshold is crossed.
	scanner.inspect(context.Background(), tracking, cfg, tracking.Deadline.Add(time.Minute))
	scanner.inspect(context.Background(), tracking, cfg, tracking.Deadline.Add(2*time.Minute))
	scanner.inspect(context.Background(), tracking, cfg, tracking.Deadline.Add(5*time.Hour))

	assert.Equal(t, []events.EventType{
		events.EventSLAEscalated,
		events.EventSLAEscalated,
	}, dispatcher.types())

	levels := []int{}
	for _, e := range dispatcher.events {
		payload, ok := e.Payload.(events.SLAEscalatedPayload)
		if assert.True(t, ok) {
			levels = append(levels, payload.Level)
		}
	}
	assert.Equal(t, []int{1, 2}, levels)
}

// slowListRepository delays ListActive so a scan can be caught in flight.
type slowListRepository struct {
	repository.TrackingRepository
	delay time.Duration
}

func (r slowListRepository) ListActive(ctx context.Context) ([]domain.SLATracking, error) {
	time.Sleep(r.delay)
	return r.TrackingRepository.ListActive(ctx)
}

func TestStopReturnsWhileScanInFlight(t *testing.T) {
	repo := slowListRepository{
		TrackingRepository: repository.NewMemoryTrackingRepository(),
		delay:              2 * time.Second,
	}
	configService := service.NewConfigService(context.Background(), repository.NewMemoryConfigRepository(), nil, zap.NewNop())
	trackings := service.NewTrackingService(service.TrackingDependencies{
		TrackingRepo: repo,
		Config:       configService,
	})
	scanner := NewEscalationScanner(trackings, configService, &capturingDispatcher{}, "@every 1s", zap.NewNop())
	require.NoError(t, scanner.Start())

	// Let the first scan enter the slow listing before stopping.
	time.Sleep(1500 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		scanner.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked while a scan was in flight")
	}

	// Stopping twice is a no-op.
	scanner.Stop()
}

func TestInspectRespectsDisabledEscalation(t *testing.T) {
	t.Parallel()

	dispatcher := &capturingDispatcher{}
	scanner := newTestScanner(dispatcher)
	cfg := domain.DefaultSLAConfiguration()
	cfg.Notifications.OnBreach = false
	cfg.Escalation.Enabled = false

	scanner.inspect(context.Background(), overdueTracking("t1"), cfg, baseTime.Add(2*time.Hour))

	assert.Empty(t, dispatcher.types())
}
