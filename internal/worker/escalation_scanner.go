package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/events"
	"github.com/spec-kit/sla-service/internal/service"
	"github.com/spec-kit/sla-service/internal/sla"
)

// EscalationScanner periodically walks active trackings and publishes breach
// and escalation events as deadlines pass. Status itself stays derived; the
// scanner only emits events, it never mutates trackings.
type EscalationScanner struct {
	trackings  *service.TrackingService
	config     *service.ConfigService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cron       *cron.Cron
	cronSpec   string

	mu        sync.Mutex
	running   bool
	lastLevel map[string]int
	breached  map[string]bool
}

// NewEscalationScanner creates the scanner.
func NewEscalationScanner(trackings *service.TrackingService, config *service.ConfigService, dispatcher events.Dispatcher, cronSpec string, logger *zap.Logger) *EscalationScanner {
	return &EscalationScanner{
		trackings:  trackings,
		config:     config,
		dispatcher: dispatcher,
		logger:     logger,
		cron:       cron.New(),
		cronSpec:   cronSpec,
		lastLevel:  make(map[string]int),
		breached:   make(map[string]bool),
	}
}

// Start begins the periodic scan schedule.
func (s *EscalationScanner) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("escalation scanner already running")
	}

	if _, err := s.cron.AddFunc(s.cronSpec, s.runScan); err != nil {
		return err
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("escalation scanner started", zap.String("cron_spec", s.cronSpec))
	return nil
}

// Stop halts the schedule and waits for an in-flight scan to finish. The
// wait happens outside the critical section: an in-flight scan needs the
// mutex for its state maps, so holding it here would deadlock.
func (s *EscalationScanner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("escalation scanner stopped")
}

func (s *EscalationScanner) runScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := s.config.Get()
	if !cfg.Enabled {
		return
	}

	active, err := s.trackings.ListActive(ctx)
	if err != nil {
		s.logger.Error("escalation scan failed", zap.Error(err))
		return
	}

	now := time.Now()
	seen := make(map[string]struct{}, len(active))
	for i := range active {
		tracking := &active[i]
		seen[tracking.ID] = struct{}{}
		s.inspect(ctx, tracking, cfg, now)
	}

	s.mu.Lock()
	for id := range s.lastLevel {
		if _, ok := seen[id]; !ok {
			delete(s.lastLevel, id)
			delete(s.breached, id)
		}
	}
	s.mu.Unlock()
}

func (s *EscalationScanner) inspect(ctx context.Context, tracking *domain.SLATracking, cfg domain.SLAConfiguration, now time.Time) {
	remaining := sla.TimeRemaining(tracking.Deadline, now)

	if remaining.Overdue && cfg.Notifications.OnBreach {
		s.mu.Lock()
		alreadyNotified := s.breached[tracking.ID]
		s.breached[tracking.ID] = true
		s.mu.Unlock()
		if !alreadyNotified {
			s.publish(ctx, events.Event{
				Type:       events.EventSLABreached,
				TrackingID: tracking.ID,
				Payload: events.SLABreachedPayload{
					EntityType:   tracking.EntityType,
					EntityID:     tracking.EntityID,
					SLAType:      tracking.SLAType,
					Deadline:     tracking.Deadline,
					OverdueHours: now.Sub(tracking.Deadline).Hours(),
				},
			})
		}
	}

	if !cfg.Escalation.Enabled {
		return
	}
	escalation := sla.EscalationFor(tracking, cfg.Escalation.Levels, now)
	if escalation == nil {
		return
	}

	s.mu.Lock()
	previous := s.lastLevel[tracking.ID]
	if escalation.Level <= previous {
		s.mu.Unlock()
		return
	}
	s.lastLevel[tracking.ID] = escalation.Level
	s.mu.Unlock()

	s.publish(ctx, events.Event{
		Type:       events.EventSLAEscalated,
		TrackingID: tracking.ID,
		Payload: events.SLAEscalatedPayload{
			EntityType:  tracking.EntityType,
			EntityID:    tracking.EntityID,
			SLAType:     tracking.SLAType,
			Level:       escalation.Level,
			Action:      escalation.Action,
			Description: escalation.Description,
			Urgent:      escalation.Urgent,
		},
	})
}

func (s *EscalationScanner) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
