package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/sla-service/internal/config"
	"github.com/spec-kit/sla-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Delivery is stubbed; the console only logs what would be sent.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTrackingCreated, n.handleTrackingCreated)
	n.dispatcher.Subscribe(events.EventTrackingCompleted, n.handleTrackingCompleted)
	n.dispatcher.Subscribe(events.EventSLABreached, n.handleSLABreached)
	n.dispatcher.Subscribe(events.EventSLAEscalated, n.handleSLAEscalated)
}

func (n *NotificationService) handleTrackingCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TrackingCreated", zap.String("tracking_id", event.TrackingID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTrackingCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TrackingCompleted", zap.String("tracking_id", event.TrackingID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleSLABreached(ctx context.Context, event events.Event) error {
	n.logger.Warn("SLABreached", zap.String("tracking_id", event.TrackingID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSLAEscalated(ctx context.Context, event events.Event) error {
	n.logger.Warn("SLAEscalated", zap.String("tracking_id", event.TrackingID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("tracking_id", event.TrackingID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("tracking_id", event.TrackingID),
		zap.String("event_type", string(event.Type)))
}
