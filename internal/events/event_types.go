package events

import (
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTrackingCreated   EventType = "tracking_created"
	EventTrackingCompleted EventType = "tracking_completed"
	EventTrackingUpdated   EventType = "tracking_updated"
	EventTrackingDeleted   EventType = "tracking_deleted"
	EventSLABreached       EventType = "sla_breached"
	EventSLAEscalated      EventType = "sla_escalated"
	EventConfigUpdated     EventType = "sla_config_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TrackingID string      `json:"tracking_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// TrackingCreatedPayload payload.
type TrackingCreatedPayload struct {
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	SLAType    string          `json:"sla_type"`
	Priority   domain.Priority `json:"priority"`
	Deadline   time.Time       `json:"deadline"`
}

// TrackingCompletedPayload payload.
type TrackingCompletedPayload struct {
	EntityType       string    `json:"entity_type"`
	EntityID         string    `json:"entity_id"`
	SLAType          string    `json:"sla_type"`
	Breached         bool      `json:"breached"`
	CompletedAt      time.Time `json:"completed_at"`
	CompletionMillis int64     `json:"completion_millis"`
}

// TrackingUpdatedPayload payload.
type TrackingUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// TrackingDeletedPayload payload.
type TrackingDeletedPayload struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	SLAType    string `json:"sla_type"`
}

// SLABreachedPayload payload.
type SLABreachedPayload struct {
	EntityType   string    `json:"entity_type"`
	EntityID     string    `json:"entity_id"`
	SLAType      string    `json:"sla_type"`
	Deadline     time.Time `json:"deadline"`
	OverdueHours float64   `json:"overdue_hours"`
}

// SLAEscalatedPayload payload.
type SLAEscalatedPayload struct {
	EntityType  string `json:"entity_type"`
	EntityID    string `json:"entity_id"`
	SLAType     string `json:"sla_type"`
	Level       int    `json:"level"`
	Action      string `json:"action"`
	Description string `json:"description"`
	Urgent      bool   `json:"urgent"`
}

// ConfigUpdatedPayload payload.
type ConfigUpdatedPayload struct {
	Enabled       bool `json:"enabled"`
	TemplateCount int  `json:"template_count"`
}
