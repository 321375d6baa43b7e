package dto

import (
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/sla"
)

// CreateTrackingRequest payload.
type CreateTrackingRequest struct {
	EntityType   string               `json:"entity_type"`
	EntityID     string               `json:"entity_id"`
	SLAType      string               `json:"sla_type"`
	StartTime    *time.Time           `json:"start_time,omitempty"`
	Priority     domain.Priority      `json:"priority,omitempty"`
	CustomConfig *domain.DurationSpec `json:"custom_config,omitempty"`
}

// UpdateTrackingRequest payload; only provided fields are applied.
type UpdateTrackingRequest struct {
	Description *string                `json:"description,omitempty"`
	Priority    *domain.Priority       `json:"priority,omitempty"`
	Deadline    *time.Time             `json:"deadline,omitempty"`
	Status      *domain.TrackingStatus `json:"status,omitempty"`
}

// TrackingResponse represents a tracking record.
type TrackingResponse struct {
	ID               string                `json:"id"`
	EntityType       string                `json:"entity_type"`
	EntityID         string                `json:"entity_id"`
	SLAType          string                `json:"sla_type"`
	Description      string                `json:"description"`
	Priority         domain.Priority       `json:"priority"`
	StartTime        time.Time             `json:"start_time"`
	Deadline         time.Time             `json:"deadline"`
	Status           domain.TrackingStatus `json:"status"`
	Breached         bool                  `json:"breached"`
	CompletedAt      *time.Time            `json:"completed_at"`
	CompletionMillis *int64                `json:"completion_millis,omitempty"`
	Config           domain.DurationSpec   `json:"config"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// TrackingStatusResponse bundles the classification for display layers.
type TrackingStatusResponse struct {
	Tracking  TrackingResponse  `json:"tracking"`
	Bucket    string            `json:"bucket"`
	Severity  string            `json:"severity"`
	Color     string            `json:"color"`
	Label     string            `json:"label"`
	Remaining RemainingResponse `json:"remaining"`
}

// RemainingResponse mirrors sla.Remaining for chips and progress bars.
type RemainingResponse struct {
	Overdue      bool   `json:"overdue"`
	Milliseconds int64  `json:"milliseconds"`
	Days         int    `json:"days"`
	Hours        int    `json:"hours"`
	Minutes      int    `json:"minutes"`
	Formatted    string `json:"formatted"`
}

// NewTrackingResponse maps a domain record.
func NewTrackingResponse(t *domain.SLATracking) TrackingResponse {
	return TrackingResponse{
		ID:               t.ID,
		EntityType:       t.EntityType,
		EntityID:         t.EntityID,
		SLAType:          t.SLAType,
		Description:      t.Description,
		Priority:         t.Priority,
		StartTime:        t.StartTime,
		Deadline:         t.Deadline,
		Status:           t.Status,
		Breached:         t.Breached,
		CompletedAt:      t.CompletedAt,
		CompletionMillis: t.CompletionMillis,
		Config:           t.Config,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// NewTrackingStatusResponse maps a classified tracking.
func NewTrackingStatusResponse(t *domain.SLATracking, status sla.Status, remaining sla.Remaining) TrackingStatusResponse {
	return TrackingStatusResponse{
		Tracking: NewTrackingResponse(t),
		Bucket:   string(status.Bucket),
		Severity: status.Severity,
		Color:    status.Color,
		Label:    status.Label,
		Remaining: RemainingResponse{
			Overdue:      remaining.Overdue,
			Milliseconds: remaining.Milliseconds,
			Days:         remaining.Days,
			Hours:        remaining.Hours,
			Minutes:      remaining.Minutes,
			Formatted:    remaining.Formatted,
		},
	}
}
