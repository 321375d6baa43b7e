package repository

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sla-service/internal/domain"
)

// memoryTrackingRepository is the in-memory fallback used when no database
// is configured, and by tests. Insertion order is preserved so listings
// match the Postgres repository's created_at ordering.
type memoryTrackingRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.SLATracking
}

// NewMemoryTrackingRepository creates the in-memory repository.
func NewMemoryTrackingRepository() TrackingRepository {
	return &memoryTrackingRepository{items: make(map[string]domain.SLATracking)}
}

func (r *memoryTrackingRepository) Create(_ context.Context, tracking *domain.SLATracking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	tracking.CreatedAt = now
	tracking.UpdatedAt = now
	r.items[tracking.ID] = *tracking
	r.order = append(r.order, tracking.ID)
	return nil
}

func (r *memoryTrackingRepository) Update(_ context.Context, tracking *domain.SLATracking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[tracking.ID]; !ok {
		return pgx.ErrNoRows
	}
	tracking.UpdatedAt = time.Now()
	r.items[tracking.ID] = *tracking
	return nil
}

func (r *memoryTrackingRepository) GetByID(_ context.Context, id string) (*domain.SLATracking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &item, nil
}

func (r *memoryTrackingRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryTrackingRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.SLATracking, error) {
	return r.ListWithFilter(ctx, TrackingFilter{EntityType: &entityType, EntityID: &entityID})
}

func (r *memoryTrackingRepository) ListActive(ctx context.Context) ([]domain.SLATracking, error) {
	return r.ListWithFilter(ctx, TrackingFilter{
		Statuses: []domain.TrackingStatus{domain.TrackingStatusActive},
	})
}

func (r *memoryTrackingRepository) ListWithFilter(_ context.Context, filter TrackingFilter) ([]domain.SLATracking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []domain.SLATracking{}
	skipped := 0
	for _, id := range r.order {
		item := r.items[id]
		if !matchesFilter(&item, filter) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		result = append(result, item)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}
	return result, nil
}

func matchesFilter(item *domain.SLATracking, filter TrackingFilter) bool {
	if filter.EntityType != nil && item.EntityType != *filter.EntityType {
		return false
	}
	if filter.EntityID != nil && item.EntityID != *filter.EntityID {
		return false
	}
	if filter.SLAType != nil && item.SLAType != *filter.SLAType {
		return false
	}
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, item.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, item.Priority) {
		return false
	}
	if filter.CreatedFrom != nil && item.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && item.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

func containsStatus(statuses []domain.TrackingStatus, status domain.TrackingStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func containsPriority(priorities []domain.Priority, priority domain.Priority) bool {
	for _, candidate := range priorities {
		if candidate == priority {
			return true
		}
	}
	return false
}
