package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sla-service/internal/domain"
)

// TrackingFilter captures listing parameters for SLA trackings.
type TrackingFilter struct {
	EntityType  *string
	EntityID    *string
	SLAType     *string
	Statuses    []domain.TrackingStatus
	Priorities  []domain.Priority
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TrackingRepository encapsulates SLA tracking persistence.
type TrackingRepository interface {
	Create(ctx context.Context, tracking *domain.SLATracking) error
	Update(ctx context.Context, tracking *domain.SLATracking) error
	GetByID(ctx context.Context, id string) (*domain.SLATracking, error)
	Delete(ctx context.Context, id string) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.SLATracking, error)
	ListActive(ctx context.Context) ([]domain.SLATracking, error)
	ListWithFilter(ctx context.Context, filter TrackingFilter) ([]domain.SLATracking, error)
}

type trackingRepository struct {
	pool *pgxpool.Pool
}

// NewTrackingRepository instantiates the Postgres-backed repository.
func NewTrackingRepository(pool *pgxpool.Pool) TrackingRepository {
	return &trackingRepository{pool: pool}
}

const trackingColumns = `id, entity_type, entity_id, sla_type, description, priority, start_time,
               deadline, status, breached, completed_at, completion_millis, config, created_at, updated_at`

func (r *trackingRepository) Create(ctx context.Context, tracking *domain.SLATracking) error {
	const query = `
        INSERT INTO sla_trackings (id, entity_type, entity_id, sla_type, description, priority, start_time,
            deadline, status, breached, completed_at, completion_millis, config)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		tracking.ID,
		tracking.EntityType,
		tracking.EntityID,
		tracking.SLAType,
		tracking.Description,
		tracking.Priority,
		tracking.StartTime,
		tracking.Deadline,
		tracking.Status,
		tracking.Breached,
		tracking.CompletedAt,
		tracking.CompletionMillis,
		tracking.Config,
	).Scan(&tracking.CreatedAt, &tracking.UpdatedAt)
}

func (r *trackingRepository) Update(ctx context.Context, tracking *domain.SLATracking) error {
	const query = `
        UPDATE sla_trackings SET description=$1, priority=$2, start_time=$3, deadline=$4, status=$5,
            breached=$6, completed_at=$7, completion_millis=$8, config=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		tracking.Description,
		tracking.Priority,
		tracking.StartTime,
		tracking.Deadline,
		tracking.Status,
		tracking.Breached,
		tracking.CompletedAt,
		tracking.CompletionMillis,
		tracking.Config,
		tracking.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *trackingRepository) GetByID(ctx context.Context, id string) (*domain.SLATracking, error) {
	query := `SELECT ` + trackingColumns + ` FROM sla_trackings WHERE id=$1`
	var tracking domain.SLATracking
	if err := r.pool.QueryRow(ctx, query, id).Scan(trackingFields(&tracking)...); err != nil {
		return nil, err
	}
	return &tracking, nil
}

func (r *trackingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sla_trackings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *trackingRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]domain.SLATracking, error) {
	return r.ListWithFilter(ctx, TrackingFilter{EntityType: &entityType, EntityID: &entityID})
}

func (r *trackingRepository) ListActive(ctx context.Context) ([]domain.SLATracking, error) {
	return r.ListWithFilter(ctx, TrackingFilter{
		Statuses: []domain.TrackingStatus{domain.TrackingStatusActive},
	})
}

func (r *trackingRepository) ListWithFilter(ctx context.Context, filter TrackingFilter) ([]domain.SLATracking, error) {
	base := `SELECT ` + trackingColumns + ` FROM sla_trackings`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.EntityType != nil {
		args = append(args, *filter.EntityType)
		clauses = append(clauses, fmt.Sprintf("entity_type=$%d", len(args)))
	}
	if filter.EntityID != nil {
		args = append(args, *filter.EntityID)
		clauses = append(clauses, fmt.Sprintf("entity_id=$%d", len(args)))
	}
	if filter.SLAType != nil {
		args = append(args, *filter.SLAType)
		clauses = append(clauses, fmt.Sprintf("sla_type=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at ASC`, base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, filter.Limit)
	}
	if filter.Offset > 0 {
		query = fmt.Sprintf("%s OFFSET %d", query, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrackings(rows)
}

func scanTrackings(rows pgx.Rows) ([]domain.SLATracking, error) {
	result := []domain.SLATracking{}
	for rows.Next() {
		var tracking domain.SLATracking
		if err := rows.Scan(trackingFields(&tracking)...); err != nil {
			return nil, err
		}
		result = append(result, tracking)
	}
	return result, rows.Err()
}

func trackingFields(t *domain.SLATracking) []any {
	return []any{
		&t.ID,
		&t.EntityType,
		&t.EntityID,
		&t.SLAType,
		&t.Description,
		&t.Priority,
		&t.StartTime,
		&t.Deadline,
		&t.Status,
		&t.Breached,
		&t.CompletedAt,
		&t.CompletionMillis,
		&t.Config,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
}
