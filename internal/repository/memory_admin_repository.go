package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sla-service/internal/domain"
)

// memoryAdminRepository backs the console when no database is configured.
type memoryAdminRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Admin
	byEmail map[string]string
}

// NewMemoryAdminRepository creates the in-memory repository.
func NewMemoryAdminRepository() AdminRepository {
	return &memoryAdminRepository{
		byID:    make(map[string]domain.Admin),
		byEmail: make(map[string]string),
	}
}

func (r *memoryAdminRepository) Create(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	r.byID[admin.ID] = *admin
	r.byEmail[admin.Email] = admin.ID
	return nil
}

func (r *memoryAdminRepository) Update(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[admin.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(r.byEmail, existing.Email)
	admin.UpdatedAt = time.Now()
	r.byID[admin.ID] = *admin
	r.byEmail[admin.Email] = admin.ID
	return nil
}

func (r *memoryAdminRepository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &admin, nil
}

func (r *memoryAdminRepository) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	admin := r.byID[id]
	return &admin, nil
}

// memoryPasswordResetRepository is the matching fallback for reset tokens.
type memoryPasswordResetRepository struct {
	mu      sync.RWMutex
	byID    map[string]PasswordResetToken
	byToken map[string]string
}

// NewMemoryPasswordResetRepository creates the in-memory repository.
func NewMemoryPasswordResetRepository() PasswordResetRepository {
	return &memoryPasswordResetRepository{
		byID:    make(map[string]PasswordResetToken),
		byToken: make(map[string]string),
	}
}

func (r *memoryPasswordResetRepository) Create(_ context.Context, token *PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	token.CreatedAt = time.Now()
	r.byID[token.ID] = *token
	r.byToken[token.Token] = token.ID
	return nil
}

func (r *memoryPasswordResetRepository) GetByToken(_ context.Context, tokenStr string) (*PasswordResetToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byToken[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	token := r.byID[id]
	return &token, nil
}

func (r *memoryPasswordResetRepository) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	token.UsedAt = &now
	r.byID[id] = token
	return nil
}
