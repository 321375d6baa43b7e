package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/sla-service/internal/domain"
)

// configKey is the key-value slot holding the JSON-encoded SLAConfiguration.
const configKey = "sla:config"

// ErrConfigNotFound indicates no persisted configuration exists yet.
var ErrConfigNotFound = errors.New("sla configuration not found")

// ConfigRepository persists the SLAConfiguration as a single JSON document.
type ConfigRepository interface {
	Load(ctx context.Context) (domain.SLAConfiguration, error)
	Save(ctx context.Context, cfg domain.SLAConfiguration) error
}

type redisConfigRepository struct {
	client *redis.Client
}

// NewRedisConfigRepository stores the configuration in Redis.
func NewRedisConfigRepository(client *redis.Client) ConfigRepository {
	return &redisConfigRepository{client: client}
}

func (r *redisConfigRepository) Load(ctx context.Context) (domain.SLAConfiguration, error) {
	payload, err := r.client.Get(ctx, configKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.SLAConfiguration{}, ErrConfigNotFound
		}
		return domain.SLAConfiguration{}, err
	}
	var cfg domain.SLAConfiguration
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return domain.SLAConfiguration{}, err
	}
	return cfg, nil
}

func (r *redisConfigRepository) Save(ctx context.Context, cfg domain.SLAConfiguration) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, configKey, payload, 0).Err()
}

type memoryConfigRepository struct {
	mu  sync.RWMutex
	cfg *domain.SLAConfiguration
}

// NewMemoryConfigRepository keeps the configuration in process memory. Used
// when Redis is not configured, and by tests.
func NewMemoryConfigRepository() ConfigRepository {
	return &memoryConfigRepository{}
}

func (r *memoryConfigRepository) Load(_ context.Context) (domain.SLAConfiguration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cfg == nil {
		return domain.SLAConfiguration{}, ErrConfigNotFound
	}
	return *r.cfg, nil
}

func (r *memoryConfigRepository) Save(_ context.Context, cfg domain.SLAConfiguration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = &cfg
	return nil
}
