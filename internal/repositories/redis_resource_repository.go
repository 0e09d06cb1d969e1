package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"support-navigator/internal/models"
)

const (
	resourceKeyPrefix = "crisis:resource:"
	resourceIndexKey  = "crisis:resources:index"
)

// RedisResourceRepository stores the crisis resource directory in Redis
// so operators can update it without a redeploy
type RedisResourceRepository struct {
	client *redis.Client
}

// NewRedisResourceRepository creates a new Redis-backed resource repository
func NewRedisResourceRepository(client *redis.Client) *RedisResourceRepository {
	return &RedisResourceRepository{
		client: client,
	}
}

// List returns all resources ordered by ascending priority
func (r *RedisResourceRepository) List(ctx context.Context) ([]models.CrisisResource, error) {
	names, err := r.client.SMembers(ctx, resourceIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read resource index: %w", err)
	}

	resources := make([]models.CrisisResource, 0, len(names))
	for _, name := range names {
		data, err := r.client.Get(ctx, resourceKeyPrefix+name).Result()
		if err == redis.Nil {
			// Index entry without a record; skip rather than fail the read
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read resource %q: %w", name, err)
		}

		var resource models.CrisisResource
		if err := json.Unmarshal([]byte(data), &resource); err != nil {
			return nil, fmt.Errorf("failed to decode resource %q: %w", name, err)
		}
		resources = append(resources, resource)
	}

	sort.SliceStable(resources, func(i, j int) bool {
		if resources[i].Priority != resources[j].Priority {
			return resources[i].Priority < resources[j].Priority
		}
		return resources[i].Name < resources[j].Name
	})

	return resources, nil
}

// ResourcesForSeverity returns the directory for any detected tier. All
// tiers receive the full priority-ordered directory; severity none gets
// nothing.
func (r *RedisResourceRepository) ResourcesForSeverity(ctx context.Context, severity models.Severity) ([]models.CrisisResource, error) {
	if severity == models.SeverityNone {
		return []models.CrisisResource{}, nil
	}
	return r.List(ctx)
}

// Seed replaces the stored directory atomically
func (r *RedisResourceRepository) Seed(ctx context.Context, resources []models.CrisisResource) error {
	existing, err := r.client.SMembers(ctx, resourceIndexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to read resource index: %w", err)
	}

	pipe := r.client.TxPipeline()

	for _, name := range existing {
		pipe.Del(ctx, resourceKeyPrefix+name)
	}
	pipe.Del(ctx, resourceIndexKey)

	for _, resource := range resources {
		data, err := json.Marshal(resource)
		if err != nil {
			return fmt.Errorf("failed to marshal resource %q: %w", resource.Name, err)
		}
		pipe.Set(ctx, resourceKeyPrefix+resource.Name, data, 0)
		pipe.SAdd(ctx, resourceIndexKey, resource.Name)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed resources: %w", err)
	}

	return nil
}
