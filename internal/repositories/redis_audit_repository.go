package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"support-navigator/internal/models"
)

const (
	auditKeyPrefix  = "crisis:audit:"
	auditRecentKey  = "crisis:audit:recent"
	auditRetention  = 30 * 24 * time.Hour
	auditRecentSize = 1000
)

// RedisAuditRepository persists de-identified crisis audit records with a
// bounded retention window. Records carry severity and matched phrases
// only; the raw query text is never written.
type RedisAuditRepository struct {
	client *redis.Client
}

// NewRedisAuditRepository creates a new Redis-backed audit repository
func NewRedisAuditRepository(client *redis.Client) *RedisAuditRepository {
	return &RedisAuditRepository{
		client: client,
	}
}

// RecordAssessment stores one audit record and indexes it in the recent list
func (r *RedisAuditRepository) RecordAssessment(ctx context.Context, record *models.CrisisAuditRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, auditKeyPrefix+record.ID, data, auditRetention)
	pipe.LPush(ctx, auditRecentKey, record.ID)
	pipe.LTrim(ctx, auditRecentKey, 0, auditRecentSize-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store audit record: %w", err)
	}

	return nil
}

// RecentAssessments returns up to limit most recent audit records, newest
// first. Records aged out by retention are skipped.
func (r *RedisAuditRepository) RecentAssessments(ctx context.Context, limit int) ([]*models.CrisisAuditRecord, error) {
	if limit <= 0 || limit > auditRecentSize {
		limit = auditRecentSize
	}

	ids, err := r.client.LRange(ctx, auditRecentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read audit index: %w", err)
	}

	records := make([]*models.CrisisAuditRecord, 0, len(ids))
	for _, id := range ids {
		data, err := r.client.Get(ctx, auditKeyPrefix+id).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read audit record %s: %w", id, err)
		}

		var record models.CrisisAuditRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, fmt.Errorf("failed to decode audit record %s: %w", id, err)
		}
		records = append(records, &record)
	}

	return records, nil
}
