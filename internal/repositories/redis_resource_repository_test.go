package repositories

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-navigator/internal/models"
)

// setupTestRedis creates a test Redis client, skipping when no local
// Redis is available
func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use separate DB for testing
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available, skipping: %v", err)
	}

	// Flush test database
	require.NoError(t, client.FlushDB(ctx).Err())

	return client
}

func testResources() []models.CrisisResource {
	return []models.CrisisResource{
		{Name: "Crisis Text Line", Phone: "741741", Description: "Text HOME to connect with a counselor", Priority: 2},
		{Name: "988 Suicide & Crisis Lifeline", Phone: "988", Description: "24/7 call or text", URL: "https://988lifeline.org", Priority: 1},
		{Name: "County Crisis Services", Phone: "919-555-0100", Description: "Walk-in assessment", Priority: 3},
	}
}

func TestRedisResourceRepository_SeedAndList(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisResourceRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, testResources()))

	resources, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, resources, 3)

	// Priority order, not insertion order
	assert.Equal(t, "988 Suicide & Crisis Lifeline", resources[0].Name)
	assert.Equal(t, "Crisis Text Line", resources[1].Name)
	assert.Equal(t, "County Crisis Services", resources[2].Name)
	assert.Equal(t, "https://988lifeline.org", resources[0].URL)
}

func TestRedisResourceRepository_SeedReplacesExisting(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisResourceRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, testResources()))
	require.NoError(t, repo.Seed(ctx, []models.CrisisResource{
		{Name: "988 Suicide & Crisis Lifeline", Phone: "988", Priority: 1},
	}))

	resources, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, resources, 1)
}

func TestRedisResourceRepository_ResourcesForSeverity(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisResourceRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, testResources()))

	t.Run("none gets nothing", func(t *testing.T) {
		resources, err := repo.ResourcesForSeverity(ctx, models.SeverityNone)
		require.NoError(t, err)
		assert.Empty(t, resources)
	})

	t.Run("every detected tier gets the full directory", func(t *testing.T) {
		for _, severity := range []models.Severity{models.SeverityModerate, models.SeverityHigh, models.SeverityCritical} {
			resources, err := repo.ResourcesForSeverity(ctx, severity)
			require.NoError(t, err)
			assert.Len(t, resources, 3, "severity %s", severity)
			assert.Equal(t, "988 Suicide & Crisis Lifeline", resources[0].Name)
		}
	})
}

func TestRedisResourceRepository_ListEmpty(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	repo := NewRedisResourceRepository(client)

	resources, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resources)
}
