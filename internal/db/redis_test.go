package db

import (
	"context"
	"testing"
	"time"
)

// TestNewRedisClient tests client initialization
func TestNewRedisClient(t *testing.T) {
	tests := []struct {
		name   string
		config RedisConfig
	}{
		{
			name: "default config",
			config: RedisConfig{
				Host: "localhost",
				Port: 6379,
			},
		},
		{
			name: "custom config with all fields",
			config: RedisConfig{
				Host:         "redis.example.com",
				Port:         6380,
				Password:     "secret",
				DB:           1,
				PoolSize:     20,
				MinIdleConns: 10,
				MaxRetries:   5,
				DialTimeout:  10 * time.Second,
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 5 * time.Second,
			},
		},
		{
			name:   "empty config uses defaults",
			config: RedisConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewRedisClient(tt.config)
			if err != nil {
				t.Fatalf("NewRedisClient() error = %v", err)
			}

			if client == nil {
				t.Fatal("Expected non-nil client")
			}

			if client.client == nil {
				t.Error("Expected non-nil underlying Redis client")
			}

			// Verify defaults are applied
			if client.config.PoolSize == 0 {
				t.Error("Expected PoolSize to be set")
			}
			if client.config.MinIdleConns == 0 {
				t.Error("Expected MinIdleConns to be set")
			}
			if client.config.DialTimeout == 0 {
				t.Error("Expected DialTimeout to be set")
			}
		})
	}
}

// TestDefaultRedisConfig tests default configuration
func TestDefaultRedisConfig(t *testing.T) {
	config := DefaultRedisConfig()

	if config.Host != "localhost" {
		t.Errorf("Expected host localhost, got %s", config.Host)
	}
	if config.Port != 6379 {
		t.Errorf("Expected port 6379, got %d", config.Port)
	}
	if config.DB != 0 {
		t.Errorf("Expected DB 0, got %d", config.DB)
	}
	if config.PoolSize != 10 {
		t.Errorf("Expected pool size 10, got %d", config.PoolSize)
	}
}

// TestRedisClientPing tests connectivity against a local Redis
func TestRedisClientPing(t *testing.T) {
	client, err := NewRedisClient(DefaultRedisConfig())
	if err != nil {
		t.Fatalf("NewRedisClient() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		t.Skipf("Redis not available, skipping: %v", err)
	}

	stats := client.PoolStats()
	if stats == nil {
		t.Error("Expected non-nil pool stats")
	}

	if client.GetClient() == nil {
		t.Error("Expected non-nil underlying client")
	}
}
