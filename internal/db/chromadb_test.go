package db

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

// newTestClient points a ChromaDBClient at a fake server
func newTestClient(t *testing.T, handler http.HandlerFunc) *ChromaDBClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	parsed, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("Failed to parse test server URL: %v", err)
	}
	port, err := strconv.Atoi(parsed.Port())
	if err != nil {
		t.Fatalf("Failed to parse test server port: %v", err)
	}

	return NewChromaDBClient(ChromaDBConfig{
		Host: parsed.Hostname(),
		Port: port,
	})
}

// TestNewChromaDBClient tests client initialization and defaults
func TestNewChromaDBClient(t *testing.T) {
	tests := []struct {
		name        string
		config      ChromaDBConfig
		wantBaseURL string
	}{
		{
			name: "default tenant and database",
			config: ChromaDBConfig{
				Host: "localhost",
				Port: 8000,
			},
			wantBaseURL: "http://localhost:8000/api/v2/tenants/default_tenant/databases/default_database",
		},
		{
			name: "custom tenant and database",
			config: ChromaDBConfig{
				Host:     "chromadb.example.com",
				Port:     9000,
				Tenant:   "custom_tenant",
				Database: "custom_db",
				Timeout:  60 * time.Second,
			},
			wantBaseURL: "http://chromadb.example.com:9000/api/v2/tenants/custom_tenant/databases/custom_db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewChromaDBClient(tt.config)

			if client == nil {
				t.Fatal("Expected non-nil client")
			}
			if client.httpClient == nil {
				t.Error("Expected non-nil HTTP client")
			}
			if client.baseURL != tt.wantBaseURL {
				t.Errorf("Expected base URL %s, got %s", tt.wantBaseURL, client.baseURL)
			}
		})
	}
}

// TestHeartbeat tests the heartbeat endpoint
func TestHeartbeat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/heartbeat" {
			t.Errorf("Expected heartbeat path, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]int64{"nanosecond heartbeat": time.Now().UnixNano()})
	})

	if err := client.Heartbeat(context.Background()); err != nil {
		t.Errorf("Heartbeat() error = %v", err)
	}
}

// TestHeartbeatFailure tests heartbeat against a down server
func TestHeartbeatFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if err := client.Heartbeat(context.Background()); err == nil {
		t.Error("Expected heartbeat error")
	}
}

// TestQuery tests similarity queries including the collection ID cache
func TestQuery(t *testing.T) {
	lookups := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/collections/support_passages"):
			lookups++
			json.NewEncoder(w).Encode(Collection{ID: "col-1", Name: "support_passages"})
		case strings.HasSuffix(r.URL.Path, "/collections/col-1/query"):
			var payload map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("Failed to decode query payload: %v", err)
			}
			if payload["n_results"] != float64(5) {
				t.Errorf("Expected n_results 5, got %v", payload["n_results"])
			}
			json.NewEncoder(w).Encode(QueryResponse{
				IDs:       [][]string{{"p1"}},
				Documents: [][]string{{"text"}},
				Metadatas: [][]map[string]interface{}{{{"document_id": "doc1"}}},
				Distances: [][]float32{{0.1}},
			})
		default:
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
	})

	ctx := context.Background()
	embedding := make([]float32, 4)

	resp, err := client.Query(ctx, "support_passages", embedding, 5, nil)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(resp.IDs) != 1 || len(resp.IDs[0]) != 1 || resp.IDs[0][0] != "p1" {
		t.Errorf("Unexpected query response IDs: %v", resp.IDs)
	}

	// Second query resolves the collection ID from the cache
	if _, err := client.Query(ctx, "support_passages", embedding, 5, nil); err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if lookups != 1 {
		t.Errorf("Expected 1 collection lookup, got %d", lookups)
	}
}

// TestCreateCollection tests collection creation with cosine default
func TestCreateCollection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/collections") {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("Failed to decode payload: %v", err)
		}
		metadata, ok := payload["metadata"].(map[string]interface{})
		if !ok || metadata["hnsw:space"] != "cosine" {
			t.Errorf("Expected cosine space metadata, got %v", payload["metadata"])
		}

		json.NewEncoder(w).Encode(Collection{ID: "col-new", Name: "support_passages"})
	})

	collection, err := client.CreateCollection(context.Background(), "support_passages", nil)
	if err != nil {
		t.Fatalf("CreateCollection() error = %v", err)
	}
	if collection.ID != "col-new" {
		t.Errorf("Expected collection ID col-new, got %s", collection.ID)
	}
}
