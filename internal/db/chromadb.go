package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// ChromaDBClient wraps HTTP calls to the ChromaDB v2 API. The client is
// pooled and safe for concurrent use across simultaneous requests.
type ChromaDBClient struct {
	hostPort   string
	baseURL    string
	httpClient *http.Client

	mu            sync.RWMutex
	collectionIDs map[string]string // name -> id, collections are never renamed
}

// ChromaDBConfig holds configuration for the ChromaDB connection
type ChromaDBConfig struct {
	Host     string
	Port     int
	Tenant   string // default: "default_tenant"
	Database string // default: "default_database"
	Timeout  time.Duration
}

// Collection represents a ChromaDB collection
type Collection struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Metadata map[string]interface{} `json:"metadata"`
}

// QueryResponse is the result of a similarity query. Outer slices are per
// query embedding, inner slices are per result.
type QueryResponse struct {
	IDs       [][]string                 `json:"ids"`
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float32                `json:"distances"`
}

// NewChromaDBClient creates a new ChromaDB client with v2 API support
func NewChromaDBClient(config ChromaDBConfig) *ChromaDBClient {
	if config.Tenant == "" {
		config.Tenant = "default_tenant"
	}
	if config.Database == "" {
		config.Database = "default_database"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	hostPort := fmt.Sprintf("%s:%d", config.Host, config.Port)
	baseURL := fmt.Sprintf("http://%s/api/v2/tenants/%s/databases/%s",
		hostPort, config.Tenant, config.Database)

	return &ChromaDBClient{
		hostPort: hostPort,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		collectionIDs: make(map[string]string),
	}
}

// Heartbeat checks if ChromaDB is alive
func (c *ChromaDBClient) Heartbeat(ctx context.Context) error {
	heartbeatURL := fmt.Sprintf("http://%s/api/v2/heartbeat", c.hostPort)
	req, err := http.NewRequestWithContext(ctx, "GET", heartbeatURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create heartbeat request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("heartbeat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("heartbeat failed with status: %d", resp.StatusCode)
	}

	return nil
}

// GetCollection retrieves a collection by name
func (c *ChromaDBClient) GetCollection(ctx context.Context, name string) (*Collection, error) {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("collection not found: %s", name)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get collection failed (status %d): %s", resp.StatusCode, string(body))
	}

	var collection Collection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.mu.Lock()
	c.collectionIDs[name] = collection.ID
	c.mu.Unlock()

	return &collection, nil
}

// CreateCollection creates a new collection configured for cosine space
func (c *ChromaDBClient) CreateCollection(ctx context.Context, name string, metadata map[string]interface{}) (*Collection, error) {
	if metadata == nil {
		metadata = map[string]interface{}{
			"hnsw:space": "cosine",
		}
	}

	payload := map[string]interface{}{
		"name":     name,
		"metadata": metadata,
	}

	var collection Collection
	if err := c.post(ctx, fmt.Sprintf("%s/collections", c.baseURL), payload, &collection); err != nil {
		return nil, fmt.Errorf("create collection failed: %w", err)
	}

	c.mu.Lock()
	c.collectionIDs[name] = collection.ID
	c.mu.Unlock()

	return &collection, nil
}

// CountCollection returns the number of passages in a collection
func (c *ChromaDBClient) CountCollection(ctx context.Context, name string) (int, error) {
	id, err := c.resolveCollectionID(ctx, name)
	if err != nil {
		return 0, err
	}

	url := fmt.Sprintf("%s/collections/%s/count", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("count collection failed (status %d): %s", resp.StatusCode, string(body))
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return count, nil
}

// AddPassages stores passages with their embeddings in a collection
func (c *ChromaDBClient) AddPassages(ctx context.Context, collectionName string, ids []string, documents []string, embeddings [][]float32, metadatas []map[string]interface{}) error {
	id, err := c.resolveCollectionID(ctx, collectionName)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"ids":        ids,
		"documents":  documents,
		"embeddings": embeddings,
	}
	if metadatas != nil {
		payload["metadatas"] = metadatas
	}

	if err := c.post(ctx, fmt.Sprintf("%s/collections/%s/add", c.baseURL, id), payload, nil); err != nil {
		return fmt.Errorf("add passages failed: %w", err)
	}

	return nil
}

// Query searches a collection for the passages most similar to the query
// embedding
func (c *ChromaDBClient) Query(ctx context.Context, collectionName string, queryEmbedding []float32, nResults int, where map[string]interface{}) (*QueryResponse, error) {
	id, err := c.resolveCollectionID(ctx, collectionName)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"query_embeddings": [][]float32{queryEmbedding},
		"n_results":        nResults,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	if where != nil {
		payload["where"] = where
	}

	var queryResp QueryResponse
	if err := c.post(ctx, fmt.Sprintf("%s/collections/%s/query", c.baseURL, id), payload, &queryResp); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	return &queryResp, nil
}

// resolveCollectionID maps a collection name to its ID, consulting the
// local cache before hitting the API
func (c *ChromaDBClient) resolveCollectionID(ctx context.Context, name string) (string, error) {
	c.mu.RLock()
	id, ok := c.collectionIDs[name]
	c.mu.RUnlock()
	if ok {
		return id, nil
	}

	collection, err := c.GetCollection(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve collection %q: %w", name, err)
	}

	return collection.ID, nil
}

// post sends a JSON payload and optionally decodes the JSON result
func (c *ChromaDBClient) post(ctx context.Context, url string, payload interface{}, result interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Close closes idle HTTP connections
func (c *ChromaDBClient) Close() {
	c.httpClient.CloseIdleConnections()
}
