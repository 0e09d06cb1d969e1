package repositories

import (
	"context"
)

// VectorRepository abstracts the vector-similarity store. Implementations
// must be safe for concurrent use across simultaneous requests.
type VectorRepository interface {
	// SearchPassages returns candidate passages ranked by similarity to the
	// query embedding. An empty result is a valid outcome, not an error.
	SearchPassages(ctx context.Context, collection string, queryEmbedding []float32, topK int) ([]*SearchResult, error)

	// StorePassages inserts passages with precomputed embeddings. Used by
	// seeding and integration tests; the ingestion pipeline lives outside
	// this service.
	StorePassages(ctx context.Context, collection string, passages []*StoredPassage) error

	// CollectionExists reports whether the named collection is present
	CollectionExists(ctx context.Context, name string) (bool, error)

	// CreateCollection creates a collection configured for cosine similarity
	CreateCollection(ctx context.Context, name string) error

	// CountPassages returns the number of passages in the collection
	CountPassages(ctx context.Context, collection string) (int, error)

	// Ping checks store connectivity
	Ping(ctx context.Context) error

	// Close releases the underlying connections
	Close() error
}

// SearchResult is a single ranked hit from the vector store
type SearchResult struct {
	PassageID  string                 `json:"passage_id"`
	DocumentID string                 `json:"document_id"`
	Text       string                 `json:"text"`
	Score      float32                `json:"score"` // similarity in [0,1], higher is better
	Distance   float32                `json:"distance"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// StoredPassage is a passage with its embedding, ready for insertion
type StoredPassage struct {
	ID         string                 `json:"id"`
	DocumentID string                 `json:"document_id"`
	Text       string                 `json:"text"`
	Embedding  []float32              `json:"embedding"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// VectorRepositoryError represents errors from the vector repository
type VectorRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *VectorRepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": unknown error"
}

func (e *VectorRepositoryError) Unwrap() error {
	return e.Err
}

// NewVectorRepositoryError creates a new vector repository error
func NewVectorRepositoryError(operation string, err error, message string) *VectorRepositoryError {
	return &VectorRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}

// CollectionNotFoundError indicates the named collection does not exist
func CollectionNotFoundError(name string) error {
	return NewVectorRepositoryError("get_collection", nil, "collection not found: "+name)
}
