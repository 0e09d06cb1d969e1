package repositories

import (
	"context"
	"fmt"

	"support-navigator/internal/db"
)

// ChromaVectorRepository implements VectorRepository using ChromaDB
type ChromaVectorRepository struct {
	client *db.ChromaDBClient
}

// NewChromaVectorRepository creates a new ChromaDB-backed vector repository
func NewChromaVectorRepository(client *db.ChromaDBClient) VectorRepository {
	return &ChromaVectorRepository{
		client: client,
	}
}

// SearchPassages searches a collection for passages similar to the query
// embedding. ChromaDB returns cosine distances; similarity is 1 - distance.
func (r *ChromaVectorRepository) SearchPassages(ctx context.Context, collection string, queryEmbedding []float32, topK int) ([]*SearchResult, error) {
	exists, err := r.CollectionExists(ctx, collection)
	if err != nil {
		return nil, NewVectorRepositoryError("search_passages", err, "")
	}
	if !exists {
		return nil, CollectionNotFoundError(collection)
	}

	results, err := r.client.Query(ctx, collection, queryEmbedding, topK, nil)
	if err != nil {
		return nil, NewVectorRepositoryError("search_passages", err, "query failed")
	}

	searchResults := make([]*SearchResult, 0)
	if len(results.IDs) > 0 {
		for i := range results.IDs[0] {
			metadata := make(map[string]interface{})
			if len(results.Metadatas) > 0 && len(results.Metadatas[0]) > i && results.Metadatas[0][i] != nil {
				metadata = results.Metadatas[0][i]
			}

			var text string
			if len(results.Documents) > 0 && len(results.Documents[0]) > i {
				text = results.Documents[0][i]
			}

			var distance float32
			if len(results.Distances) > 0 && len(results.Distances[0]) > i {
				distance = results.Distances[0][i]
			}

			documentID := ""
			if docID, ok := metadata["document_id"].(string); ok {
				documentID = docID
			}

			searchResults = append(searchResults, &SearchResult{
				PassageID:  results.IDs[0][i],
				DocumentID: documentID,
				Text:       text,
				Score:      1.0 - distance,
				Distance:   distance,
				Metadata:   metadata,
			})
		}
	}

	return searchResults, nil
}

// StorePassages stores passages with their embeddings in a collection
func (r *ChromaVectorRepository) StorePassages(ctx context.Context, collection string, passages []*StoredPassage) error {
	if len(passages) == 0 {
		return nil
	}

	exists, err := r.CollectionExists(ctx, collection)
	if err != nil {
		return NewVectorRepositoryError("store_passages", err, "")
	}
	if !exists {
		return CollectionNotFoundError(collection)
	}

	ids := make([]string, len(passages))
	documents := make([]string, len(passages))
	embeddings := make([][]float32, len(passages))
	metadatas := make([]map[string]interface{}, len(passages))

	for i, passage := range passages {
		ids[i] = passage.ID
		documents[i] = passage.Text
		embeddings[i] = passage.Embedding

		metadata := map[string]interface{}{
			"document_id": passage.DocumentID,
		}
		// ChromaDB metadata values must be scalar; callers keep passage
		// metadata flat (title, url, tier strings).
		for k, v := range passage.Metadata {
			metadata[k] = v
		}
		metadatas[i] = metadata
	}

	if err := r.client.AddPassages(ctx, collection, ids, documents, embeddings, metadatas); err != nil {
		return NewVectorRepositoryError("store_passages", err, fmt.Sprintf("failed to store %d passages", len(passages)))
	}

	return nil
}

// CollectionExists checks if a collection exists
func (r *ChromaVectorRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	if _, err := r.client.GetCollection(ctx, name); err != nil {
		// Chroma reports missing collections as an error
		return false, nil
	}
	return true, nil
}

// CreateCollection creates a collection configured for cosine space
func (r *ChromaVectorRepository) CreateCollection(ctx context.Context, name string) error {
	if _, err := r.client.CreateCollection(ctx, name, nil); err != nil {
		return NewVectorRepositoryError("create_collection", err, "failed to create collection: "+name)
	}
	return nil
}

// CountPassages returns the number of passages in a collection
func (r *ChromaVectorRepository) CountPassages(ctx context.Context, collection string) (int, error) {
	count, err := r.client.CountCollection(ctx, collection)
	if err != nil {
		return 0, NewVectorRepositoryError("count_passages", err, "")
	}
	return count, nil
}

// Ping checks if ChromaDB is alive
func (r *ChromaVectorRepository) Ping(ctx context.Context) error {
	if err := r.client.Heartbeat(ctx); err != nil {
		return NewVectorRepositoryError("ping", err, "ChromaDB heartbeat failed")
	}
	return nil
}

// Close closes the ChromaDB client
func (r *ChromaVectorRepository) Close() error {
	r.client.Close()
	return nil
}
