package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgvectorRepository implements VectorRepository using Postgres with the
// pgvector extension. Passages live in a single table partitioned by a
// collection column; similarity uses the cosine distance operator, so
// score = 1 - distance matches the Chroma backend.
type PgvectorRepository struct {
	pool *pgxpool.Pool
}

// NewPgvectorRepository creates a new pgvector-backed repository
func NewPgvectorRepository(pool *pgxpool.Pool) VectorRepository {
	return &PgvectorRepository{
		pool: pool,
	}
}

// SearchPassages returns the topK passages closest to the query embedding
func (r *PgvectorRepository) SearchPassages(ctx context.Context, collection string, queryEmbedding []float32, topK int) ([]*SearchResult, error) {
	query := `
		SELECT id, document_id, text, metadata, embedding <=> $1 AS distance
		FROM passages
		WHERE collection = $2
		ORDER BY embedding <=> $1
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(queryEmbedding), collection, topK)
	if err != nil {
		return nil, NewVectorRepositoryError("search_passages", err, "query failed")
	}
	defer rows.Close()

	results := make([]*SearchResult, 0, topK)
	for rows.Next() {
		var (
			result       SearchResult
			distance     float64
			metadataJSON []byte
		)
		if err := rows.Scan(&result.PassageID, &result.DocumentID, &result.Text, &metadataJSON, &distance); err != nil {
			return nil, NewVectorRepositoryError("search_passages", err, "failed to scan row")
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &result.Metadata); err != nil {
				return nil, NewVectorRepositoryError("search_passages", err, "failed to decode metadata")
			}
		}

		result.Distance = float32(distance)
		result.Score = 1.0 - float32(distance)
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, NewVectorRepositoryError("search_passages", err, "")
	}

	return results, nil
}

// StorePassages upserts passages with precomputed embeddings
func (r *PgvectorRepository) StorePassages(ctx context.Context, collection string, passages []*StoredPassage) error {
	if len(passages) == 0 {
		return nil
	}

	query := `
		INSERT INTO passages (id, collection, document_id, text, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET document_id = EXCLUDED.document_id,
		    text = EXCLUDED.text,
		    metadata = EXCLUDED.metadata,
		    embedding = EXCLUDED.embedding`

	for _, passage := range passages {
		metadataJSON, err := json.Marshal(passage.Metadata)
		if err != nil {
			return NewVectorRepositoryError("store_passages", err, "failed to marshal metadata")
		}

		_, err = r.pool.Exec(ctx, query,
			passage.ID, collection, passage.DocumentID, passage.Text,
			metadataJSON, pgvector.NewVector(passage.Embedding))
		if err != nil {
			return NewVectorRepositoryError("store_passages", err,
				fmt.Sprintf("failed to store passage %s", passage.ID))
		}
	}

	return nil
}

// CollectionExists reports whether any passage exists for the collection.
// Pgvector collections are rows, not schema objects, so presence of data is
// the existence signal.
func (r *PgvectorRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM passages WHERE collection = $1)`, name).Scan(&exists)
	if err != nil {
		return false, NewVectorRepositoryError("collection_exists", err, "")
	}
	return exists, nil
}

// CreateCollection is a no-op for pgvector: collections are implicit in the
// passages table
func (r *PgvectorRepository) CreateCollection(ctx context.Context, name string) error {
	return nil
}

// CountPassages returns the number of passages in the collection
func (r *PgvectorRepository) CountPassages(ctx context.Context, collection string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM passages WHERE collection = $1`, collection).Scan(&count)
	if err != nil {
		return 0, NewVectorRepositoryError("count_passages", err, "")
	}
	return count, nil
}

// Ping checks database connectivity
func (r *PgvectorRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return NewVectorRepositoryError("ping", err, "postgres ping failed")
	}
	return nil
}

// Close releases the connection pool
func (r *PgvectorRepository) Close() error {
	r.pool.Close()
	return nil
}
