package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"support-navigator/internal/models"
	"support-navigator/internal/repositories"
)

// RetrievalInterface is the retrieval engine consumed by the composer
type RetrievalInterface interface {
	Retrieve(ctx context.Context, queryText string, topK int, minSimilarity float32, useCache bool) ([]models.RetrievedPassage, error)
}

// RetrievalService turns query text into ranked candidate passages: it
// embeds the query, searches the vector store, applies the similarity
// floor, and orders results deterministically.
type RetrievalService struct {
	embedClient EmbeddingClientInterface
	vectorRepo  repositories.VectorRepository
	collection  string
	cache       *gocache.Cache
	logger      *log.Logger
}

// NewRetrievalService creates a new retrieval service. Results are cached
// for cacheTTL per normalized query; a zero TTL disables caching.
func NewRetrievalService(
	embedClient EmbeddingClientInterface,
	vectorRepo repositories.VectorRepository,
	collection string,
	cacheTTL time.Duration,
	logger *log.Logger,
) *RetrievalService {
	var c *gocache.Cache
	if cacheTTL > 0 {
		c = gocache.New(cacheTTL, 2*cacheTTL)
	}

	return &RetrievalService{
		embedClient: embedClient,
		vectorRepo:  vectorRepo,
		collection:  collection,
		cache:       c,
		logger:      logger,
	}
}

// Retrieve returns ranked passages above the similarity floor. An empty
// result means "no supporting evidence found" and is not an error; faults
// from the embedding or vector-store collaborators surface as stage-tagged
// pipeline errors.
func (s *RetrievalService) Retrieve(ctx context.Context, queryText string, topK int, minSimilarity float32, useCache bool) ([]models.RetrievedPassage, error) {
	startTime := time.Now()

	cacheKey := s.cacheKey(queryText, topK, minSimilarity)
	if useCache && s.cache != nil {
		if cached, found := s.cache.Get(cacheKey); found {
			s.logger.Printf("Retrieval cache hit (top_k=%d)", topK)
			return cached.([]models.RetrievedPassage), nil
		}
	}

	embedStart := time.Now()
	embedding, err := s.embedClient.EmbedQuery(ctx, queryText)
	if err != nil {
		s.logger.Printf("Query embedding failed: %v", err)
		return nil, NewEmbeddingFailure(err)
	}
	embedTime := time.Since(embedStart).Seconds() * 1000

	s.logger.Printf("Query embedded in %.2fms (model: %s, dimension: %d)",
		embedTime, embedding.Model, embedding.Dimension)

	searchStart := time.Now()
	results, err := s.vectorRepo.SearchPassages(ctx, s.collection, embedding.Embedding, topK)
	if err != nil {
		s.logger.Printf("Vector search failed: %v", err)
		return nil, NewRetrievalFailure(err)
	}
	searchTime := time.Since(searchStart).Seconds() * 1000

	passages := make([]models.RetrievedPassage, 0, len(results))
	for _, result := range results {
		if result.Score < minSimilarity {
			continue
		}
		passages = append(passages, toRetrievedPassage(result))
	}

	// Deterministic ranking: descending similarity, ties broken by
	// ascending document then passage ID.
	sort.SliceStable(passages, func(i, j int) bool {
		if passages[i].Score != passages[j].Score {
			return passages[i].Score > passages[j].Score
		}
		if passages[i].DocumentID != passages[j].DocumentID {
			return passages[i].DocumentID < passages[j].DocumentID
		}
		return passages[i].PassageID < passages[j].PassageID
	})

	totalTime := time.Since(startTime).Seconds() * 1000
	s.logger.Printf("Retrieval completed: %d passages above floor %.2f, %.2fms total (embed: %.2fms, search: %.2fms)",
		len(passages), minSimilarity, totalTime, embedTime, searchTime)

	if useCache && s.cache != nil {
		s.cache.Set(cacheKey, passages, gocache.DefaultExpiration)
	}

	return passages, nil
}

// ClearCache drops all cached retrieval results
func (s *RetrievalService) ClearCache() {
	if s.cache != nil {
		s.cache.Flush()
		s.logger.Printf("Retrieval cache cleared")
	}
}

// CacheSize returns the number of cached retrieval results
func (s *RetrievalService) CacheSize() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.ItemCount()
}

func (s *RetrievalService) cacheKey(queryText string, topK int, minSimilarity float32) string {
	normalized := strings.ToLower(strings.TrimSpace(queryText))
	return fmt.Sprintf("%s:%d:%.3f:%s", s.collection, topK, minSimilarity, normalized)
}

// toRetrievedPassage maps a raw store hit into the pipeline passage type,
// lifting source metadata out of the metadata map
func toRetrievedPassage(result *repositories.SearchResult) models.RetrievedPassage {
	passage := models.RetrievedPassage{
		PassageID:  result.PassageID,
		DocumentID: result.DocumentID,
		Text:       result.Text,
		Score:      result.Score,
	}

	if title, ok := result.Metadata["title"].(string); ok {
		passage.Title = title
	}
	if url, ok := result.Metadata["url"].(string); ok {
		passage.URL = url
	}
	if tier, ok := result.Metadata["tier"].(string); ok {
		passage.Tier = models.SourceTier(tier)
	}

	return passage
}
