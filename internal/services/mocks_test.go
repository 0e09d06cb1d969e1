package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"support-navigator/internal/models"
	"support-navigator/internal/repositories"
)

// ============================================================================
// Shared Mocks
// ============================================================================

// MockEmbeddingClient mocks EmbeddingClientInterface
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) EmbedQuery(ctx context.Context, text string) (*EmbeddingResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*EmbeddingResult), args.Error(1)
}

func (m *MockEmbeddingClient) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockGenerationClient mocks GenerationClientInterface
type MockGenerationClient struct {
	mock.Mock
}

func (m *MockGenerationClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockGenerationClient) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockVectorRepository mocks repositories.VectorRepository
type MockVectorRepository struct {
	mock.Mock
}

func (m *MockVectorRepository) SearchPassages(ctx context.Context, collection string, queryEmbedding []float32, topK int) ([]*repositories.SearchResult, error) {
	args := m.Called(ctx, collection, queryEmbedding, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repositories.SearchResult), args.Error(1)
}

func (m *MockVectorRepository) StorePassages(ctx context.Context, collection string, passages []*repositories.StoredPassage) error {
	args := m.Called(ctx, collection, passages)
	return args.Error(0)
}

func (m *MockVectorRepository) CollectionExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockVectorRepository) CreateCollection(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockVectorRepository) CountPassages(ctx context.Context, collection string) (int, error) {
	args := m.Called(ctx, collection)
	return args.Int(0), args.Error(1)
}

func (m *MockVectorRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVectorRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRetrieval mocks RetrievalInterface
type MockRetrieval struct {
	mock.Mock
}

func (m *MockRetrieval) Retrieve(ctx context.Context, queryText string, topK int, minSimilarity float32, useCache bool) ([]models.RetrievedPassage, error) {
	args := m.Called(ctx, queryText, topK, minSimilarity, useCache)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RetrievedPassage), args.Error(1)
}

// MockResourceProvider mocks ResourceProvider
type MockResourceProvider struct {
	mock.Mock
}

func (m *MockResourceProvider) ResourcesForSeverity(ctx context.Context, severity models.Severity) ([]models.CrisisResource, error) {
	args := m.Called(ctx, severity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CrisisResource), args.Error(1)
}

// MockAuditSink mocks AuditSink
type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) RecordAssessment(ctx context.Context, record *models.CrisisAuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
