package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"support-navigator/config"
	"support-navigator/internal/db"
	"support-navigator/internal/handlers"
	"support-navigator/internal/models"
	"support-navigator/internal/repositories"
	"support-navigator/internal/routes"
	"support-navigator/internal/services"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewServer wires the whole pipeline and returns an HTTP server ready to
// listen. Unreachable collaborators disable their features but never
// prevent startup: the query endpoint always comes up, degrading per
// stage, and crisis resources fall back to the built-in directory.
func NewServer() *http.Server {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Clients for the embedding and generation sidecars. Construction
	// never fails; reachability is probed per request and at /api/v1/health.
	embedClient := services.NewEmbeddingClient(getEmbeddingConfig())
	genClient := services.NewGenerationClient(getGenerationConfig(logger))

	redisClient := initializeRedis(ctx, logger)
	vectorRepo := initializeVectorRepository(ctx, logger)

	var resourceRepo repositories.ResourceRepository
	var auditRepo repositories.AuditRepository
	if redisClient != nil {
		resourceRepo = repositories.NewRedisResourceRepository(redisClient.GetClient())
		auditRepo = repositories.NewRedisAuditRepository(redisClient.GetClient())
		seedResources(ctx, resourceRepo, logger)
	} else {
		logger.Println("⚠️  Redis unavailable - serving built-in crisis resources, audit records disabled")
	}

	pipeline := getPipelineConfig()
	collection := getEnv("PASSAGE_COLLECTION", "support_passages")
	cacheTTL := getDurationEnv("RETRIEVAL_CACHE_TTL", 5*time.Minute)

	classifier := services.NewCrisisClassifier(loadCrisisTerms(logger), auditSinkFrom(auditRepo), logger)
	assembler := services.NewContextAssembler(pipeline.DedupThreshold, logger)
	promptBuilder := services.NewPromptBuilder(config.DefaultPromptTemplates())
	citationMapper := services.NewCitationMapper(nil)
	disclaimerPolicy := services.NewDisclaimerPolicy(config.DefaultTopicCategories())

	var retrievalService *services.RetrievalService
	var composer *services.ResponseComposer
	var queryHandler *handlers.QueryHandler
	var cacheHandler *handlers.CacheHandler

	if vectorRepo != nil {
		retrievalService = services.NewRetrievalService(embedClient, vectorRepo, collection, cacheTTL, logger)
		cacheHandler = handlers.NewCacheHandler(retrievalService, logger)
	} else {
		logger.Println("⚠️  Vector store unavailable - answers will degrade to the fallback response")
	}

	composer = services.NewResponseComposer(
		classifier,
		retrievalOrUnavailable(retrievalService),
		assembler,
		promptBuilder,
		genClient,
		citationMapper,
		resourceProviderFrom(resourceRepo),
		disclaimerPolicy,
		services.ComposerConfig{
			TopK:            pipeline.TopK,
			MinSimilarity:   pipeline.MinSimilarity,
			ContextBudget:   pipeline.ContextBudget,
			RetrieveTimeout: pipeline.RetrieveTimeout,
			GenerateTimeout: pipeline.GenerateTimeout,
			FallbackAnswer:  pipeline.FallbackAnswer,
		},
		logger,
	)
	queryHandler = handlers.NewQueryHandler(composer, logger)

	resourceHandler := handlers.NewResourceHandler(resourceRepo, loadCrisisResources(logger), logger)
	healthHandler := handlers.NewHealthHandler(embedClient, genClient, vectorRepo, redisClient, logger)

	h := &routes.Handlers{
		Health:          handlers.HealthCheckHandler,
		Home:            handlers.HomeHandler,
		QueryHandler:    queryHandler,
		ResourceHandler: resourceHandler,
		HealthHandler:   healthHandler,
		CacheHandler:    cacheHandler,
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, h)

	// Add Swagger endpoints
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // The url pointing to API definition
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	return &http.Server{
		Addr:    ":" + getEnv("PORT", "8080"),
		Handler: corsMiddleware(router),
	}
}

// initializeRedis connects to Redis; returns nil when unreachable
func initializeRedis(ctx context.Context, logger *log.Logger) *db.RedisClient {
	redisConfig := getRedisConfig()
	logger.Printf("Connecting to Redis: %s:%d (DB: %d)", redisConfig.Host, redisConfig.Port, redisConfig.DB)

	redisClient, err := db.NewRedisClient(redisConfig)
	if err != nil {
		logger.Printf("❌ Failed to create Redis client: %v", err)
		return nil
	}

	if err := redisClient.Ping(ctx); err != nil {
		logger.Printf("❌ Redis connection failed: %v", err)
		logger.Println("   Hint: Ensure Redis is running (docker run -d -p 6379:6379 redis:7-alpine)")
		return nil
	}
	logger.Println("✅ Redis connected successfully")

	return redisClient
}

// initializeVectorRepository creates the passage store selected by
// VECTOR_BACKEND (chroma or pgvector); returns nil when unreachable
func initializeVectorRepository(ctx context.Context, logger *log.Logger) repositories.VectorRepository {
	backend := getEnv("VECTOR_BACKEND", "chroma")

	switch backend {
	case "pgvector":
		pgConfig := getPostgresConfig()
		logger.Printf("Connecting to Postgres: %s:%d/%s", pgConfig.Host, pgConfig.Port, pgConfig.Database)

		pool, err := db.NewPostgresPool(ctx, pgConfig)
		if err != nil {
			logger.Printf("❌ Postgres connection failed: %v", err)
			return nil
		}
		logger.Println("✅ Postgres connected successfully")
		return repositories.NewPgvectorRepository(pool)

	case "chroma":
		chromaConfig := getChromaConfig()
		logger.Printf("Connecting to ChromaDB: %s:%d", chromaConfig.Host, chromaConfig.Port)

		chromaClient := db.NewChromaDBClient(chromaConfig)
		if err := chromaClient.Heartbeat(ctx); err != nil {
			logger.Printf("❌ ChromaDB connection failed: %v", err)
			logger.Println("   Hint: Ensure ChromaDB is running (docker run -d -p 8000:8000 chromadb/chroma)")
			return nil
		}
		logger.Println("✅ ChromaDB connected successfully")
		return repositories.NewChromaVectorRepository(chromaClient)

	default:
		logger.Printf("❌ Unknown VECTOR_BACKEND %q (expected chroma or pgvector)", backend)
		return nil
	}
}

// seedResources writes the configured crisis directory into Redis so the
// /api/v1/resources endpoint and the composer read a consistent list
func seedResources(ctx context.Context, repo repositories.ResourceRepository, logger *log.Logger) {
	resources := loadCrisisResources(logger)
	if err := repo.Seed(ctx, resources); err != nil {
		logger.Printf("⚠️  Failed to seed crisis resources: %v", err)
		return
	}
	logger.Printf("✅ Seeded %d crisis resources", len(resources))
}

// loadCrisisTerms reads the crisis lexicon from CRISIS_TERMS_PATH, falling
// back to the built-in terms
func loadCrisisTerms(logger *log.Logger) config.CrisisTerms {
	path := os.Getenv("CRISIS_TERMS_PATH")
	if path == "" {
		return config.DefaultCrisisTerms()
	}

	terms, err := config.LoadCrisisTerms(path)
	if err != nil {
		logger.Printf("⚠️  Failed to load crisis terms from %s, using defaults: %v", path, err)
		return config.DefaultCrisisTerms()
	}
	logger.Printf("Loaded crisis terms from %s", path)
	return terms
}

// loadCrisisResources reads the resource directory from
// CRISIS_RESOURCES_PATH, falling back to the built-in directory
func loadCrisisResources(logger *log.Logger) []models.CrisisResource {
	path := os.Getenv("CRISIS_RESOURCES_PATH")
	if path == "" {
		return config.DefaultCrisisResources()
	}

	resources, err := config.LoadCrisisResources(path)
	if err != nil || len(resources) == 0 {
		logger.Printf("⚠️  Failed to load crisis resources from %s, using defaults: %v", path, err)
		return config.DefaultCrisisResources()
	}
	logger.Printf("Loaded %d crisis resources from %s", len(resources), path)
	return resources
}

// auditSinkFrom adapts a nil-able repository to the classifier's sink
func auditSinkFrom(repo repositories.AuditRepository) services.AuditSink {
	if repo == nil {
		return nil
	}
	return repo
}

// resourceProviderFrom adapts a nil-able repository to the composer's provider
func resourceProviderFrom(repo repositories.ResourceRepository) services.ResourceProvider {
	if repo == nil {
		return nil
	}
	return repo
}

// unavailableRetrieval stands in for the retrieval service when no vector
// store could be reached, so the composer degrades instead of crashing
type unavailableRetrieval struct{}

func (unavailableRetrieval) Retrieve(ctx context.Context, queryText string, topK int, minSimilarity float32, useCache bool) ([]models.RetrievedPassage, error) {
	return nil, services.NewRetrievalFailure(fmt.Errorf("vector store not configured"))
}

func retrievalOrUnavailable(s *services.RetrievalService) services.RetrievalInterface {
	if s == nil {
		return unavailableRetrieval{}
	}
	return s
}

// ============================================================================
// Environment configuration
// ============================================================================

// getRedisConfig reads Redis configuration from environment variables
func getRedisConfig() db.RedisConfig {
	config := db.DefaultRedisConfig()

	if host := os.Getenv("REDIS_HOST"); host != "" {
		config.Host = host
	}

	if portStr := os.Getenv("REDIS_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Port = port
		}
	}

	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Password = password
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if dbNum, err := strconv.Atoi(dbStr); err == nil {
			config.DB = dbNum
		}
	}

	if poolSizeStr := os.Getenv("REDIS_POOL_SIZE"); poolSizeStr != "" {
		if poolSize, err := strconv.Atoi(poolSizeStr); err == nil {
			config.PoolSize = poolSize
		}
	}

	return config
}

// getChromaConfig reads ChromaDB configuration from environment variables
func getChromaConfig() db.ChromaDBConfig {
	config := db.ChromaDBConfig{
		Host:     "localhost",
		Port:     8000,
		Tenant:   "default_tenant",
		Database: "default_database",
		Timeout:  30 * time.Second,
	}

	if host := os.Getenv("CHROMA_HOST"); host != "" {
		config.Host = host
	}

	if portStr := os.Getenv("CHROMA_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Port = port
		}
	}

	if tenant := os.Getenv("CHROMA_TENANT"); tenant != "" {
		config.Tenant = tenant
	}

	if database := os.Getenv("CHROMA_DATABASE"); database != "" {
		config.Database = database
	}

	return config
}

// getPostgresConfig reads Postgres configuration from environment variables
func getPostgresConfig() db.PostgresConfig {
	config := db.DefaultPostgresConfig()

	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		config.Host = host
	}

	if portStr := os.Getenv("POSTGRES_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Port = port
		}
	}

	if user := os.Getenv("POSTGRES_USER"); user != "" {
		config.User = user
	}

	if password := os.Getenv("POSTGRES_PASSWORD"); password != "" {
		config.Password = password
	}

	if database := os.Getenv("POSTGRES_DB"); database != "" {
		config.Database = database
	}

	return config
}

// getEmbeddingConfig reads embedding sidecar configuration from environment variables
func getEmbeddingConfig() services.EmbeddingClientConfig {
	cfg := services.EmbeddingClientConfig{
		BaseURL:   getEnv("EMBEDDING_SERVICE_URL", "http://localhost:8001"),
		Timeout:   getDurationEnv("EMBEDDING_TIMEOUT", 30*time.Second),
		Retries:   3,
		Model:     os.Getenv("EMBEDDING_MODEL"),
		Dimension: 0,
	}

	if dimStr := os.Getenv("EMBEDDING_DIMENSION"); dimStr != "" {
		if dim, err := strconv.Atoi(dimStr); err == nil {
			cfg.Dimension = dim
		}
	}

	return cfg
}

// getGenerationConfig reads generation service configuration from environment variables
func getGenerationConfig(logger *log.Logger) services.GenerationClientConfig {
	pipeline := getPipelineConfig()

	cfg := services.GenerationClientConfig{
		BaseURL:     getEnv("GENERATION_SERVICE_URL", "http://localhost:1234/v1"),
		Model:       getEnv("GENERATION_MODEL", "local-model"),
		MaxTokens:   pipeline.MaxTokens,
		Temperature: pipeline.Temperature,
		Seed:        pipeline.Seed,
		Timeout:     getDurationEnv("GENERATION_CLIENT_TIMEOUT", 120*time.Second),
	}

	if seedStr := os.Getenv("GENERATION_SEED"); seedStr != "" {
		if seed, err := strconv.Atoi(seedStr); err == nil {
			cfg.Seed = &seed
		} else {
			logger.Printf("⚠️  Ignoring invalid GENERATION_SEED %q", seedStr)
		}
	}

	return cfg
}

// getPipelineConfig reads pipeline budgets from environment variables
func getPipelineConfig() config.PipelineDefaults {
	cfg := config.DefaultPipeline()

	if topKStr := os.Getenv("RETRIEVAL_TOP_K"); topKStr != "" {
		if topK, err := strconv.Atoi(topKStr); err == nil && topK > 0 {
			cfg.TopK = topK
		}
	}

	if minStr := os.Getenv("RETRIEVAL_MIN_SIMILARITY"); minStr != "" {
		if min, err := strconv.ParseFloat(minStr, 32); err == nil {
			cfg.MinSimilarity = float32(min)
		}
	}

	if budgetStr := os.Getenv("CONTEXT_BUDGET"); budgetStr != "" {
		if budget, err := strconv.Atoi(budgetStr); err == nil && budget > 0 {
			cfg.ContextBudget = budget
		}
	}

	if maxTokensStr := os.Getenv("GENERATION_MAX_TOKENS"); maxTokensStr != "" {
		if maxTokens, err := strconv.Atoi(maxTokensStr); err == nil && maxTokens > 0 {
			cfg.MaxTokens = maxTokens
		}
	}

	if tempStr := os.Getenv("GENERATION_TEMPERATURE"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 64); err == nil {
			cfg.Temperature = temp
		}
	}

	cfg.RetrieveTimeout = getDurationEnv("RETRIEVE_TIMEOUT", cfg.RetrieveTimeout)
	cfg.GenerateTimeout = getDurationEnv("GENERATE_TIMEOUT", cfg.GenerateTimeout)

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
