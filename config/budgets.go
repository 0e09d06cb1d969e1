package config

import "time"

// PipelineDefaults holds the retrieval and generation budgets for the query
// pipeline. Loaded once at startup and passed to component constructors;
// never mutated afterward.
type PipelineDefaults struct {
	TopK           int
	MinSimilarity  float32
	ContextBudget  int // characters of assembled context
	DedupThreshold float64

	MaxTokens   int
	Temperature float64
	Seed        *int

	RetrieveTimeout time.Duration
	GenerateTimeout time.Duration

	FallbackAnswer string
}

// DefaultPipeline returns the standard pipeline budgets
func DefaultPipeline() PipelineDefaults {
	return PipelineDefaults{
		TopK:            5,
		MinSimilarity:   0.35,
		ContextBudget:   4000,
		DedupThreshold:  0.85,
		MaxTokens:       700,
		Temperature:     0.2,
		RetrieveTimeout: 15 * time.Second,
		GenerateTimeout: 60 * time.Second,
		FallbackAnswer:  "We are unable to generate a response right now. Please try again shortly, or use the resources listed below.",
	}
}
