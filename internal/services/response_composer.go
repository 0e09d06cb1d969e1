package services

import (
	"context"
	"log"
	"strings"
	"time"

	"support-navigator/config"
	"support-navigator/internal/models"
)

// ResourceProvider supplies the crisis resources for a detected severity
type ResourceProvider interface {
	ResourcesForSeverity(ctx context.Context, severity models.Severity) ([]models.CrisisResource, error)
}

// ComposerConfig holds the per-request budgets for the pipeline
type ComposerConfig struct {
	TopK            int
	MinSimilarity   float32
	ContextBudget   int
	RetrieveTimeout time.Duration
	GenerateTimeout time.Duration
	FallbackAnswer  string
}

// ResponseComposer orchestrates the query pipeline. The crisis track runs
// concurrently with retrieval and generation, since neither depends on the
// other, and both join before composition. A failure in embedding,
// retrieval, or generation degrades only that stage's contribution; the
// envelope is always returned, and detected-crisis resources are always
// delivered.
type ResponseComposer struct {
	classifier        *CrisisClassifier
	retrieval         RetrievalInterface
	assembler         *ContextAssembler
	prompts           *PromptBuilder
	generator         GenerationClientInterface
	citations         *CitationMapper
	resources         ResourceProvider
	disclaimers       *DisclaimerPolicy
	fallbackResources []models.CrisisResource
	cfg               ComposerConfig
	logger            *log.Logger
}

// NewResponseComposer wires the pipeline components together. The resource
// provider may be nil; detected crises then fall back to the built-in
// directory, which must be non-empty.
func NewResponseComposer(
	classifier *CrisisClassifier,
	retrieval RetrievalInterface,
	assembler *ContextAssembler,
	prompts *PromptBuilder,
	generator GenerationClientInterface,
	citations *CitationMapper,
	resources ResourceProvider,
	disclaimers *DisclaimerPolicy,
	cfg ComposerConfig,
	logger *log.Logger,
) *ResponseComposer {
	if cfg.FallbackAnswer == "" {
		cfg.FallbackAnswer = config.DefaultPipeline().FallbackAnswer
	}
	if cfg.RetrieveTimeout == 0 {
		cfg.RetrieveTimeout = 15 * time.Second
	}
	if cfg.GenerateTimeout == 0 {
		cfg.GenerateTimeout = 60 * time.Second
	}

	return &ResponseComposer{
		classifier:        classifier,
		retrieval:         retrieval,
		assembler:         assembler,
		prompts:           prompts,
		generator:         generator,
		citations:         citations,
		resources:         resources,
		disclaimers:       disclaimers,
		fallbackResources: config.DefaultCrisisResources(),
		cfg:               cfg,
		logger:            logger,
	}
}

// ProcessQuery runs the full pipeline for one query and always returns an
// envelope for collaborator faults; the only error it returns is a
// ValidationError for an unknown audience.
func (c *ResponseComposer) ProcessQuery(ctx context.Context, query models.Query, useCache bool) (*models.ResponseEnvelope, error) {
	if !query.Audience.IsValid() {
		return nil, NewValidationError("audience", "must be clinical or lay, got: "+string(query.Audience))
	}

	startTime := time.Now()

	// Crisis track: independent of retrieval and generation, joined at
	// composition. Classification is pure and never raises.
	crisisCh := make(chan models.CrisisAssessment, 1)
	go func() {
		crisisCh <- c.classifier.Classify(query.Text)
	}()

	assembled, answer := c.runRetrievalAndGeneration(ctx, query, useCache)

	assessment := <-crisisCh

	citations := c.citations.MapCitations(assembled)
	resources := c.resourcesFor(ctx, assessment.Severity)
	disclaimers := c.disclaimers.Compose(query.Text, assessment)

	var severity *string
	if assessment.Detected() {
		s := string(assessment.Severity)
		severity = &s
	}

	c.logger.Printf("Query composed in %.2fms (severity=%s, citations=%d, fallback=%t)",
		time.Since(startTime).Seconds()*1000, assessment.Severity, len(citations), answer.Fallback)

	return &models.ResponseEnvelope{
		Answer:          answer.Text,
		Citations:       citations,
		CrisisDetected:  assessment.Detected(),
		CrisisSeverity:  severity,
		CrisisResources: resources,
		Disclaimers:     disclaimers,
	}, nil
}

// runRetrievalAndGeneration executes the embed→retrieve→assemble→prompt→
// generate chain. Any stage fault degrades that stage only: retrieval
// faults yield an empty context, generation faults yield the fixed
// fallback answer. The fallback string is fixed so monitoring can detect
// silent degradation.
func (c *ResponseComposer) runRetrievalAndGeneration(ctx context.Context, query models.Query, useCache bool) (models.AssembledContext, models.GeneratedAnswer) {
	retrieveCtx, cancelRetrieve := context.WithTimeout(ctx, c.cfg.RetrieveTimeout)
	defer cancelRetrieve()

	passages, err := c.retrieval.Retrieve(retrieveCtx, query.Text, c.cfg.TopK, c.cfg.MinSimilarity, useCache)
	if err != nil {
		stage, _ := FailedStage(err)
		c.logger.Printf("Degrading %s stage: %v", stage, err)
		passages = nil
	}

	assembled := c.assembler.Assemble(passages, c.cfg.ContextBudget)
	supplied := passageIDs(assembled)

	prompt, err := c.prompts.Build(query, assembled)
	if err != nil {
		// Audience is validated on entry; a missing template is a broken
		// deployment. Degrade to the fallback answer rather than abort.
		c.logger.Printf("Prompt construction failed: %v", err)
		return assembled, models.GeneratedAnswer{Text: c.cfg.FallbackAnswer, PassageIDs: supplied, Fallback: true}
	}

	generateCtx, cancelGenerate := context.WithTimeout(ctx, c.cfg.GenerateTimeout)
	defer cancelGenerate()

	text, err := c.generator.Complete(generateCtx, *prompt)
	if err != nil {
		c.logger.Printf("Degrading generation stage: %v", err)
		return assembled, models.GeneratedAnswer{Text: c.cfg.FallbackAnswer, PassageIDs: supplied, Fallback: true}
	}
	if strings.TrimSpace(text) == "" {
		c.logger.Printf("Generation returned empty text, using fallback answer")
		return assembled, models.GeneratedAnswer{Text: c.cfg.FallbackAnswer, PassageIDs: supplied, Fallback: true}
	}

	return assembled, models.GeneratedAnswer{Text: text, PassageIDs: supplied}
}

// passageIDs lists the IDs of the passages supplied as context
func passageIDs(assembled models.AssembledContext) []string {
	ids := make([]string, 0, len(assembled.Passages))
	for _, passage := range assembled.Passages {
		ids = append(ids, passage.PassageID)
	}
	return ids
}

// resourcesFor returns the crisis resources to ship for a severity. For a
// detected crisis the list is guaranteed non-empty: provider faults and
// empty directories fall back to the built-in defaults.
func (c *ResponseComposer) resourcesFor(ctx context.Context, severity models.Severity) []models.CrisisResource {
	if severity == models.SeverityNone {
		return []models.CrisisResource{}
	}

	if c.resources != nil {
		resources, err := c.resources.ResourcesForSeverity(ctx, severity)
		if err != nil {
			c.logger.Printf("Resource directory unavailable, using built-in defaults: %v", err)
		} else if len(resources) > 0 {
			return resources
		}
	}

	return c.fallbackResources
}
