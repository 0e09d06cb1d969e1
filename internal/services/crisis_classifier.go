package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"support-navigator/config"
	"support-navigator/internal/models"
)

// AuditSink receives de-identified crisis audit records. Implementations
// must tolerate being called concurrently; recording is best-effort and
// never blocks classification.
type AuditSink interface {
	RecordAssessment(ctx context.Context, record *models.CrisisAuditRecord) error
}

// tieredTerms is a trigger-phrase list pre-lowered for matching
type tieredTerms struct {
	severity models.Severity
	phrases  []string
}

// CrisisClassifier detects crisis signals in query text by deterministic,
// case-insensitive substring matching against tiered phrase lists. It makes
// no network calls and never fails open: an internal matcher fault yields
// a critical assessment, not a none assessment.
type CrisisClassifier struct {
	tiers  []tieredTerms // ordered critical, high, moderate
	audit  AuditSink
	logger *log.Logger
}

// NewCrisisClassifier creates a classifier over the given term tiers.
// The audit sink may be nil, in which case no audit records are emitted.
func NewCrisisClassifier(terms config.CrisisTerms, audit AuditSink, logger *log.Logger) *CrisisClassifier {
	lower := func(phrases []string) []string {
		out := make([]string, len(phrases))
		for i, p := range phrases {
			out[i] = strings.ToLower(p)
		}
		return out
	}

	return &CrisisClassifier{
		tiers: []tieredTerms{
			{severity: models.SeverityCritical, phrases: lower(terms.Critical)},
			{severity: models.SeverityHigh, phrases: lower(terms.High)},
			{severity: models.SeverityModerate, phrases: lower(terms.Moderate)},
		},
		audit:  audit,
		logger: logger,
	}
}

// Classify assesses the query text for crisis signals. It is a pure function
// of the text: identical input always yields an identical assessment. The
// assessment never depends on retrieval or generation results.
func (c *CrisisClassifier) Classify(text string) models.CrisisAssessment {
	assessment := c.match(text)
	c.emitAudit(assessment)
	return assessment
}

// match runs the tier matching with a fail-safe-high recover: any internal
// fault is treated as a critical detection, because under-detection is the
// unacceptable failure mode.
func (c *CrisisClassifier) match(text string) (assessment models.CrisisAssessment) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Printf("Classifier fault, failing safe to critical: %v", r)
			assessment = models.CrisisAssessment{
				Severity:     models.SeverityCritical,
				MatchedTerms: []string{},
			}
		}
	}()

	lowered := strings.ToLower(text)

	type hit struct {
		phrase string
		index  int
	}

	severity := models.SeverityNone
	var hits []hit
	for _, tier := range c.tiers {
		for _, phrase := range tier.phrases {
			idx := strings.Index(lowered, phrase)
			if idx < 0 {
				continue
			}
			hits = append(hits, hit{phrase: phrase, index: idx})
			severity = severity.Max(tier.severity)
		}
	}

	// Matched terms are reported in order of first appearance in the text,
	// ties broken alphabetically, so the assessment is deterministic.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].index != hits[j].index {
			return hits[i].index < hits[j].index
		}
		return hits[i].phrase < hits[j].phrase
	})

	matched := make([]string, len(hits))
	for i, h := range hits {
		matched[i] = h.phrase
	}

	return models.CrisisAssessment{
		Severity:     severity,
		MatchedTerms: matched,
	}
}

// emitAudit records a de-identified audit entry for detected crises. The
// record carries only severity and matched phrases, never the query text.
func (c *CrisisClassifier) emitAudit(assessment models.CrisisAssessment) {
	if c.audit == nil || !assessment.Detected() {
		return
	}

	record := &models.CrisisAuditRecord{
		Severity:     assessment.Severity,
		MatchedTerms: assessment.MatchedTerms,
		CreatedAt:    time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.audit.RecordAssessment(ctx, record); err != nil {
			c.logger.Printf("Failed to record crisis audit entry: %v", err)
		}
	}()
}
