package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/jdkato/prose/v2"

	"support-navigator/internal/models"
)

// ContextAssembler packs retrieved passages into a bounded context block.
// Packing is greedy in retrieval order; a passage is either included whole
// or skipped, never split mid-text.
type ContextAssembler struct {
	dedupThreshold float64
	logger         *log.Logger
}

// NewContextAssembler creates an assembler. dedupThreshold is the token-set
// similarity above which two passages from the same document collapse into
// the higher-scoring one.
func NewContextAssembler(dedupThreshold float64, logger *log.Logger) *ContextAssembler {
	if dedupThreshold <= 0 || dedupThreshold > 1 {
		dedupThreshold = 0.85
	}
	return &ContextAssembler{
		dedupThreshold: dedupThreshold,
		logger:         logger,
	}
}

// Assemble selects passages into a context block of at most budget
// characters. Empty input yields an empty context, which is a valid state:
// prompt construction degrades to a no-sources instruction rather than
// fabricating grounding.
func (a *ContextAssembler) Assemble(passages []models.RetrievedPassage, budget int) models.AssembledContext {
	deduped := a.dedupe(passages)

	var (
		builder  strings.Builder
		selected []models.RetrievedPassage
	)

	for _, passage := range deduped {
		block := renderPassage(len(selected)+1, passage)
		if builder.Len()+len(block) > budget {
			// Oversized passages are skipped whole; later, smaller
			// passages may still fit.
			a.logger.Printf("Skipping passage %s: %d chars would exceed budget %d",
				passage.PassageID, len(block), budget)
			continue
		}
		builder.WriteString(block)
		selected = append(selected, passage)
	}

	return models.AssembledContext{
		Passages: selected,
		Text:     builder.String(),
		Size:     builder.Len(),
	}
}

// renderPassage formats one passage with its labeled source marker. The
// authority tier is part of the marker when known, so the model can weigh
// sources without inventing provenance.
func renderPassage(position int, passage models.RetrievedPassage) string {
	title := passage.Title
	if title == "" {
		title = passage.DocumentID
	}
	if passage.Tier != "" {
		return fmt.Sprintf("[Source %d: %s (%s tier)]\n%s\n\n", position, title, passage.Tier, passage.Text)
	}
	return fmt.Sprintf("[Source %d: %s]\n%s\n\n", position, title, passage.Text)
}

// dedupe collapses near-duplicate passages that share an originating
// document, keeping the higher-scoring instance. Input order (retrieval
// rank) is preserved, so the survivor is the earlier, higher-ranked one.
func (a *ContextAssembler) dedupe(passages []models.RetrievedPassage) []models.RetrievedPassage {
	if len(passages) < 2 {
		return passages
	}

	kept := make([]models.RetrievedPassage, 0, len(passages))
	keptTokens := make([]map[string]struct{}, 0, len(passages))

	for _, candidate := range passages {
		tokens := tokenSet(candidate.Text)

		duplicate := false
		for i, existing := range kept {
			if existing.DocumentID != candidate.DocumentID {
				continue
			}
			if jaccard(keptTokens[i], tokens) >= a.dedupThreshold {
				a.logger.Printf("Collapsing near-duplicate passage %s into %s (doc %s)",
					candidate.PassageID, existing.PassageID, candidate.DocumentID)
				duplicate = true
				break
			}
		}

		if !duplicate {
			kept = append(kept, candidate)
			keptTokens = append(keptTokens, tokens)
		}
	}

	return kept
}

// tokenSet tokenizes text into a lowercased token set. Tokenization uses
// prose; if the tokenizer fails, whitespace splitting keeps dedup working.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		for _, word := range strings.Fields(strings.ToLower(text)) {
			set[word] = struct{}{}
		}
		return set
	}

	for _, tok := range doc.Tokens() {
		set[strings.ToLower(tok.Text)] = struct{}{}
	}
	return set
}

// jaccard computes set intersection over union
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
