package services

import (
	"support-navigator/internal/models"
)

// RelevanceTransform converts a similarity score into the citation display
// score. The store's similarity already passes through unchanged by
// default; the transform exists so deployments can rescale it without
// touching the pipeline.
type RelevanceTransform func(similarity float32) float32

// IdentityRelevance passes the similarity score through unchanged
func IdentityRelevance(similarity float32) float32 {
	return similarity
}

// CitationMapper derives display-ready citations from the assembled
// context: a one-to-one, order-preserving transform with no re-scoring.
type CitationMapper struct {
	transform RelevanceTransform
}

// NewCitationMapper creates a mapper. A nil transform means identity.
func NewCitationMapper(transform RelevanceTransform) *CitationMapper {
	if transform == nil {
		transform = IdentityRelevance
	}
	return &CitationMapper{
		transform: transform,
	}
}

// MapCitations maps each context passage to one citation in the same
// order. An empty context yields an empty list, which callers must not
// treat as an error.
func (m *CitationMapper) MapCitations(context models.AssembledContext) []models.Citation {
	citations := make([]models.Citation, 0, len(context.Passages))
	for _, passage := range context.Passages {
		title := passage.Title
		if title == "" {
			title = passage.DocumentID
		}
		citations = append(citations, models.Citation{
			Title:          title,
			URL:            passage.URL,
			RelevanceScore: m.transform(passage.Score),
		})
	}
	return citations
}
