package models

// SourceTier classifies the authority of an originating document
type SourceTier string

const (
	TierGovernment SourceTier = "government"
	TierNonprofit  SourceTier = "nonprofit"
	TierCommunity  SourceTier = "community"
)

// RetrievedPassage is a candidate unit produced by the retrieval engine.
// It is read-only after retrieval and never persisted beyond the request.
type RetrievedPassage struct {
	PassageID  string     `json:"passage_id"`
	DocumentID string     `json:"document_id"`
	Text       string     `json:"text"`
	Score      float32    `json:"score"` // similarity in [0,1], higher is better
	Title      string     `json:"title"`
	URL        string     `json:"url,omitempty"`
	Tier       SourceTier `json:"tier,omitempty"`
}

// AssembledContext is an ordered, deduplicated subset of retrieved passages
// packed under the configured context budget. Text is the rendered block
// handed to prompt construction; Size is its length in characters.
type AssembledContext struct {
	Passages []RetrievedPassage `json:"passages"`
	Text     string             `json:"text"`
	Size     int                `json:"size"`
}

// Empty reports whether no passage made it into the context
func (c AssembledContext) Empty() bool {
	return len(c.Passages) == 0
}

// Citation is the display-ready source reference for one context passage
type Citation struct {
	Title          string  `json:"title"`
	URL            string  `json:"url,omitempty"`
	RelevanceScore float32 `json:"relevanceScore"`
}
