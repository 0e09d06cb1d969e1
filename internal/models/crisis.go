package models

import "time"

// Severity is the crisis tier assigned by keyword matching
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank orders tiers so the highest matching tier wins
var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityModerate: 1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the numeric order of the severity (higher is more severe)
func (s Severity) Rank() int {
	return severityRank[s]
}

// Max returns the more severe of the two tiers
func (s Severity) Max(other Severity) Severity {
	if other.Rank() > s.Rank() {
		return other
	}
	return s
}

// CrisisAssessment is the result of classifying a query for crisis signals.
// It is a pure function of the query text and never depends on retrieval
// or generation results.
type CrisisAssessment struct {
	Severity     Severity `json:"severity"`
	MatchedTerms []string `json:"matched_terms"`
}

// Detected reports whether any crisis tier matched
func (a CrisisAssessment) Detected() bool {
	return a.Severity != SeverityNone
}

// CrisisResource is a support service surfaced when a crisis is detected
type CrisisResource struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Priority    int    `json:"priority"`
}

// CrisisAuditRecord is the de-identified record emitted for every non-none
// classification. It carries severity and matched phrases only, never the
// raw query text.
type CrisisAuditRecord struct {
	ID           string    `json:"id"`
	Severity     Severity  `json:"severity"`
	MatchedTerms []string  `json:"matched_terms"`
	CreatedAt    time.Time `json:"created_at"`
}
