package services

import (
	"strings"

	"support-navigator/config"
	"support-navigator/internal/models"
)

// DisclaimerPolicy composes the static disclaimers for an answer. Topic
// disclaimers trigger on flagged subject areas in the query text and are
// independent of crisis status; the crisis disclaimer is a separate
// mechanism keyed on the assessment.
type DisclaimerPolicy struct {
	categories []config.TopicCategory
}

// NewDisclaimerPolicy creates a policy over the configured topic categories
func NewDisclaimerPolicy(categories []config.TopicCategory) *DisclaimerPolicy {
	return &DisclaimerPolicy{
		categories: categories,
	}
}

// Compose returns the ordered disclaimer list for the query: topic
// disclaimers in configuration order, then the crisis disclaimer when a
// crisis tier was detected, then the general disclaimer.
func (p *DisclaimerPolicy) Compose(queryText string, assessment models.CrisisAssessment) []string {
	lowered := strings.ToLower(queryText)

	disclaimers := make([]string, 0, len(p.categories)+2)
	for _, category := range p.categories {
		for _, keyword := range category.Keywords {
			if strings.Contains(lowered, keyword) {
				disclaimers = append(disclaimers, category.Disclaimer)
				break
			}
		}
	}

	if assessment.Detected() {
		disclaimers = append(disclaimers, config.CrisisDisclaimer)
	}

	disclaimers = append(disclaimers, config.GeneralDisclaimer)
	return disclaimers
}
