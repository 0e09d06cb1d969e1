package services

import (
	"strings"

	"support-navigator/config"
	"support-navigator/internal/models"
)

// Prompt is the fully interpolated input for the generation collaborator
type Prompt struct {
	System string
	User   string
}

// noSourcesInstruction replaces the context block when retrieval produced
// nothing usable, so the model degrades honestly instead of fabricating
// grounding
const noSourcesInstruction = "No relevant sources were found for this question. " +
	"Say that you could not find specific local information, and suggest the person " +
	"contact 211 or their county's human services department. Do not invent services, " +
	"phone numbers, or eligibility rules."

// PromptBuilder selects the audience template family and interpolates the
// assembled context and user question. Interpolation is pure string
// composition; the only branching is template selection by audience.
type PromptBuilder struct {
	templates map[models.Audience]config.PromptTemplate
}

// NewPromptBuilder creates a builder over the configured template families
func NewPromptBuilder(templates map[models.Audience]config.PromptTemplate) *PromptBuilder {
	return &PromptBuilder{
		templates: templates,
	}
}

// Build constructs the prompt for the query and context. An audience with
// no configured template is a validation error, never a silent default.
func (b *PromptBuilder) Build(query models.Query, context models.AssembledContext) (*Prompt, error) {
	template, ok := b.templates[query.Audience]
	if !ok {
		return nil, NewValidationError("audience", "no template configured for audience: "+string(query.Audience))
	}

	var system strings.Builder
	system.WriteString(template.System)
	if len(template.Examples) > 0 {
		system.WriteString("\n\nExamples of the expected answer style:\n")
		for _, example := range template.Examples {
			system.WriteString("\nQ: ")
			system.WriteString(example.Question)
			system.WriteString("\nA: ")
			system.WriteString(example.Answer)
			system.WriteString("\n")
		}
	}

	var user strings.Builder
	if context.Empty() {
		user.WriteString(noSourcesInstruction)
	} else {
		user.WriteString("Source passages:\n\n")
		user.WriteString(context.Text)
	}
	user.WriteString("\nQuestion: ")
	user.WriteString(query.Text)

	return &Prompt{
		System: system.String(),
		User:   user.String(),
	}, nil
}
