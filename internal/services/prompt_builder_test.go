package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"support-navigator/config"
	"support-navigator/internal/models"
)

func setupTestPromptBuilder() *PromptBuilder {
	return NewPromptBuilder(config.DefaultPromptTemplates())
}

func testContext() models.AssembledContext {
	return models.AssembledContext{
		Passages: []models.RetrievedPassage{
			{PassageID: "p1", DocumentID: "doc1", Title: "Housing Guide", Text: "Rental assistance is available.", Score: 0.9},
		},
		Text: "[Source 1: Housing Guide]\nRental assistance is available.\n\n",
		Size: 48,
	}
}

func TestBuild_LayAudience(t *testing.T) {
	builder := setupTestPromptBuilder()
	query := models.Query{Text: "How do I apply for rental assistance?", Audience: models.AudienceLay}

	prompt, err := builder.Build(query, testContext())

	assert.NoError(t, err)
	assert.NotNil(t, prompt)
	assert.NotEmpty(t, prompt.System)
	assert.Contains(t, prompt.User, "Source passages:")
	assert.Contains(t, prompt.User, "Rental assistance is available.")
	assert.Contains(t, prompt.User, "Question: How do I apply for rental assistance?")
}

func TestBuild_AudiencesGetDifferentSystemPrompts(t *testing.T) {
	builder := setupTestPromptBuilder()
	context := testContext()

	layPrompt, err := builder.Build(models.Query{Text: "q", Audience: models.AudienceLay}, context)
	assert.NoError(t, err)

	clinicalPrompt, err := builder.Build(models.Query{Text: "q", Audience: models.AudienceClinical}, context)
	assert.NoError(t, err)

	assert.NotEqual(t, layPrompt.System, clinicalPrompt.System)
	// Same context and question produce the same user message
	assert.Equal(t, layPrompt.User, clinicalPrompt.User)
}

func TestBuild_UnknownAudienceIsValidationError(t *testing.T) {
	builder := setupTestPromptBuilder()
	query := models.Query{Text: "q", Audience: models.Audience("expert")}

	prompt, err := builder.Build(query, testContext())

	assert.Error(t, err)
	assert.Nil(t, prompt)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "audience", validationErr.Field)
}

func TestBuild_EmptyContextUsesNoSourcesInstruction(t *testing.T) {
	builder := setupTestPromptBuilder()
	query := models.Query{Text: "Where can I find a dentist?", Audience: models.AudienceLay}

	prompt, err := builder.Build(query, models.AssembledContext{})

	assert.NoError(t, err)
	assert.Contains(t, prompt.User, "No relevant sources were found")
	assert.NotContains(t, prompt.User, "Source passages:")
	assert.Contains(t, prompt.User, "Question: Where can I find a dentist?")
}

func TestBuild_Deterministic(t *testing.T) {
	builder := setupTestPromptBuilder()
	query := models.Query{Text: "How do I get a bus pass?", Audience: models.AudienceClinical}
	context := testContext()

	first, err := builder.Build(query, context)
	assert.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := builder.Build(query, context)
		assert.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
