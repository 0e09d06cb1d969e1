package services

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"support-navigator/config"
	"support-navigator/internal/models"
)

// ============================================================================
// Test Setup
// ============================================================================

func setupTestClassifier(t *testing.T, audit AuditSink) *CrisisClassifier {
	logger := log.New(os.Stdout, "[TEST] ", log.LstdFlags)
	return NewCrisisClassifier(config.DefaultCrisisTerms(), audit, logger)
}

// ============================================================================
// Tests
// ============================================================================

func TestClassify_CriticalPhrase(t *testing.T) {
	classifier := setupTestClassifier(t, nil)

	tests := []struct {
		name string
		text string
	}{
		{"Lowercase", "i want to kill myself"},
		{"Uppercase", "I WANT TO KILL MYSELF"},
		{"Mixed case", "I Want To Kill Myself"},
		{"Embedded in sentence", "sometimes I think about how I could kill myself after work"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := classifier.Classify(tt.text)

			assert.Equal(t, models.SeverityCritical, assessment.Severity)
			assert.True(t, assessment.Detected())
			assert.Contains(t, assessment.MatchedTerms, "kill myself")
		})
	}
}

func TestClassify_NoSignals(t *testing.T) {
	classifier := setupTestClassifier(t, nil)

	tests := []struct {
		name string
		text string
	}{
		{"Ordinary question", "What food banks are open on weekends?"},
		{"Empty text", ""},
		{"Whitespace only", "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := classifier.Classify(tt.text)

			assert.Equal(t, models.SeverityNone, assessment.Severity)
			assert.False(t, assessment.Detected())
			assert.Empty(t, assessment.MatchedTerms)
		})
	}
}

func TestClassify_HighestTierWins(t *testing.T) {
	classifier := setupTestClassifier(t, nil)

	// "depressed" is moderate, "hopeless" is high, "want to die" is critical
	assessment := classifier.Classify("I feel depressed and hopeless and I want to die")

	assert.Equal(t, models.SeverityCritical, assessment.Severity)
	assert.Contains(t, assessment.MatchedTerms, "depressed")
	assert.Contains(t, assessment.MatchedTerms, "hopeless")
	assert.Contains(t, assessment.MatchedTerms, "want to die")
}

func TestClassify_MatchedTermsOrderedByAppearance(t *testing.T) {
	classifier := setupTestClassifier(t, nil)

	assessment := classifier.Classify("I feel hopeless and depressed")

	assert.Equal(t, []string{"hopeless", "depressed"}, assessment.MatchedTerms)
}

func TestClassify_Deterministic(t *testing.T) {
	classifier := setupTestClassifier(t, nil)

	text := "I am overwhelmed and can't cope and feel hopeless"
	first := classifier.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, classifier.Classify(text))
	}
}

func TestClassify_ModerateAndHighTiers(t *testing.T) {
	classifier := setupTestClassifier(t, nil)

	tests := []struct {
		name     string
		text     string
		expected models.Severity
	}{
		{"Moderate only", "I have been feeling depressed lately", models.SeverityModerate},
		{"High only", "I am being abused at home", models.SeverityHigh},
		{"High over moderate", "I am in crisis and afraid for my life", models.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := classifier.Classify(tt.text)
			assert.Equal(t, tt.expected, assessment.Severity)
		})
	}
}

func TestClassify_EmitsAuditOnDetection(t *testing.T) {
	mockAudit := new(MockAuditSink)
	mockAudit.On("RecordAssessment", mock.Anything, mock.MatchedBy(func(record *models.CrisisAuditRecord) bool {
		return record.Severity == models.SeverityCritical && len(record.MatchedTerms) > 0
	})).Return(nil)

	classifier := setupTestClassifier(t, mockAudit)
	assessment := classifier.Classify("thinking about suicide")

	assert.Equal(t, models.SeverityCritical, assessment.Severity)

	// Audit emission is async; give it a beat
	assert.Eventually(t, func() bool {
		return len(mockAudit.Calls) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestClassify_NoAuditWithoutDetection(t *testing.T) {
	mockAudit := new(MockAuditSink)

	classifier := setupTestClassifier(t, mockAudit)
	classifier.Classify("Where can I get help with my taxes?")

	time.Sleep(50 * time.Millisecond)
	mockAudit.AssertNotCalled(t, "RecordAssessment", mock.Anything, mock.Anything)
}

func TestClassify_AuditFailureDoesNotAffectAssessment(t *testing.T) {
	mockAudit := new(MockAuditSink)
	mockAudit.On("RecordAssessment", mock.Anything, mock.Anything).Return(assert.AnError)

	classifier := setupTestClassifier(t, mockAudit)
	assessment := classifier.Classify("thinking about suicide")

	assert.Equal(t, models.SeverityCritical, assessment.Severity)
	assert.True(t, assessment.Detected())
}

func TestSeverityMax(t *testing.T) {
	assert.Equal(t, models.SeverityCritical, models.SeverityHigh.Max(models.SeverityCritical))
	assert.Equal(t, models.SeverityCritical, models.SeverityCritical.Max(models.SeverityNone))
	assert.Equal(t, models.SeverityModerate, models.SeverityNone.Max(models.SeverityModerate))
	assert.Equal(t, models.SeverityHigh, models.SeverityHigh.Max(models.SeverityHigh))
}
