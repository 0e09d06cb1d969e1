package services

import "errors"

// Pipeline stages that can fail independently. A stage failure degrades
// that stage's contribution to the envelope; it never aborts the request.
const (
	StageEmbedding  = "embedding"
	StageRetrieval  = "retrieval"
	StageGeneration = "generation"
	StageClassifier = "classifier"
)

// PipelineError identifies which pipeline stage failed and wraps the cause
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return e.Stage + " failure: " + e.Err.Error()
	}
	return e.Stage + " failure"
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewEmbeddingFailure wraps a fault from the embedding collaborator
func NewEmbeddingFailure(err error) *PipelineError {
	return &PipelineError{Stage: StageEmbedding, Err: err}
}

// NewRetrievalFailure wraps a fault from the vector-store collaborator
func NewRetrievalFailure(err error) *PipelineError {
	return &PipelineError{Stage: StageRetrieval, Err: err}
}

// NewGenerationFailure wraps a fault from the generative-model collaborator
func NewGenerationFailure(err error) *PipelineError {
	return &PipelineError{Stage: StageGeneration, Err: err}
}

// FailedStage returns the stage name if err is a pipeline error
func FailedStage(err error) (string, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage, true
	}
	return "", false
}

// ValidationError rejects a request before pipeline entry. It is the only
// error kind that aborts a query instead of degrading it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "invalid " + e.Field + ": " + e.Message
	}
	return e.Message
}

// NewValidationError creates a validation error for a named field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
