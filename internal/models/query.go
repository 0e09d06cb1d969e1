package models

// Audience identifies the requested response style for a query
type Audience string

const (
	AudienceClinical Audience = "clinical"
	AudienceLay      Audience = "lay"
)

// IsValid checks whether the audience is one of the supported values
func (a Audience) IsValid() bool {
	return a == AudienceClinical || a == AudienceLay
}

// Query represents a single user question entering the pipeline.
// It is created per request and discarded after the response is returned;
// the session ID is used for correlation only and is never persisted
// together with the query text.
type Query struct {
	Text      string   `json:"text"`
	Audience  Audience `json:"audience"`
	SessionID string   `json:"session_id"`
}

// QueryRequest is the inbound payload for the query endpoint
type QueryRequest struct {
	Text      string `json:"text" validate:"required,max=2000"`
	Audience  string `json:"audience" validate:"required,oneof=clinical lay"`
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	UseCache  bool   `json:"use_cache"`
}
