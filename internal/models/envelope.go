package models

// GeneratedAnswer is the raw generation output plus the IDs of the passages
// that were supplied as context (the model may not have used all of them)
type GeneratedAnswer struct {
	Text       string   `json:"text"`
	PassageIDs []string `json:"passage_ids"`
	Fallback   bool     `json:"fallback"`
}

// ResponseEnvelope is the externally visible contract returned to the caller.
// If crisis severity is not none, CrisisResources is guaranteed non-empty
// regardless of any retrieval or generation failure.
type ResponseEnvelope struct {
	Answer          string           `json:"answer"`
	Citations       []Citation       `json:"citations"`
	CrisisDetected  bool             `json:"crisisDetected"`
	CrisisSeverity  *string          `json:"crisisSeverity"`
	CrisisResources []CrisisResource `json:"crisisResources"`
	Disclaimers     []string         `json:"disclaimers"`
}

// BasicResponse is a generic message/status payload for simple endpoints
type BasicResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
