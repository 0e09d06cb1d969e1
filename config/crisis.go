package config

import (
	"encoding/json"
	"os"
)

// CrisisTerms holds the tiered trigger-phrase lists used by the crisis
// classifier. The lists are read-only after load; matching is
// case-insensitive substring matching.
type CrisisTerms struct {
	Critical []string `json:"critical"`
	High     []string `json:"high"`
	Moderate []string `json:"moderate"`
}

// DefaultCrisisTerms returns the built-in trigger-phrase tiers
func DefaultCrisisTerms() CrisisTerms {
	return CrisisTerms{
		Critical: []string{
			"kill myself",
			"killing myself",
			"want to die",
			"end my life",
			"ending my life",
			"suicide",
			"suicidal",
			"better off dead",
			"hurt myself",
			"hurting myself",
			"harm myself",
			"self harm",
			"self-harm",
			"overdose",
		},
		High: []string{
			"no reason to live",
			"can't go on",
			"cant go on",
			"give up on life",
			"hopeless",
			"being abused",
			"he hits me",
			"she hits me",
			"afraid for my life",
			"in danger",
		},
		Moderate: []string{
			"depressed",
			"depression",
			"panic attack",
			"anxiety",
			"can't cope",
			"cant cope",
			"overwhelmed",
			"crisis",
			"desperate",
		},
	}
}

// LoadCrisisTerms reads trigger-phrase tiers from a JSON file, letting
// operators maintain the lists without a rebuild
func LoadCrisisTerms(path string) (CrisisTerms, error) {
	file, err := os.Open(path)
	if err != nil {
		return CrisisTerms{}, err
	}
	defer file.Close()

	var terms CrisisTerms
	if err := json.NewDecoder(file).Decode(&terms); err != nil {
		return CrisisTerms{}, err
	}

	return terms, nil
}
