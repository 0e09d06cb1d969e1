package config

import (
	"encoding/json"
	"os"

	"support-navigator/internal/models"
)

// DefaultCrisisResources returns the built-in crisis resource directory.
// These are the guaranteed fallback when the operator-managed directory in
// Redis is unavailable: a detected crisis must always ship with resources.
func DefaultCrisisResources() []models.CrisisResource {
	return []models.CrisisResource{
		{
			Name:        "988 Suicide & Crisis Lifeline",
			Phone:       "988",
			Description: "Free, confidential crisis support, 24/7. Call or text 988.",
			URL:         "https://988lifeline.org",
			Priority:    1,
		},
		{
			Name:        "Crisis Text Line",
			Phone:       "741741",
			Description: "Text HOME to 741741 to reach a trained crisis counselor.",
			URL:         "https://www.crisistextline.org",
			Priority:    2,
		},
		{
			Name:        "HopeLine NC",
			Phone:       "919-231-4525",
			Description: "Crisis intervention and suicide prevention line serving the Triangle area.",
			URL:         "https://www.hopeline-nc.org",
			Priority:    3,
		},
		{
			Name:        "Wake County Crisis and Assessment Services",
			Phone:       "984-974-4830",
			Description: "Walk-in mental health crisis assessment, open 24 hours.",
			Priority:    4,
		},
	}
}

// LoadCrisisResources reads a resource directory from a JSON file
func LoadCrisisResources(path string) ([]models.CrisisResource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var resources []models.CrisisResource
	if err := json.NewDecoder(file).Decode(&resources); err != nil {
		return nil, err
	}

	return resources, nil
}
