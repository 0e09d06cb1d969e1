package config

// TopicCategory flags a query subject area that always carries a static
// safety disclaimer, independent of crisis status
type TopicCategory struct {
	Name       string   `json:"name"`
	Keywords   []string `json:"keywords"`
	Disclaimer string   `json:"disclaimer"`
}

// CrisisDisclaimer is appended whenever a crisis tier is detected
const CrisisDisclaimer = "If you are in immediate danger, call 911 or go to the nearest emergency room."

// GeneralDisclaimer is appended to every answer
const GeneralDisclaimer = "This information is provided for navigation purposes and may not reflect current service availability. Contact services directly to confirm."

// DefaultTopicCategories returns the flagged topic categories and their
// disclaimers
func DefaultTopicCategories() []TopicCategory {
	return []TopicCategory{
		{
			Name: "medical",
			Keywords: []string{
				"medication", "diagnosis", "treatment", "symptom", "prescription",
				"therapy", "doctor", "medical",
			},
			Disclaimer: "This is not medical advice. Consult a licensed healthcare provider about diagnosis, treatment, or medication.",
		},
		{
			Name: "legal",
			Keywords: []string{
				"custody", "eviction", "lawsuit", "lawyer", "legal", "immigration",
				"court", "restraining order",
			},
			Disclaimer: "This is not legal advice. Contact a licensed attorney or legal aid organization for your situation.",
		},
		{
			Name: "benefits",
			Keywords: []string{
				"medicaid", "medicare", "snap", "food stamps", "disability benefits",
				"social security", "unemployment",
			},
			Disclaimer: "Benefit eligibility rules change. Verify current requirements with the administering agency before applying.",
		},
	}
}
