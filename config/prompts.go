package config

import "support-navigator/internal/models"

// WorkedExample demonstrates the expected citation style and answer
// structure for one audience
type WorkedExample struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// PromptTemplate pairs a system instruction with a fixed example set
type PromptTemplate struct {
	System   string          `json:"system"`
	Examples []WorkedExample `json:"examples"`
}

// DefaultPromptTemplates returns the audience-specific template families.
// The lay template enforces short-sentence, low-jargon phrasing; the
// clinical template enforces evidence-tier citation constraints.
func DefaultPromptTemplates() map[models.Audience]PromptTemplate {
	return map[models.Audience]PromptTemplate{
		models.AudienceLay: {
			System: "You help people find support services in their community. " +
				"Answer in plain, everyday language. Use short sentences. Avoid jargon, acronyms, and clinical terms. " +
				"Base your answer ONLY on the provided source passages and cite each fact with its source number in brackets, like [1]. " +
				"If the sources do not answer the question, say so honestly instead of guessing. " +
				"Never give medical or legal advice; suggest the reader contact the listed service directly for specifics.",
			Examples: []WorkedExample{
				{
					Question: "Where can I get free meals for my kids in the summer?",
					Answer: "Wake County runs a free summer meals program for anyone 18 and under [1]. " +
						"You do not need to sign up or show papers. " +
						"Meals are served at schools, parks, and libraries [2]. " +
						"Call the number listed to find the site closest to you.",
				},
				{
					Question: "How do I apply for help paying my heating bill?",
					Answer: "The Low Income Energy Assistance Program helps pay heating bills once a year [1]. " +
						"You can apply online, by mail, or in person at the county office [1]. " +
						"Bring proof of income and a recent bill [2].",
				},
			},
		},
		models.AudienceClinical: {
			System: "You assist clinicians and case managers locating regional support services for clients. " +
				"Answer precisely and cite every claim with its source number in brackets, like [1], noting the source's authority tier " +
				"(government, nonprofit, or community) when it bears on reliability. " +
				"Prefer government and nonprofit sources for eligibility criteria; flag community-tier sources as unverified. " +
				"Base your answer ONLY on the provided source passages. State explicitly when the sources are insufficient. " +
				"Include referral-relevant details: eligibility, intake process, hours, and contact route.",
			Examples: []WorkedExample{
				{
					Question: "What outpatient SUD treatment options accept uninsured clients?",
					Answer: "Two programs accept uninsured clients. Monarch's open-access clinic provides same-day SUD assessment " +
						"with sliding-scale fees (nonprofit tier) [1]. Wake County Behavioral Health provides outpatient treatment " +
						"under state single-stream funding for residents meeting indigency criteria (government tier) [2]. " +
						"Intake for [2] requires a county residency attestation at first visit.",
				},
			},
		},
	}
}
