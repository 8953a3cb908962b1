// Package types provides type definitions for structured data used throughout the backgrounder system.
package types

import "time"

// AggregatedData holds everything the source fan-out collected for one
// person, after merging and deduplication.
type AggregatedData struct {
	LinkedIn          *Profile           `json:"linkedin,omitempty"`
	GitHubProfiles    []GitHubProfile    `json:"github_profiles,omitempty"`
	Resume            *ResumeData        `json:"resume,omitempty"`
	CompanyChecks     []CompanyCheck     `json:"company_checks,omitempty"`
	SocialProfiles    []SocialProfile    `json:"social_profiles,omitempty"`
	PhotoMatches      []PhotoMatch       `json:"photo_matches,omitempty"`
	ReferenceContacts []ReferenceContact `json:"reference_contacts,omitempty"`
	SearchResults     []SearchHit        `json:"search_results,omitempty"`
	NewsArticles      []SearchHit        `json:"news_articles,omitempty"`
	RawContext        string             `json:"raw_context,omitempty"`
}

// IdentityCheck captures the analyst model's judgement on whether the
// collected data describes a single person.
type IdentityCheck struct {
	Confidence             string   `json:"confidence,omitempty"`
	Reasoning              string   `json:"reasoning,omitempty"`
	MultiplePeopleDetected bool     `json:"multiple_people_detected"`
	ProfilesFound          []string `json:"profiles_found,omitempty"`
	CrossReferenceNotes    string   `json:"cross_reference_notes,omitempty"`
}

// Verdict is the analyst model's overall assessment of the person.
type Verdict struct {
	Rating          string   `json:"rating,omitempty"`
	Score           int      `json:"score,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	ResumeVsOnline  string   `json:"resume_vs_online,omitempty"`
	RedFlags        []string `json:"red_flags,omitempty"`
	GreenFlags      []string `json:"green_flags,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Report is the final deliverable of a background check run.
type Report struct {
	Name                   string             `json:"name"`
	GeneratedAt            time.Time          `json:"generated_at"`
	LinkedInProfile        *Profile           `json:"linkedin_profile,omitempty"`
	GitHubProfiles         []GitHubProfile    `json:"github_profiles,omitempty"`
	ResumeData             *ResumeData        `json:"resume_data,omitempty"`
	CompanyChecks          []CompanyCheck     `json:"company_checks,omitempty"`
	SocialProfiles         []SocialProfile    `json:"social_profiles,omitempty"`
	PhotoMatches           []PhotoMatch       `json:"photo_matches,omitempty"`
	ReferenceContacts      []ReferenceContact `json:"reference_contacts,omitempty"`
	Summary                string             `json:"summary"`
	ProfessionalBackground string             `json:"professional_background,omitempty"`
	KeyHighlights          []string           `json:"key_highlights,omitempty"`
	NewsMentions           []SearchHit        `json:"news_mentions,omitempty"`
	IdentityVerification   *IdentityCheck     `json:"identity_verification,omitempty"`
	Verdict                *Verdict           `json:"verdict,omitempty"`
	SourcesUsed            []string           `json:"sources_used,omitempty"`
	ProviderUsed           string             `json:"provider_used,omitempty"`
	ConfidenceNote         string             `json:"confidence_note,omitempty"`
}
