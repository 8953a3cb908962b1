// Package types provides type definitions for structured data used throughout the backgrounder system.
package types

// CompanyCheck represents the verification outcome for one resume company.
type CompanyCheck struct {
	Name        string `json:"name"`
	Verified    bool   `json:"verified"`
	EvidenceURL string `json:"evidence_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// SocialProfile represents a social or content platform account attributed
// to the person.
type SocialProfile struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Username string `json:"username,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
}

// PhotoMatch represents one reverse image search match.
type PhotoMatch struct {
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Source    string `json:"source,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

// PhotoSearchResult bundles the two outputs of a reverse image search:
// raw visual matches and any platform profiles recognized among them.
type PhotoSearchResult struct {
	VisualMatches []PhotoMatch    `json:"visual_matches,omitempty"`
	Profiles      []SocialProfile `json:"profiles,omitempty"`
}

// ReferenceContact represents a potential reference discovered at one of the
// person's companies.
type ReferenceContact struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Category    string `json:"category,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
}
