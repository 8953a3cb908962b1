// Package types provides type definitions for structured data used throughout the backgrounder system.
package types

// Profile represents a LinkedIn profile assembled by one of the providers.
// Fields a provider could not extract stay empty; RawText preserves whatever
// page text was captured so the report generator can still reason over it.
type Profile struct {
	URL            string   `json:"url,omitempty"`
	Name           string   `json:"name,omitempty"`
	Headline       string   `json:"headline,omitempty"`
	Location       string   `json:"location,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	Experience     []string `json:"experience,omitempty"`
	Education      []string `json:"education,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	RawText        string   `json:"raw_text,omitempty"`
}

// IsPartial reports whether the profile carries raw page text but no
// structured experience entries, i.e. extraction only partially succeeded.
func (p *Profile) IsPartial() bool {
	return p != nil && len(p.Experience) == 0 && p.RawText != ""
}

// SearchHit represents a single web or news search result.
type SearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Source  string `json:"source,omitempty"`
}
