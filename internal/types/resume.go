// Package types provides type definitions for structured data used throughout the backgrounder system.
package types

import "strings"

// Experience represents a single role extracted from a resume.
type Experience struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Education represents a single school entry extracted from a resume.
type Education struct {
	Degree string `json:"degree,omitempty"`
	School string `json:"school,omitempty"`
	Year   string `json:"year,omitempty"`
}

// ResumeData represents the structured fields extracted from an uploaded resume.
// When extraction fails only RawText is populated.
type ResumeData struct {
	Name           string       `json:"name,omitempty"`
	Email          string       `json:"email,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Location       string       `json:"location,omitempty"`
	Title          string       `json:"title,omitempty"`
	Company        string       `json:"company,omitempty"`
	LinkedInURL    string       `json:"linkedin_url,omitempty"`
	GitHubURL      string       `json:"github_url,omitempty"`
	Website        string       `json:"website,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
	Experience     []Experience `json:"experience,omitempty"`
	Education      []Education  `json:"education,omitempty"`
	Certifications []string     `json:"certifications,omitempty"`
	KeySearchTerms []string     `json:"key_search_terms,omitempty"`
	RawText        string       `json:"raw_text,omitempty"`
}

// PastCompanies returns the distinct companies from the experience section,
// excluding the current company (case-insensitive), in first-seen order.
func (r *ResumeData) PastCompanies(current string) []string {
	if r == nil {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, exp := range r.Experience {
		co := exp.Company
		if co == "" {
			continue
		}
		key := lowerTrim(co)
		if seen[key] || (current != "" && key == lowerTrim(current)) {
			continue
		}
		seen[key] = true
		out = append(out, co)
	}
	return out
}

// AllCompanies returns the current company plus every experience company,
// deduplicated case-insensitively in first-seen order.
func (r *ResumeData) AllCompanies(current string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(co string) {
		if co == "" {
			return
		}
		key := lowerTrim(co)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, co)
	}
	add(current)
	if r != nil {
		for _, exp := range r.Experience {
			add(exp.Company)
		}
	}
	return out
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
