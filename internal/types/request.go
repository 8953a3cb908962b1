// Package types provides type definitions for structured data used throughout the backgrounder system.
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Provider identifies a LinkedIn profile fetch strategy. The set is closed:
// unknown names are rejected at request validation time, never dispatched on.
type Provider string

// Supported profile providers.
const (
	ProviderSerpAPI   Provider = "serpapi"
	ProviderBrowser   Provider = "browser"
	ProviderProxycurl Provider = "proxycurl"
	ProviderRapidAPI  Provider = "rapidapi"
)

// DefaultProvider is used when a request does not name one.
const DefaultProvider = ProviderBrowser

// ParseProvider normalizes a provider name from a request form. An empty
// name stays empty; the runner resolves it against its configured default.
func ParseProvider(name string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return "", nil
	case ProviderSerpAPI:
		return ProviderSerpAPI, nil
	case ProviderBrowser:
		return ProviderBrowser, nil
	case ProviderProxycurl:
		return ProviderProxycurl, nil
	case ProviderRapidAPI:
		return ProviderRapidAPI, nil
	default:
		return "", fmt.Errorf("unknown provider %q", name)
	}
}

// CheckRequest represents a background check request for a single person.
type CheckRequest struct {
	Name        string   `json:"name" validate:"required,min=1"`
	Company     string   `json:"company,omitempty"`
	Location    string   `json:"location,omitempty"`
	Title       string   `json:"title,omitempty"`
	LinkedInURL string   `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	PhotoURL    string   `json:"photo_url,omitempty" validate:"omitempty,url"`
	Provider    Provider `json:"provider,omitempty"`
}

// Validate validates the CheckRequest using the validator.
func (r *CheckRequest) Validate() error {
	if r.Provider != "" {
		if _, err := ParseProvider(string(r.Provider)); err != nil {
			return err
		}
	}
	validate := validator.New()
	return validate.Struct(r)
}

// FillFromResume copies resume-extracted fields into the request, but only
// where the request field is empty. Fields the caller typed always win.
func (r *CheckRequest) FillFromResume(resume *ResumeData) {
	if resume == nil {
		return
	}
	if r.Company == "" && resume.Company != "" {
		r.Company = resume.Company
	}
	if r.Title == "" && resume.Title != "" {
		r.Title = resume.Title
	}
	if r.Location == "" && resume.Location != "" {
		r.Location = resume.Location
	}
	if r.LinkedInURL == "" && resume.LinkedInURL != "" {
		r.LinkedInURL = resume.LinkedInURL
	}
}
