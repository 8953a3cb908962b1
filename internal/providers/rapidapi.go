package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"backgrounder/internal/httpx"
	"backgrounder/internal/types"
)

// RapidAPIProvider fetches profiles through a RapidAPI LinkedIn data host.
// It can only work from a direct profile URL; discovery is left to the
// search-backed providers running alongside it.
type RapidAPIProvider struct {
	// BaseURL may be overridden in tests; defaults to https://<host>/.
	BaseURL string

	http   *httpx.Client
	apiKey string
	host   string
}

// NewRapidAPIProvider creates a RapidAPI-backed profile provider.
func NewRapidAPIProvider(client *httpx.Client, apiKey, host string) *RapidAPIProvider {
	return &RapidAPIProvider{
		BaseURL: "https://" + host + "/",
		http:    client,
		apiKey:  apiKey,
		host:    host,
	}
}

// Name implements Provider.
func (p *RapidAPIProvider) Name() types.Provider {
	return types.ProviderRapidAPI
}

// RapidAPI hosts disagree on field names, so every field has alternates.
type rapidExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	CompanyName string `json:"companyName"`
	Duration    string `json:"duration"`
	DateRange   string `json:"dateRange"`
}

type rapidEducation struct {
	School       string `json:"school"`
	SchoolName   string `json:"schoolName"`
	Degree       string `json:"degree"`
	DegreeName   string `json:"degreeName"`
	FieldOfStudy string `json:"fieldOfStudy"`
}

type rapidProfile struct {
	FullName    string `json:"full_name"`
	FullNameAlt string `json:"fullName"`
	Headline    string `json:"headline"`
	Location    string `json:"location"`
	Geo         struct {
		Full string `json:"full"`
	} `json:"geo"`
	Summary     string            `json:"summary"`
	About       string            `json:"about"`
	Position    []rapidExperience `json:"position"`
	Experiences []rapidExperience `json:"experiences"`
	Educations  []rapidEducation  `json:"educations"`
	Education   []rapidEducation  `json:"education"`
	Skills      json.RawMessage   `json:"skills"`
}

// FetchProfile implements Provider.
func (p *RapidAPIProvider) FetchProfile(ctx context.Context, req *types.CheckRequest) (*types.Profile, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("rapidapi: no API key configured")
	}
	if req.LinkedInURL == "" {
		return nil, nil
	}

	username := ProfileSlug(req.LinkedInURL)
	if username == "" {
		username = lastPathSegment(req.LinkedInURL)
	}

	var data rapidProfile
	err := p.http.GetJSON(ctx, p.BaseURL,
		url.Values{"username": {username}},
		map[string]string{
			"X-RapidAPI-Key":  p.apiKey,
			"X-RapidAPI-Host": p.host,
		},
		&data)
	if err != nil {
		return nil, fmt.Errorf("rapidapi profile fetch failed: %w", err)
	}

	profile := &types.Profile{
		URL:      req.LinkedInURL,
		Name:     firstNonEmpty(data.FullName, data.FullNameAlt),
		Headline: data.Headline,
		Location: firstNonEmpty(data.Location, data.Geo.Full),
		Summary:  firstNonEmpty(data.Summary, data.About),
		Skills:   parseRapidSkills(data.Skills),
	}

	experiences := data.Position
	if len(experiences) == 0 {
		experiences = data.Experiences
	}
	for _, exp := range experiences {
		company := firstNonEmpty(exp.CompanyName, exp.Company)
		duration := firstNonEmpty(exp.Duration, exp.DateRange)
		profile.Experience = append(profile.Experience,
			fmt.Sprintf("%s at %s (%s)", exp.Title, company, duration))
	}

	educations := data.Educations
	if len(educations) == 0 {
		educations = data.Education
	}
	for _, edu := range educations {
		entry := firstNonEmpty(edu.DegreeName, edu.Degree)
		if edu.FieldOfStudy != "" {
			entry += " in " + edu.FieldOfStudy
		}
		if school := firstNonEmpty(edu.SchoolName, edu.School); school != "" {
			entry += " from " + school
		}
		profile.Education = append(profile.Education, strings.TrimSpace(entry))
	}

	return profile, nil
}

// parseRapidSkills accepts either ["Go", "SQL"] or [{"name": "Go"}, ...].
func parseRapidSkills(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	var objects []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &objects); err == nil {
		var skills []string
		for _, o := range objects {
			if o.Name != "" {
				skills = append(skills, o.Name)
			}
		}
		return skills
	}
	return nil
}

func lastPathSegment(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
