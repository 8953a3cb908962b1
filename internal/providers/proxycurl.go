package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"backgrounder/internal/httpx"
	"backgrounder/internal/types"
)

// Proxycurl API endpoints.
const (
	DefaultProxycurlProfileURL = "https://nubela.co/proxycurl/api/v2/linkedin"
	DefaultProxycurlSearchURL  = "https://nubela.co/proxycurl/api/search/person"
)

// ProxycurlProvider fetches structured profiles from the Proxycurl API.
type ProxycurlProvider struct {
	// ProfileURL and SearchURL may be overridden in tests.
	ProfileURL string
	SearchURL  string

	http   *httpx.Client
	apiKey string
}

// NewProxycurlProvider creates a Proxycurl-backed profile provider.
func NewProxycurlProvider(client *httpx.Client, apiKey string) *ProxycurlProvider {
	return &ProxycurlProvider{
		ProfileURL: DefaultProxycurlProfileURL,
		SearchURL:  DefaultProxycurlSearchURL,
		http:       client,
		apiKey:     apiKey,
	}
}

// Name implements Provider.
func (p *ProxycurlProvider) Name() types.Provider {
	return types.ProviderProxycurl
}

type proxycurlDate struct {
	Year int `json:"year"`
}

type proxycurlExperience struct {
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	Description string         `json:"description"`
	StartsAt    *proxycurlDate `json:"starts_at"`
	EndsAt      *proxycurlDate `json:"ends_at"`
}

type proxycurlEducation struct {
	School       string `json:"school"`
	DegreeName   string `json:"degree_name"`
	FieldOfStudy string `json:"field_of_study"`
}

type proxycurlProfile struct {
	FullName        string                `json:"full_name"`
	Headline        string                `json:"headline"`
	City            string                `json:"city"`
	CountryFullName string                `json:"country_full_name"`
	Summary         string                `json:"summary"`
	Experiences     []proxycurlExperience `json:"experiences"`
	Education       []proxycurlEducation  `json:"education"`
	Skills          []string              `json:"skills"`
}

// FetchProfile implements Provider.
func (p *ProxycurlProvider) FetchProfile(ctx context.Context, req *types.CheckRequest) (*types.Profile, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("proxycurl: no API key configured")
	}

	profileURL := req.LinkedInURL
	if profileURL == "" {
		resolved, err := p.resolveURL(ctx, req)
		if err != nil {
			return nil, err
		}
		profileURL = resolved
	}
	if profileURL == "" {
		return nil, nil
	}

	var data proxycurlProfile
	err := p.http.GetJSON(ctx, p.ProfileURL,
		url.Values{"url": {profileURL}},
		map[string]string{"Authorization": "Bearer " + p.apiKey},
		&data)
	if err != nil {
		return nil, fmt.Errorf("proxycurl profile fetch failed: %w", err)
	}

	location := data.City
	if location == "" {
		location = data.CountryFullName
	}

	profile := &types.Profile{
		URL:      profileURL,
		Name:     data.FullName,
		Headline: data.Headline,
		Location: location,
		Summary:  data.Summary,
		Skills:   data.Skills,
	}
	for _, exp := range data.Experiences {
		profile.Experience = append(profile.Experience,
			fmt.Sprintf("%s at %s (%s)", exp.Title, exp.Company, formatYears(exp.StartsAt, exp.EndsAt)))
	}
	for _, edu := range data.Education {
		entry := edu.DegreeName
		if edu.FieldOfStudy != "" {
			entry += " in " + edu.FieldOfStudy
		}
		if edu.School != "" {
			entry += " from " + edu.School
		}
		profile.Education = append(profile.Education, strings.TrimSpace(entry))
	}
	return profile, nil
}

// resolveURL searches Proxycurl's person index by name and current company.
func (p *ProxycurlProvider) resolveURL(ctx context.Context, req *types.CheckRequest) (string, error) {
	nameParts := strings.Fields(req.Name)
	params := url.Values{"first_name": {nameParts[0]}}
	if len(nameParts) > 1 {
		params.Set("last_name", strings.Join(nameParts[1:], " "))
	}
	if req.Company != "" {
		params.Set("current_company_name", req.Company)
	}
	if req.Location != "" {
		params.Set("country", req.Location)
	}

	var data struct {
		Results []struct {
			LinkedInProfileURL string `json:"linkedin_profile_url"`
		} `json:"results"`
	}
	err := p.http.GetJSON(ctx, p.SearchURL, params,
		map[string]string{"Authorization": "Bearer " + p.apiKey}, &data)
	if err != nil {
		return "", fmt.Errorf("proxycurl person search failed: %w", err)
	}
	if len(data.Results) == 0 {
		return "", nil
	}
	return data.Results[0].LinkedInProfileURL, nil
}

func formatYears(start, end *proxycurlDate) string {
	from := ""
	if start != nil && start.Year != 0 {
		from = fmt.Sprintf("%d", start.Year)
	}
	to := "Present"
	if end != nil && end.Year != 0 {
		to = fmt.Sprintf("%d", end.Year)
	}
	return from + " - " + to
}
