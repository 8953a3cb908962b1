package providers

import (
	"context"
	"strings"

	"backgrounder/internal/types"
	"backgrounder/internal/websearch"
)

// SerpAPIProvider resolves profiles through search results alone: it never
// touches linkedin.com, so it works without credentials but only sees what
// the search engine indexed (name, headline, a snippet).
type SerpAPIProvider struct {
	search websearch.Client
}

// NewSerpAPIProvider creates a search-backed profile provider.
func NewSerpAPIProvider(search websearch.Client) *SerpAPIProvider {
	return &SerpAPIProvider{search: search}
}

// Name implements Provider.
func (p *SerpAPIProvider) Name() types.Provider {
	return types.ProviderSerpAPI
}

// FetchProfile implements Provider. With a direct URL it returns a minimal
// profile immediately; the browser provider runs concurrently and fills in
// the full data.
func (p *SerpAPIProvider) FetchProfile(ctx context.Context, req *types.CheckRequest) (*types.Profile, error) {
	if req.LinkedInURL != "" {
		slug := ProfileSlug(req.LinkedInURL)
		if slug == "" {
			return nil, nil
		}
		return &types.Profile{
			URL:  req.LinkedInURL,
			Name: slugToName(slug),
		}, nil
	}

	hit := discoverProfileHit(ctx, p.search, req)
	if hit == nil {
		return nil, nil
	}

	// Search result titles look like "Jane Doe - Staff Engineer - Acme".
	name, headline, _ := strings.Cut(hit.Title, " - ")
	name = strings.TrimSpace(name)
	headline = strings.TrimSpace(headline)
	if headline == "" {
		headline = truncate(hit.Snippet, 200)
	}

	return &types.Profile{
		URL:      hit.URL,
		Name:     name,
		Headline: headline,
		RawText:  hit.Snippet,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
