// Package providers implements the LinkedIn profile fetchers. Each provider
// turns a check request into at most one Profile; which providers run for a
// given check is decided by the pipeline, not here.
package providers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"backgrounder/internal/config"
	"backgrounder/internal/httpx"
	"backgrounder/internal/types"
	"backgrounder/internal/websearch"
)

// Provider fetches a LinkedIn profile for a check request. A nil profile
// with a nil error means the provider found nothing.
type Provider interface {
	Name() types.Provider
	FetchProfile(ctx context.Context, req *types.CheckRequest) (*types.Profile, error)
}

// Deps carries the shared collaborators a provider may need. Everything is
// constructed by the caller; providers hold no global state.
type Deps struct {
	HTTP     *httpx.Client
	Search   websearch.Client
	Settings *config.Settings
}

// New constructs a provider by name. The set is closed; ParseProvider has
// already rejected unknown names at the request boundary.
func New(name types.Provider, deps Deps) (Provider, error) {
	switch name {
	case types.ProviderSerpAPI:
		return NewSerpAPIProvider(deps.Search), nil
	case types.ProviderBrowser:
		return NewBrowserProvider(deps.Search, deps.Settings), nil
	case types.ProviderProxycurl:
		return NewProxycurlProvider(deps.HTTP, deps.Settings.ProxycurlAPIKey), nil
	case types.ProviderRapidAPI:
		return NewRapidAPIProvider(deps.HTTP, deps.Settings.RapidAPIKey, deps.Settings.RapidAPIHost), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

var profileSlugRe = regexp.MustCompile(`linkedin\.com/in/([^/?#]+)`)

// ProfileSlug extracts the profile identifier from a LinkedIn URL, or "".
func ProfileSlug(url string) string {
	m := profileSlugRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// buildSearchQuery assembles the standard name-based discovery query.
func buildSearchQuery(req *types.CheckRequest) string {
	parts := []string{req.Name}
	if req.Company != "" {
		parts = append(parts, req.Company)
	}
	if req.Title != "" {
		parts = append(parts, req.Title)
	}
	if req.Location != "" {
		parts = append(parts, req.Location)
	}
	parts = append(parts, "LinkedIn")
	return strings.Join(parts, " ")
}

// discoverProfileHit runs progressively broader site-scoped searches until a
// hit looks like the right person (first name present in the result title).
func discoverProfileHit(ctx context.Context, search websearch.Client, req *types.CheckRequest) *types.SearchHit {
	queries := []string{buildSearchQuery(req)}
	if req.Company != "" {
		queries = append(queries, fmt.Sprintf("%s %s", req.Name, req.Company))
	}
	queries = append(queries, fmt.Sprintf("%q", req.Name))

	firstName := strings.ToLower(strings.Fields(req.Name)[0])
	for _, query := range queries {
		hits, err := search.SearchRaw(ctx, "site:linkedin.com/in/ "+query, 5)
		if err != nil {
			continue
		}
		for _, hit := range hits {
			if !strings.Contains(hit.URL, "linkedin.com/in/") {
				continue
			}
			if !strings.Contains(strings.ToLower(hit.Title), firstName) {
				continue
			}
			return &hit
		}
	}
	return nil
}

// slugToName converts a profile slug like "jane-doe-123" to "Jane Doe 123".
func slugToName(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
