package sources

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"backgrounder/internal/types"
	"backgrounder/internal/websearch"
)

// Platform names one platform and the site filters that find its profiles.
type Platform struct {
	Name  string
	Sites []string
}

// PlatformBatch groups platforms into one OR-combined site: query.
type PlatformBatch struct {
	Label     string
	Platforms []Platform
}

// DefaultPlatformBatches returns the scanned platform groups. Each batch
// costs one search query, two if the exact-name pass comes back empty.
func DefaultPlatformBatches() []PlatformBatch {
	return []PlatformBatch{
		{
			Label: "Major Social",
			Platforms: []Platform{
				{Name: "Twitter/X", Sites: []string{"twitter.com", "x.com"}},
				{Name: "Facebook", Sites: []string{"facebook.com"}},
				{Name: "Instagram", Sites: []string{"instagram.com"}},
				{Name: "Reddit", Sites: []string{"reddit.com/user"}},
			},
		},
		{
			Label: "Dev Platforms",
			Platforms: []Platform{
				{Name: "Stack Overflow", Sites: []string{"stackoverflow.com/users"}},
				{Name: "Medium", Sites: []string{"medium.com"}},
				{Name: "Dev.to", Sites: []string{"dev.to"}},
				{Name: "Hashnode", Sites: []string{"hashnode.dev"}},
				{Name: "HackerNoon", Sites: []string{"hackernoon.com"}},
			},
		},
		{
			Label: "Code Platforms",
			Platforms: []Platform{
				{Name: "GitLab", Sites: []string{"gitlab.com"}},
				{Name: "Bitbucket", Sites: []string{"bitbucket.org"}},
				{Name: "npm", Sites: []string{"npmjs.com/~"}},
				{Name: "PyPI", Sites: []string{"pypi.org/user"}},
				{Name: "HuggingFace", Sites: []string{"huggingface.co"}},
			},
		},
		{
			Label: "Creative Platforms",
			Platforms: []Platform{
				{Name: "Behance", Sites: []string{"behance.net"}},
				{Name: "Dribbble", Sites: []string{"dribbble.com"}},
				{Name: "Figma", Sites: []string{"figma.com/@"}},
				{Name: "CodePen", Sites: []string{"codepen.io"}},
			},
		},
		{
			Label: "Research & Competitions",
			Platforms: []Platform{
				{Name: "Kaggle", Sites: []string{"kaggle.com"}},
				{Name: "Google Scholar", Sites: []string{"scholar.google.com"}},
				{Name: "ResearchGate", Sites: []string{"researchgate.net/profile"}},
				{Name: "LeetCode", Sites: []string{"leetcode.com/u"}},
				{Name: "HackerRank", Sites: []string{"hackerrank.com/profile"}},
				{Name: "Codeforces", Sites: []string{"codeforces.com/profile"}},
			},
		},
		{
			Label: "Content Platforms",
			Platforms: []Platform{
				{Name: "YouTube", Sites: []string{"youtube.com"}},
				{Name: "Substack", Sites: []string{"substack.com"}},
				{Name: "Quora", Sites: []string{"quora.com/profile"}},
				{Name: "Speakerdeck", Sites: []string{"speakerdeck.com"}},
				{Name: "SlideShare", Sites: []string{"slideshare.net"}},
			},
		},
	}
}

// DefaultRetryPlatforms returns the platforms re-scanned individually with a
// relaxed query when the batched pass comes back nearly empty.
func DefaultRetryPlatforms() []Platform {
	return []Platform{
		{Name: "Twitter/X", Sites: []string{"twitter.com"}},
		{Name: "Instagram", Sites: []string{"instagram.com"}},
		{Name: "YouTube", Sites: []string{"youtube.com"}},
		{Name: "LeetCode", Sites: []string{"leetcode.com"}},
		{Name: "Medium", Sites: []string{"medium.com"}},
	}
}

// SocialScanner finds a person's accounts across social, dev, creative,
// research, and content platforms using batched site: queries.
type SocialScanner struct {
	search         websearch.Client
	batches        []PlatformBatch
	retryPlatforms []Platform
	retryThreshold int
}

// NewSocialScanner creates a scanner. retryThreshold is the profile count
// below which the relaxed retry pass runs; 0 disables it.
func NewSocialScanner(search websearch.Client, retryThreshold int) *SocialScanner {
	return &SocialScanner{
		search:         search,
		batches:        DefaultPlatformBatches(),
		retryPlatforms: DefaultRetryPlatforms(),
		retryThreshold: retryThreshold,
	}
}

// Scan searches every batch concurrently for the person's name. Company is
// deliberately left out of the queries; people rarely put employers in
// social handles. The result is deduplicated by URL in batch order.
func (s *SocialScanner) Scan(ctx context.Context, name string) ([]types.SocialProfile, error) {
	batchResults := make([][]types.SocialProfile, len(s.batches))
	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range s.batches {
		g.Go(func() error {
			profiles, err := s.searchBatch(gctx, name, batch)
			if err != nil {
				log.Printf("[SOURCE] social batch %q failed: %v", batch.Label, err)
				return nil
			}
			batchResults[i] = profiles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var profiles []types.SocialProfile
	seen := make(map[string]bool)
	for _, batch := range batchResults {
		for _, p := range batch {
			if seen[p.URL] {
				continue
			}
			seen[p.URL] = true
			profiles = append(profiles, p)
		}
	}

	// A near-empty first pass usually means the quoted name was too strict.
	if len(profiles) < s.retryThreshold {
		for _, p := range s.retryKeyPlatforms(ctx, name) {
			if seen[p.URL] {
				continue
			}
			seen[p.URL] = true
			profiles = append(profiles, p)
		}
	}

	return profiles, nil
}

func (s *SocialScanner) searchBatch(ctx context.Context, name string, batch PlatformBatch) ([]types.SocialProfile, error) {
	var allSites []string
	siteToPlatform := make(map[string]string)
	for _, platform := range batch.Platforms {
		for _, site := range platform.Sites {
			allSites = append(allSites, site)
			siteToPlatform[site] = platform.Name
		}
	}

	siteFilters := make([]string, len(allSites))
	for i, site := range allSites {
		siteFilters[i] = "site:" + site
	}
	siteQuery := strings.Join(siteFilters, " OR ")

	nameParts := strings.Fields(name)
	queries := []string{
		fmt.Sprintf(`(%s) "%s"`, siteQuery, name),
	}
	if len(nameParts) >= 2 {
		queries = append(queries, fmt.Sprintf(`(%s) %s %s`, siteQuery, nameParts[0], nameParts[len(nameParts)-1]))
	}

	var profiles []types.SocialProfile
	for _, query := range queries {
		hits, err := s.search.SearchRaw(ctx, query, 10)
		if err != nil {
			continue
		}
		for _, hit := range hits {
			if !mentionsName(hit.Title+" "+hit.Snippet, nameParts) {
				continue
			}
			platform := matchPlatform(hit.URL, allSites, siteToPlatform)
			if platform == "" {
				continue
			}
			snippet := hit.Snippet
			if snippet == "" {
				snippet = hit.Title
			}
			profiles = append(profiles, types.SocialProfile{
				Platform: platform,
				URL:      hit.URL,
				Username: ExtractSocialUsername(hit.URL, platform),
				Snippet:  truncate(snippet, 200),
			})
		}
		// The quoted pass found accounts; skip the relaxed query.
		if len(profiles) > 0 {
			break
		}
	}
	return profiles, nil
}

// retryKeyPlatforms re-scans the highest-signal platforms individually with
// a broad unquoted query.
func (s *SocialScanner) retryKeyPlatforms(ctx context.Context, name string) []types.SocialProfile {
	nameParts := strings.Fields(name)
	if len(nameParts) == 0 {
		return nil
	}

	results := make([][]types.SocialProfile, len(s.retryPlatforms))
	g, gctx := errgroup.WithContext(ctx)
	for i, platform := range s.retryPlatforms {
		g.Go(func() error {
			site := platform.Sites[0]
			query := fmt.Sprintf("site:%s %s", site, nameParts[0])
			if len(nameParts) > 1 {
				query += " " + nameParts[len(nameParts)-1]
			}

			hits, err := s.search.SearchRaw(gctx, query, 5)
			if err != nil {
				return nil
			}
			for _, hit := range hits {
				if !mentionsName(hit.Title+" "+hit.Snippet, nameParts) {
					continue
				}
				if !strings.Contains(hit.URL, site) {
					continue
				}
				snippet := hit.Snippet
				if snippet == "" {
					snippet = hit.Title
				}
				results[i] = append(results[i], types.SocialProfile{
					Platform: platform.Name,
					URL:      hit.URL,
					Username: ExtractSocialUsername(hit.URL, platform.Name),
					Snippet:  truncate(snippet, 200),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	var profiles []types.SocialProfile
	for _, r := range results {
		profiles = append(profiles, r...)
	}
	return profiles
}

// mentionsName reports whether any part of the person's name appears in the
// text. Weeds out generic platform pages that happen to rank for the query.
func mentionsName(text string, nameParts []string) bool {
	lower := strings.ToLower(text)
	for _, part := range nameParts {
		if strings.Contains(lower, strings.ToLower(part)) {
			return true
		}
	}
	return false
}

func matchPlatform(url string, sites []string, siteToPlatform map[string]string) string {
	urlLower := strings.ToLower(url)
	for _, site := range sites {
		cleanSite := strings.ReplaceAll(site, "*.", "")
		if strings.Contains(urlLower, cleanSite) {
			return siteToPlatform[site]
		}
	}
	return ""
}

// ExtractSocialUsername pulls a probable username out of a profile URL.
// Platforms with non-obvious URL layouts get dedicated handling; the rest
// fall through to the last path segment.
func ExtractSocialUsername(url, platform string) string {
	parts := splitPath(url)
	if len(parts) == 0 {
		return ""
	}

	switch {
	case strings.Contains(url, "stackoverflow"):
		for i, p := range parts {
			if p == "users" {
				if len(parts) > i+2 {
					return parts[i+2]
				}
				if len(parts) > i+1 {
					return parts[i+1]
				}
			}
		}
		return ""
	case strings.Contains(url, "medium.com"):
		for _, p := range parts {
			if strings.HasPrefix(p, "@") {
				return p
			}
		}
		last := parts[len(parts)-1]
		if last == "medium.com" {
			return ""
		}
		return last
	case strings.Contains(url, "reddit.com"):
		for i, p := range parts {
			if p == "user" && len(parts) > i+1 {
				return parts[i+1]
			}
		}
		return ""
	case strings.Contains(url, "scholar.google"):
		return ""
	case strings.Contains(url, "leetcode.com"),
		strings.Contains(url, "hackerrank.com"),
		strings.Contains(url, "codeforces.com"),
		strings.Contains(url, "huggingface.co"),
		strings.Contains(url, "codepen.io"):
		return parts[len(parts)-1]
	case strings.Contains(url, "figma.com"), strings.Contains(url, "youtube.com"):
		for _, p := range parts {
			if strings.HasPrefix(p, "@") {
				return p
			}
		}
		if strings.Contains(url, "youtube.com") {
			for _, p := range parts {
				if p == "channel" || p == "c" {
					return parts[len(parts)-1]
				}
			}
		}
	}

	last := parts[len(parts)-1]
	if strings.Contains(last, ".") {
		return ""
	}
	switch last {
	case "profile", "users", "user", "u":
		return ""
	}
	return last
}

func splitPath(url string) []string {
	var parts []string
	for _, p := range strings.Split(trimTrailingSlash(url), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
