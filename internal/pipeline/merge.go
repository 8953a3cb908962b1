package pipeline

import (
	"strings"

	"backgrounder/internal/types"
)

// profileDomain is handled by the dedicated profile providers; hits on it
// are dropped from general web results.
const profileDomain = "linkedin.com"

// profileScore is the weighted completeness heuristic used to choose among
// provider candidates. The weights favor structured work history over prose.
func profileScore(p *types.Profile) int {
	score := 0
	if p.Name != "" {
		score++
	}
	if p.Headline != "" {
		score++
	}
	if p.Summary != "" {
		score += 2
	}
	if p.Location != "" {
		score++
	}
	score += len(p.Experience) * 3
	score += len(p.Education) * 2
	score += len(p.Skills)
	return score
}

// PickBestProfile selects the highest-scoring non-nil candidate. Ties keep
// the first-seen maximum; nil when no candidate exists.
func PickBestProfile(candidates []*types.Profile) *types.Profile {
	var best *types.Profile
	bestScore := -1
	for _, p := range candidates {
		if p == nil {
			continue
		}
		if score := profileScore(p); score > bestScore {
			bestScore = score
			best = p
		}
	}
	return best
}

// mergedResults is the deduplicated outcome of the search-shaped tasks.
type mergedResults struct {
	Google []types.SearchHit
	News   []types.SearchHit
	GitHub []types.GitHubProfile
}

// mergeSearchResults walks the search tasks in build order and keeps the
// first occurrence per identity key: URL for web and news hits (one shared
// set, so a page surfaced by both keeps its first attribution), username for
// GitHub profiles. Kept web hits are annotated with the task that surfaced
// them.
func mergeSearchResults(tasks []Task, results map[string]*TaskResult) mergedResults {
	var merged mergedResults
	seenURLs := make(map[string]bool)
	seenUsernames := make(map[string]bool)

	for _, t := range tasks {
		res := results[t.ID]
		if res == nil {
			continue
		}
		switch t.Kind {
		case KindWebSearch:
			for _, hit := range res.Hits {
				if seenURLs[hit.URL] || strings.Contains(hit.URL, profileDomain) {
					continue
				}
				seenURLs[hit.URL] = true
				hit.Source = "google (" + taskSuffix(t.ID) + ")"
				merged.Google = append(merged.Google, hit)
			}
		case KindNewsSearch:
			for _, hit := range res.Hits {
				if seenURLs[hit.URL] {
					continue
				}
				seenURLs[hit.URL] = true
				merged.News = append(merged.News, hit)
			}
		case KindGitHubSearch, KindGitHubUser:
			for _, profile := range res.GitHub {
				if seenUsernames[profile.Username] {
					continue
				}
				seenUsernames[profile.Username] = true
				merged.GitHub = append(merged.GitHub, profile)
			}
		}
	}
	return merged
}

// taskSuffix is the provenance part of a task ID: everything after the
// first colon ("google:company:Acme" -> "company:Acme").
func taskSuffix(id string) string {
	if _, suffix, ok := strings.Cut(id, ":"); ok {
		return suffix
	}
	return id
}

// appendSocialProfiles adds extras (typically photo-derived profiles) whose
// URL is not already present.
func appendSocialProfiles(existing, extras []types.SocialProfile) []types.SocialProfile {
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.URL] = true
	}
	for _, p := range extras {
		if seen[p.URL] {
			continue
		}
		seen[p.URL] = true
		existing = append(existing, p)
	}
	return existing
}
