// Package sources implements the secondary data fetchers behind the
// aggregation tasks: GitHub accounts, company verification, social platform
// scans, reference discovery, and reverse photo search.
package sources

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"sort"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"backgrounder/internal/types"
)

// MaxGitHubCandidates bounds how many accounts a name search expands.
const MaxGitHubCandidates = 5

// MaxTopRepos bounds how many repositories a profile summarizes.
const MaxTopRepos = 5

var githubUsernameRe = regexp.MustCompile(`github\.com/([a-zA-Z0-9_-]+)/?$`)

// ExtractGitHubUsername pulls the username out of a GitHub profile URL.
// Repository and organization sub-paths do not match.
func ExtractGitHubUsername(url string) string {
	m := githubUsernameRe.FindStringSubmatch(trimTrailingSlash(url))
	if m == nil {
		return ""
	}
	return m[1]
}

// GitHubFetcher finds and hydrates GitHub accounts for a person.
type GitHubFetcher struct {
	client  *gh.Client
	limiter *rate.Limiter
}

// NewGitHubFetcher creates a fetcher. A token raises the API quota; without
// one the fetcher runs against the anonymous limits, throttled proactively.
func NewGitHubFetcher(ctx context.Context, token string) *GitHubFetcher {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = 30 * time.Second
	}
	return &GitHubFetcher{
		client:  gh.NewClient(httpClient),
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// NewGitHubFetcherWithClient creates a fetcher around an existing go-github
// client. Used by tests to point at a stub server.
func NewGitHubFetcherWithClient(client *gh.Client) *GitHubFetcher {
	return &GitHubFetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

// SearchUsers searches GitHub for accounts matching a query and hydrates
// each candidate. Candidates that disappear between search and fetch are
// skipped, not fatal.
func (f *GitHubFetcher) SearchUsers(ctx context.Context, query string) ([]types.GitHubProfile, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, _, err := f.client.Search.Users(ctx, query, &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: MaxGitHubCandidates},
	})
	if err != nil {
		return nil, fmt.Errorf("github user search failed for %q: %w", query, err)
	}

	var profiles []types.GitHubProfile
	for _, user := range result.Users {
		if len(profiles) == MaxGitHubCandidates {
			break
		}
		profile, err := f.FetchUser(ctx, user.GetLogin())
		if err != nil {
			log.Printf("[SOURCE] github: skipping candidate %s: %v", user.GetLogin(), err)
			continue
		}
		if profile != nil {
			profiles = append(profiles, *profile)
		}
	}
	return profiles, nil
}

// FetchUser hydrates a single account by exact username, including its top
// repositories by stars. A missing user returns (nil, nil).
func (f *GitHubFetcher) FetchUser(ctx context.Context, username string) (*types.GitHubProfile, error) {
	if username == "" {
		return nil, nil
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	user, resp, err := f.client.Users.Get(ctx, username)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("github user fetch failed for %q: %w", username, err)
	}

	profile := &types.GitHubProfile{
		Username:    user.GetLogin(),
		URL:         user.GetHTMLURL(),
		Name:        user.GetName(),
		Bio:         user.GetBio(),
		Company:     user.GetCompany(),
		Location:    user.GetLocation(),
		Blog:        user.GetBlog(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
	}
	profile.TopRepos = f.topRepos(ctx, username)
	return profile, nil
}

// topRepos returns up to MaxTopRepos repositories sorted by stars. Repo
// listing failures degrade to an empty list; the profile itself still counts.
func (f *GitHubFetcher) topRepos(ctx context.Context, username string) []types.GitHubRepo {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil
	}

	repos, _, err := f.client.Repositories.ListByUser(ctx, username, &gh.RepositoryListByUserOptions{
		Sort:        "pushed",
		ListOptions: gh.ListOptions{PerPage: 30},
	})
	if err != nil {
		log.Printf("[SOURCE] github: repo listing failed for %s: %v", username, err)
		return nil
	}

	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].GetStargazersCount() > repos[j].GetStargazersCount()
	})

	var out []types.GitHubRepo
	for _, r := range repos {
		if len(out) == MaxTopRepos {
			break
		}
		out = append(out, types.GitHubRepo{
			Name:        r.GetName(),
			Description: r.GetDescription(),
			Stars:       r.GetStargazersCount(),
			Language:    r.GetLanguage(),
			URL:         r.GetHTMLURL(),
		})
	}
	return out
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
