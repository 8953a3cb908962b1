package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubGitHub(t *testing.T, mux *http.ServeMux) *GitHubFetcher {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := gh.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return NewGitHubFetcherWithClient(client)
}

func TestGitHubFetcher_FetchUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/janesmith", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"login": "janesmith",
			"html_url": "https://github.com/janesmith",
			"name": "Jane Smith",
			"bio": "Distributed systems",
			"company": "@acme",
			"location": "Berlin",
			"blog": "https://janesmith.dev",
			"public_repos": 12,
			"followers": 340,
			"following": 10
		}`))
	})
	mux.HandleFunc("GET /users/janesmith/repos", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"name": "small", "stargazers_count": 2, "language": "Go", "html_url": "https://github.com/janesmith/small"},
			{"name": "big", "description": "popular", "stargazers_count": 900, "language": "Go", "html_url": "https://github.com/janesmith/big"},
			{"name": "mid", "stargazers_count": 40, "language": "Rust", "html_url": "https://github.com/janesmith/mid"}
		]`))
	})
	fetcher := newStubGitHub(t, mux)

	profile, err := fetcher.FetchUser(context.Background(), "janesmith")
	require.NoError(t, err)
	require.NotNil(t, profile)

	assert.Equal(t, "janesmith", profile.Username)
	assert.Equal(t, "Jane Smith", profile.Name)
	assert.Equal(t, 12, profile.PublicRepos)
	require.Len(t, profile.TopRepos, 3)
	assert.Equal(t, "big", profile.TopRepos[0].Name, "repos must be ordered by stars")
	assert.Equal(t, 900, profile.TopRepos[0].Stars)
	assert.Equal(t, "mid", profile.TopRepos[1].Name)
}

func TestGitHubFetcher_FetchUser_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/ghost", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})
	fetcher := newStubGitHub(t, mux)

	profile, err := fetcher.FetchUser(context.Background(), "ghost")
	require.NoError(t, err, "a missing user is not an error")
	assert.Nil(t, profile)
}

func TestGitHubFetcher_FetchUser_RepoFailureDegrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/janesmith", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"login": "janesmith", "html_url": "https://github.com/janesmith"}`))
	})
	mux.HandleFunc("GET /users/janesmith/repos", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	fetcher := newStubGitHub(t, mux)

	profile, err := fetcher.FetchUser(context.Background(), "janesmith")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Empty(t, profile.TopRepos)
}

func TestGitHubFetcher_SearchUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "Jane Smith")
		_, _ = w.Write([]byte(`{
			"total_count": 2,
			"items": [{"login": "janesmith"}, {"login": "ghost"}]
		}`))
	})
	mux.HandleFunc("GET /users/janesmith", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"login": "janesmith", "html_url": "https://github.com/janesmith"}`))
	})
	mux.HandleFunc("GET /users/janesmith/repos", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /users/ghost", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	})
	fetcher := newStubGitHub(t, mux)

	profiles, err := fetcher.SearchUsers(context.Background(), `Jane Smith location:Berlin`)
	require.NoError(t, err)
	require.Len(t, profiles, 1, "vanished candidates are skipped")
	assert.Equal(t, "janesmith", profiles[0].Username)
}

func TestExtractGitHubUsername(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain profile", "https://github.com/janesmith", "janesmith"},
		{"trailing slash", "https://github.com/janesmith/", "janesmith"},
		{"repo path does not match", "https://github.com/janesmith/dotfiles", ""},
		{"not github", "https://gitlab.com/janesmith", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractGitHubUsername(tt.url))
		})
	}
}
