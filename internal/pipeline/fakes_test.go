package pipeline

import (
	"context"
	"fmt"
	"strings"

	"backgrounder/internal/report"
	"backgrounder/internal/types"
)

// fakeSearch scripts web and news results per query substring.
type fakeSearch struct {
	web  map[string][]types.SearchHit // key: substring of the query
	news map[string][]types.SearchHit
	err  error
}

func matchHits(m map[string][]types.SearchHit, query string) []types.SearchHit {
	for key, hits := range m {
		if key == "*" || strings.Contains(query, key) {
			return hits
		}
	}
	return nil
}

func (f *fakeSearch) Search(_ context.Context, query string) ([]types.SearchHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return matchHits(f.web, query), nil
}

func (f *fakeSearch) SearchNews(_ context.Context, query string) ([]types.SearchHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return matchHits(f.news, query), nil
}

func (f *fakeSearch) SearchRaw(_ context.Context, query string, _ int) ([]types.SearchHit, error) {
	return f.Search(context.Background(), query)
}

// fakeFetcher is a scripted profile provider.
type fakeFetcher struct {
	name    types.Provider
	profile *types.Profile
	err     error
}

func (f *fakeFetcher) Name() types.Provider { return f.name }

func (f *fakeFetcher) FetchProfile(context.Context, *types.CheckRequest) (*types.Profile, error) {
	return f.profile, f.err
}

// providerTable builds a ProviderFor func over scripted fetchers. Providers
// not in the table fail at construction, like a missing API key would.
func providerTable(fetchers ...*fakeFetcher) func(types.Provider) (ProfileFetcher, error) {
	byName := make(map[types.Provider]*fakeFetcher, len(fetchers))
	for _, f := range fetchers {
		byName[f.name] = f
	}
	return func(p types.Provider) (ProfileFetcher, error) {
		f, ok := byName[p]
		if !ok {
			return nil, fmt.Errorf("provider %s not configured", p)
		}
		return f, nil
	}
}

type fakeGitHub struct {
	searchResults []types.GitHubProfile
	user          *types.GitHubProfile
	err           error
}

func (f *fakeGitHub) SearchUsers(context.Context, string) ([]types.GitHubProfile, error) {
	return f.searchResults, f.err
}

func (f *fakeGitHub) FetchUser(context.Context, string) (*types.GitHubProfile, error) {
	return f.user, f.err
}

type fakeCompanies struct {
	checks []types.CompanyCheck
	got    []string
	err    error
}

func (f *fakeCompanies) CheckCompanies(_ context.Context, companies []string) ([]types.CompanyCheck, error) {
	f.got = companies
	return f.checks, f.err
}

type fakeSocial struct {
	profiles []types.SocialProfile
	err      error
}

func (f *fakeSocial) Scan(context.Context, string) ([]types.SocialProfile, error) {
	return f.profiles, f.err
}

type fakeReferences struct {
	contacts []types.ReferenceContact
	err      error
}

func (f *fakeReferences) Discover(context.Context, *types.CheckRequest, *types.ResumeData) ([]types.ReferenceContact, error) {
	return f.contacts, f.err
}

type fakePhoto struct {
	result *types.PhotoSearchResult
	err    error
}

func (f *fakePhoto) Search(context.Context, string) (*types.PhotoSearchResult, error) {
	return f.result, f.err
}

// fakeSummarizer records the aggregate it saw and returns a canned analysis.
type fakeSummarizer struct {
	analysis *report.Analysis
	sawAgg   *types.AggregatedData
	sawReq   *types.CheckRequest
}

func (f *fakeSummarizer) Generate(_ context.Context, req *types.CheckRequest, agg *types.AggregatedData) *report.Analysis {
	f.sawReq = req
	f.sawAgg = agg
	if f.analysis != nil {
		return f.analysis
	}
	return &report.Analysis{Summary: "canned summary"}
}

// newTestRunner wires a Runner whose sources all return empty results.
// Tests override individual collaborators.
func newTestRunner() *Runner {
	return &Runner{
		Search:      &fakeSearch{},
		ProviderFor: providerTable(&fakeFetcher{name: types.ProviderBrowser}, &fakeFetcher{name: types.ProviderSerpAPI}),
		GitHub:      &fakeGitHub{},
		Companies:   &fakeCompanies{},
		Social:      &fakeSocial{},
		References:  &fakeReferences{},
		Photo:       &fakePhoto{},
		Reports:     &fakeSummarizer{},
	}
}
