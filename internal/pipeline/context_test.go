package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backgrounder/internal/types"
)

func fullAggregate() *types.AggregatedData {
	return &types.AggregatedData{
		Resume: &types.ResumeData{
			Name:    "Jane Doe",
			Company: "Acme",
			Experience: []types.Experience{
				{Title: "Staff Engineer", Company: "Acme", Duration: "2021 - Present", Description: "Platform work."},
			},
			Education: []types.Education{{Degree: "BSc", School: "MIT", Year: "2012"}},
		},
		LinkedIn: &types.Profile{
			Name:       "Jane Doe",
			Headline:   "Staff Engineer at Acme",
			Experience: []string{"Staff Engineer at Acme (2021 - Present)"},
		},
		GitHubProfiles: []types.GitHubProfile{
			{Username: "janedoe", TopRepos: []types.GitHubRepo{{Name: "gizmo", Stars: 42, Language: "Go"}}},
		},
		SearchResults:     []types.SearchHit{{Title: "Jane at Acme", URL: "https://example.com/a", Snippet: "snippet", Source: "google (main)"}},
		NewsArticles:      []types.SearchHit{{Title: "Acme ships", URL: "https://news.example/1", Snippet: "news snippet"}},
		CompanyChecks:     []types.CompanyCheck{{Name: "Acme", Verified: true, Description: "Knowledge graph entry"}},
		SocialProfiles:    []types.SocialProfile{{Platform: "twitter", URL: "https://twitter.com/jane", Snippet: "posts"}},
		PhotoMatches:      []types.PhotoMatch{{URL: "https://pics.example/1", Title: "conference photo", Platform: "instagram"}},
		ReferenceContacts: []types.ReferenceContact{{Name: "Bob Ref", Title: "HR Lead", Company: "Acme", Category: "HR/People Ops", LinkedInURL: "https://linkedin.com/in/bobref"}},
	}
}

func TestAssembleContext_SectionOrderFixed(t *testing.T) {
	a := assembleContext(fullAggregate(), []string{"browser", "serpapi"})

	markers := []string{
		"[SOURCE: Uploaded Resume]",
		"[SOURCE: LinkedIn]",
		"[SOURCE: GitHub Profile #1]",
		"[google (main)]",
		"[news]",
		"[company]",
		"[social: twitter]",
		"[photo match [instagram]]",
		"[reference: HR/People Ops]",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(a.RawContext, m)
		require.GreaterOrEqual(t, idx, 0, "missing section marker %q", m)
		assert.Greater(t, idx, last, "section %q out of order", m)
		last = idx
	}

	assert.Equal(t, []string{
		"Resume (uploaded)",
		"LinkedIn (browser + serpapi)",
		"GitHub (1 profiles)",
		"Google (1 results)",
		"News (1 articles)",
		"Company Verify (1)",
		"Social Media (1)",
		"Reverse Photo (1 matches)",
		"References (1 contacts found)",
	}, a.SourcesUsed)
}

func TestAssembleContext_EmptySectionsOmitted(t *testing.T) {
	a := assembleContext(&types.AggregatedData{}, nil)

	assert.Empty(t, a.RawContext)
	assert.Empty(t, a.SourcesUsed)
	assert.Equal(t, noteNoProfile, a.Confidence)
}

func TestAssembleContext_ConfidenceNotes(t *testing.T) {
	full := &types.AggregatedData{LinkedIn: &types.Profile{Name: "Jane", Experience: []string{"x"}}}
	assert.Empty(t, assembleContext(full, []string{"browser"}).Confidence)

	partial := &types.AggregatedData{LinkedIn: &types.Profile{Name: "Jane", RawText: "wall of text"}}
	assert.Equal(t, notePartialProfile, assembleContext(partial, []string{"browser"}).Confidence)
}

func TestAssembleContext_CompanyCheckRendering(t *testing.T) {
	agg := &types.AggregatedData{CompanyChecks: []types.CompanyCheck{
		{Name: "Acme", Verified: true, Description: "real"},
		{Name: "Ghost Corp", Verified: false, Description: "no trace"},
	}}
	a := assembleContext(agg, nil)

	assert.Contains(t, a.RawContext, "Acme: VERIFIED")
	assert.Contains(t, a.RawContext, "Ghost Corp: NOT VERIFIED")
}

func TestAssembleContext_PartialProfileQuotesRawText(t *testing.T) {
	agg := &types.AggregatedData{LinkedIn: &types.Profile{
		Name:    "Jane Doe",
		RawText: strings.Repeat("x", 4000),
	}}
	a := assembleContext(agg, []string{"browser"})

	idx := strings.Index(a.RawContext, "Raw profile text:")
	require.GreaterOrEqual(t, idx, 0)
	// quoted text is capped
	assert.LessOrEqual(t, len(a.RawContext), 3200)
}

func TestResumeToText(t *testing.T) {
	text := resumeToText(&types.ResumeData{
		Name:       "Jane Doe",
		Title:      "Staff Engineer",
		Experience: []types.Experience{{Title: "Engineer", Company: "Globex", Duration: "2018 - 2021", Description: strings.Repeat("d", 300)}},
	})

	assert.Contains(t, text, "Name: Jane Doe")
	assert.Contains(t, text, "Current Title: Staff Engineer")
	assert.Contains(t, text, "Experience: Engineer at Globex (2018 - 2021)")
	assert.NotContains(t, text, strings.Repeat("d", 201)) // description capped
	assert.NotContains(t, text, "Email:")
}

func TestGithubToText(t *testing.T) {
	text := githubToText(&types.GitHubProfile{
		Username:    "janedoe",
		PublicRepos: 12,
		Followers:   99,
		TopRepos:    []types.GitHubRepo{{Name: "gizmo", Stars: 42}},
	}, 2)

	assert.Contains(t, text, "[SOURCE: GitHub Profile #2]")
	assert.Contains(t, text, "Public Repos: 12, Followers: 99")
	assert.Contains(t, text, "gizmo (N/A, 42 stars)")
}
