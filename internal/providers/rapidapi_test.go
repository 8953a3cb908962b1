package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backgrounder/internal/httpx"
	"backgrounder/internal/types"
)

func TestRapidAPIProvider_RequiresDirectURL(t *testing.T) {
	p := NewRapidAPIProvider(httpx.New(nil), "test-key", "example.p.rapidapi.com")

	profile, err := p.FetchProfile(context.Background(), &types.CheckRequest{Name: "Jane Doe"})
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestRapidAPIProvider_MapsAlternateFieldNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "jane-doe", r.URL.Query().Get("username"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"fullName": "Jane Doe",
			"headline": "Staff Engineer",
			"geo":      map[string]string{"full": "Lisbon, Portugal"},
			"about":    "Builds things.",
			"position": []map[string]string{
				{"title": "Staff Engineer", "companyName": "Acme", "dateRange": "2021 - Present"},
			},
			"educations": []map[string]string{
				{"schoolName": "MIT", "degreeName": "BSc", "fieldOfStudy": "CS"},
			},
			"skills": []map[string]string{{"name": "Go"}, {"name": "SQL"}},
		})
	}))
	defer srv.Close()

	p := NewRapidAPIProvider(httpx.New(nil), "test-key", "example.p.rapidapi.com")
	p.BaseURL = srv.URL

	profile, err := p.FetchProfile(context.Background(), &types.CheckRequest{
		Name:        "Jane Doe",
		LinkedInURL: "https://linkedin.com/in/jane-doe",
	})
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "Lisbon, Portugal", profile.Location)
	assert.Equal(t, "Builds things.", profile.Summary)
	assert.Equal(t, []string{"Staff Engineer at Acme (2021 - Present)"}, profile.Experience)
	assert.Equal(t, []string{"BSc in CS from MIT"}, profile.Education)
	assert.Equal(t, []string{"Go", "SQL"}, profile.Skills)
}

func TestParseRapidSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, parseRapidSkills(json.RawMessage(`["Go","SQL"]`)))
	assert.Equal(t, []string{"Go"}, parseRapidSkills(json.RawMessage(`[{"name":"Go"}]`)))
	assert.Nil(t, parseRapidSkills(nil))
	assert.Nil(t, parseRapidSkills(json.RawMessage(`"weird"`)))
}

func TestRapidAPIProvider_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewRapidAPIProvider(httpx.New(nil), "test-key", "example.p.rapidapi.com")
	p.BaseURL = srv.URL

	_, err := p.FetchProfile(context.Background(), &types.CheckRequest{
		Name:        "Jane Doe",
		LinkedInURL: "https://linkedin.com/in/jane-doe",
	})
	assert.Error(t, err)
}
