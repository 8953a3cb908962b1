package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request CheckRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid request",
			request: CheckRequest{
				Name:     "Jane Smith",
				Company:  "Acme Corp",
				Title:    "Staff Engineer",
				Provider: ProviderBrowser,
			},
			wantErr: false,
		},
		{
			name: "name only",
			request: CheckRequest{
				Name: "Jane Smith",
			},
			wantErr: false,
		},
		{
			name:    "missing name",
			request: CheckRequest{Company: "Acme Corp"},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name: "malformed linkedin url",
			request: CheckRequest{
				Name:        "Jane Smith",
				LinkedInURL: "not-a-url",
			},
			wantErr: true,
			errMsg:  "url",
		},
		{
			name: "malformed photo url",
			request: CheckRequest{
				Name:     "Jane Smith",
				PhotoURL: "::",
			},
			wantErr: true,
			errMsg:  "url",
		},
		{
			name: "unknown provider",
			request: CheckRequest{
				Name:     "Jane Smith",
				Provider: Provider("scraper9000"),
			},
			wantErr: true,
			errMsg:  "unknown provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Provider
		wantErr bool
	}{
		{name: "empty stays empty", input: "", want: Provider("")},
		{name: "serpapi", input: "serpapi", want: ProviderSerpAPI},
		{name: "mixed case", input: "ProxyCurl", want: ProviderProxycurl},
		{name: "surrounding whitespace", input: " rapidapi ", want: ProviderRapidAPI},
		{name: "unknown", input: "selenium", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProvider(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckRequest_FillFromResume(t *testing.T) {
	resume := &ResumeData{
		Company:     "Resume Corp",
		Title:       "Resume Title",
		Location:    "Resume City",
		LinkedInURL: "https://linkedin.com/in/resume-person",
	}

	t.Run("fills only empty fields", func(t *testing.T) {
		req := CheckRequest{
			Name:    "Jane Smith",
			Company: "Typed Corp",
		}
		req.FillFromResume(resume)

		assert.Equal(t, "Typed Corp", req.Company, "caller-provided field must win")
		assert.Equal(t, "Resume Title", req.Title)
		assert.Equal(t, "Resume City", req.Location)
		assert.Equal(t, "https://linkedin.com/in/resume-person", req.LinkedInURL)
	})

	t.Run("nil resume is a no-op", func(t *testing.T) {
		req := CheckRequest{Name: "Jane Smith"}
		req.FillFromResume(nil)
		assert.Empty(t, req.Company)
	})

	t.Run("never touches name", func(t *testing.T) {
		req := CheckRequest{Name: "Jane Smith"}
		req.FillFromResume(&ResumeData{Name: "Someone Else"})
		assert.Equal(t, "Jane Smith", req.Name)
	})
}
