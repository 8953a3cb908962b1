package sources

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backgrounder/internal/types"
)

func TestReferenceFinder_Discover(t *testing.T) {
	search := &fakeSearch{
		rawFn: func(query string, _ int) ([]types.SearchHit, error) {
			switch {
			case strings.Contains(query, "Human Resources"):
				return []types.SearchHit{
					hit("Pat Jones - HR Manager - Acme Corp | LinkedIn",
						"https://www.linkedin.com/in/pat-jones", "HR at Acme Corp"),
				}, nil
			case strings.Contains(query, "Founder OR CEO"):
				return []types.SearchHit{
					hit("Sam Lee - CTO - Acme Corp | LinkedIn",
						"https://www.linkedin.com/in/sam-lee", "CTO at Acme Corp"),
					// The person themselves must be skipped.
					hit("Jane Smith - Staff Engineer - Acme Corp | LinkedIn",
						"https://www.linkedin.com/in/jane-smith", "Staff Engineer"),
				}, nil
			case strings.HasSuffix(query, `"Acme Corp"`):
				return []types.SearchHit{
					// Duplicate of the HR hit via the broad query.
					hit("Pat Jones - HR Manager - Acme Corp | LinkedIn",
						"https://www.linkedin.com/in/pat-jones", "HR at Acme Corp"),
					hit("Acme careers page", "https://acme.example.com/careers", "join us"),
				}, nil
			default:
				return nil, nil
			}
		},
	}
	finder := NewReferenceFinder(search)

	req := &types.CheckRequest{Name: "Jane Smith", Company: "Acme Corp", Title: "Staff Engineer"}
	contacts, err := finder.Discover(context.Background(), req, nil)
	require.NoError(t, err)

	require.Len(t, contacts, 2)
	assert.Equal(t, "Pat Jones", contacts[0].Name)
	assert.Equal(t, "HR Manager", contacts[0].Title)
	assert.Equal(t, "HR / People Ops", contacts[0].Category)
	assert.Equal(t, "Sam Lee", contacts[1].Name)
	assert.Equal(t, "Management", contacts[1].Category)

	for _, c := range contacts {
		assert.NotEqual(t, "Jane Smith", c.Name, "the person themselves must never be a reference")
	}
}

func TestReferenceFinder_SameDepartmentQuery(t *testing.T) {
	search := &fakeSearch{}
	finder := NewReferenceFinder(search)

	req := &types.CheckRequest{Name: "Jane Smith", Company: "Acme Corp", Title: "Backend Engineer"}
	_, err := finder.Discover(context.Background(), req, nil)
	require.NoError(t, err)

	found := false
	for _, q := range search.recorded() {
		if strings.Contains(q, "Backend OR API OR Server") {
			found = true
		}
	}
	assert.True(t, found, "a known title should add a Same Department query")
}

func TestReferenceFinder_CapsCompanies(t *testing.T) {
	search := &fakeSearch{}
	finder := NewReferenceFinder(search)

	resume := &types.ResumeData{
		Experience: []types.Experience{
			{Company: "Co One"}, {Company: "Co Two"}, {Company: "Co Three"},
			{Company: "Co Four"}, {Company: "Co Five"},
		},
	}
	req := &types.CheckRequest{Name: "Jane Smith", Company: "Current Co"}
	_, err := finder.Discover(context.Background(), req, resume)
	require.NoError(t, err)

	for _, q := range search.recorded() {
		assert.NotContains(t, q, "Co Four", "only the first four companies may be queried")
		assert.NotContains(t, q, "Co Five")
	}
}

func TestReferenceFinder_NoCompanies(t *testing.T) {
	finder := NewReferenceFinder(&fakeSearch{})
	contacts, err := finder.Discover(context.Background(), &types.CheckRequest{Name: "Jane Smith"}, nil)
	require.NoError(t, err)
	assert.Nil(t, contacts)
}

func TestParseLinkedInTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		wantName string
		wantRole string
	}{
		{
			name:     "full three part title",
			title:    "Pat Jones - HR Manager - Acme Corp | LinkedIn",
			wantName: "Pat Jones",
			wantRole: "HR Manager",
		},
		{
			name:     "en dash separators",
			title:    "Sam Lee – CTO – Acme Corp – LinkedIn",
			wantName: "Sam Lee",
			wantRole: "CTO",
		},
		{
			name:     "name only",
			title:    "Pat Jones | LinkedIn",
			wantName: "Pat Jones",
			wantRole: "",
		},
		{
			name:     "empty",
			title:    "",
			wantName: "",
			wantRole: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, role := ParseLinkedInTitle(tt.title)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantRole, role)
		})
	}
}
