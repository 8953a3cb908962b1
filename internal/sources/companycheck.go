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

// CompanyChecker verifies that resume companies actually exist.
type CompanyChecker struct {
	search websearch.EntitySearcher
}

// NewCompanyChecker creates a checker on top of an entity search backend.
func NewCompanyChecker(search websearch.EntitySearcher) *CompanyChecker {
	return &CompanyChecker{search: search}
}

// CheckCompanies verifies each company concurrently. The returned slice is
// ordered like the input; one check per company, always. A failed search
// yields an unverified check rather than dropping the company.
func (c *CompanyChecker) CheckCompanies(ctx context.Context, companies []string) ([]types.CompanyCheck, error) {
	if len(companies) == 0 {
		return nil, nil
	}

	checks := make([]types.CompanyCheck, len(companies))
	g, ctx := errgroup.WithContext(ctx)
	for i, company := range companies {
		g.Go(func() error {
			checks[i] = c.checkCompany(ctx, company)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return checks, nil
}

func (c *CompanyChecker) checkCompany(ctx context.Context, company string) types.CompanyCheck {
	result, err := c.search.SearchEntity(ctx, fmt.Sprintf("%q company", company))
	if err != nil {
		log.Printf("[SOURCE] company check failed for %q: %v", company, err)
		return types.CompanyCheck{Name: company, Verified: false, Description: "Search failed"}
	}

	// Knowledge graph first: Google already did the verification.
	if kg := result.Knowledge; kg != nil {
		kgTitle := strings.ToLower(kg.Title)
		coLower := strings.ToLower(company)
		if strings.Contains(kgTitle, coLower) || strings.Contains(coLower, kgTitle) {
			desc := "Found in Google Knowledge Graph"
			if kg.Description != "" {
				desc = "Google Knowledge Graph: " + truncate(kg.Description, 150)
			}
			return types.CompanyCheck{
				Name:        company,
				Verified:    true,
				EvidenceURL: kg.Website,
				Description: desc,
			}
		}
	}

	// Organic results: the company's own site or LinkedIn page.
	organic := result.Organic
	if len(organic) > 5 {
		organic = organic[:5]
	}
	for _, hit := range organic {
		if strings.Contains(hit.URL, "linkedin.com/company/") ||
			strings.Contains(strings.ToLower(hit.Title), strings.ToLower(company)) {
			desc := fmt.Sprintf("Found at %s", hit.URL)
			if hit.Snippet != "" {
				desc = truncate(hit.Snippet, 150)
			}
			return types.CompanyCheck{
				Name:        company,
				Verified:    true,
				EvidenceURL: hit.URL,
				Description: desc,
			}
		}
	}

	if len(organic) > 0 {
		return types.CompanyCheck{
			Name:        company,
			Verified:    false,
			Description: fmt.Sprintf("Search returned results but no strong match for '%s' as a company", company),
		}
	}
	return types.CompanyCheck{
		Name:        company,
		Verified:    false,
		Description: "No search results found for this company",
	}
}

// truncate clips s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
