package sources

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"backgrounder/internal/types"
	"backgrounder/internal/websearch"
)

// MaxReferenceCompanies caps how many companies the discovery queries cover.
const MaxReferenceCompanies = 4

var linkedinSuffixRe = regexp.MustCompile(`(?i)\s*[\|–-]\s*LinkedIn.*$`)
var titleSplitRe = regexp.MustCompile(`\s*[\|–-]\s*`)

// companyRole pairs a company with the person's title there.
type companyRole struct {
	company string
	title   string
}

// ReferenceFinder discovers people at the person's companies who could
// verify employment: HR, management, and colleagues.
type ReferenceFinder struct {
	search websearch.Client
}

// NewReferenceFinder creates a finder on top of a search backend.
func NewReferenceFinder(search websearch.Client) *ReferenceFinder {
	return &ReferenceFinder{search: search}
}

// Discover finds reference candidates at up to MaxReferenceCompanies
// companies concurrently, deduplicated by LinkedIn URL (or name when the
// URL is missing) in company order.
func (f *ReferenceFinder) Discover(ctx context.Context, req *types.CheckRequest, resume *types.ResumeData) ([]types.ReferenceContact, error) {
	companies := collectCompanyRoles(req, resume)
	if len(companies) == 0 {
		return nil, nil
	}
	if len(companies) > MaxReferenceCompanies {
		companies = companies[:MaxReferenceCompanies]
	}

	results := make([][]types.ReferenceContact, len(companies))
	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range companies {
		g.Go(func() error {
			contacts, err := f.findContactsAtCompany(gctx, req.Name, entry.company, entry.title)
			if err != nil {
				log.Printf("[SOURCE] reference discovery failed for %q: %v", entry.company, err)
				return nil
			}
			results[i] = contacts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var contacts []types.ReferenceContact
	seen := make(map[string]bool)
	for _, companyContacts := range results {
		for _, contact := range companyContacts {
			key := contact.LinkedInURL
			if key == "" {
				key = contact.Name
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			contacts = append(contacts, contact)
		}
	}
	return contacts, nil
}

func collectCompanyRoles(req *types.CheckRequest, resume *types.ResumeData) []companyRole {
	var companies []companyRole
	have := func(co string) bool {
		for _, c := range companies {
			if c.company == co {
				return true
			}
		}
		return false
	}

	if req.Company != "" {
		companies = append(companies, companyRole{company: req.Company, title: req.Title})
	}
	if resume != nil {
		for _, exp := range resume.Experience {
			co := strings.TrimSpace(exp.Company)
			if co == "" || have(co) {
				continue
			}
			companies = append(companies, companyRole{company: co, title: strings.TrimSpace(exp.Title)})
		}
	}
	return companies
}

func (f *ReferenceFinder) findContactsAtCompany(ctx context.Context, personName, company, personTitle string) ([]types.ReferenceContact, error) {
	type categorizedQuery struct {
		query    string
		category string
	}

	queries := []categorizedQuery{
		{
			query:    fmt.Sprintf(`site:linkedin.com/in/ "%s" (HR OR "Human Resources" OR "Talent Acquisition" OR "People Operations")`, company),
			category: "HR / People Ops",
		},
		{
			query:    fmt.Sprintf(`site:linkedin.com/in/ "%s" (Manager OR Director OR "Team Lead" OR VP OR Founder OR CEO OR CTO)`, company),
			category: "Management",
		},
		{
			// Broadest net, catches small companies with no titled staff.
			query:    fmt.Sprintf(`site:linkedin.com/in/ "%s"`, company),
			category: "Colleague",
		},
	}
	if personTitle != "" {
		if dept := departmentKeywords(personTitle); dept != "" {
			queries = append(queries, categorizedQuery{
				query:    fmt.Sprintf(`site:linkedin.com/in/ "%s" (%s)`, company, dept),
				category: "Same Department",
			})
		}
	}

	personFirst := ""
	if parts := strings.Fields(personName); len(parts) > 0 {
		personFirst = strings.ToLower(parts[0])
	}

	var contacts []types.ReferenceContact
	for _, cq := range queries {
		hits, err := f.search.SearchRaw(ctx, cq.query, 5)
		if err != nil {
			continue
		}
		for _, hit := range hits {
			if !strings.Contains(hit.URL, "linkedin.com/in/") {
				continue
			}
			// Skip the person themselves.
			titleHead := strings.ToLower(strings.SplitN(hit.Title, " - ", 2)[0])
			if personFirst != "" && strings.Contains(titleHead, personFirst) {
				continue
			}

			name, role := ParseLinkedInTitle(hit.Title)
			if name == "" {
				continue
			}
			contacts = append(contacts, types.ReferenceContact{
				Name:        name,
				Title:       role,
				Company:     company,
				LinkedInURL: hit.URL,
				Category:    cq.category,
				Snippet:     truncate(hit.Snippet, 200),
			})
		}
	}
	return contacts, nil
}

// ParseLinkedInTitle splits "Jane Doe - Senior Manager - Acme | LinkedIn"
// into name and role.
func ParseLinkedInTitle(title string) (string, string) {
	title = linkedinSuffixRe.ReplaceAllString(title, "")
	var parts []string
	for _, p := range titleSplitRe.Split(title, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "", ""
	}
	name := parts[0]
	role := ""
	if len(parts) > 1 {
		role = parts[1]
	}
	return name, role
}

// departmentKeywords maps a job title to an OR-query of related functions,
// so the Same Department search finds actual peers.
func departmentKeywords(title string) string {
	titleLower := strings.ToLower(title)

	// Ordered: more specific phrases before generic substrings.
	deptMap := []struct {
		keyword string
		query   string
	}{
		{"machine learning", "ML OR AI OR Machine Learning"},
		{"full stack", "Full Stack OR Fullstack OR Developer"},
		{"fullstack", "Full Stack OR Fullstack OR Developer"},
		{"frontend", "Frontend OR React OR UI"},
		{"backend", "Backend OR API OR Server"},
		{"devops", "Operations OR DevOps OR SRE"},
		{"engineer", "Engineer OR Developer OR Software"},
		{"developer", "Engineer OR Developer OR Software"},
		{"software", "Engineer OR Developer OR Software"},
		{"data", "Data OR Analytics OR ML"},
		{"design", "Design OR UX OR UI"},
		{"product", "Product OR PM"},
		{"market", "Marketing OR Growth"},
		{"sales", "Sales OR Business Development"},
		{"finance", "Finance OR Accounting"},
		{"legal", "Legal OR Compliance"},
		{"ops", "Operations OR DevOps OR SRE"},
		{"security", "Security OR InfoSec OR Cybersecurity"},
		{"research", "Research OR Scientist OR R&D"},
		{"python", "Python OR Backend OR Developer"},
	}

	for _, entry := range deptMap {
		if strings.Contains(titleLower, entry.keyword) {
			return entry.query
		}
	}
	return ""
}
