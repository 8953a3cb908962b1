package pipeline

import (
	"fmt"
	"strings"

	"backgrounder/internal/types"
)

// Confidence notes attached to the report when the profile pipeline came up
// short. Advisory only.
const (
	noteNoProfile      = "No LinkedIn profile found. Report is based on web search results only."
	notePartialProfile = "LinkedIn data was partially extracted. Some details may be missing."
)

// Assembly is the context assembler's output: the text handed to the report
// generator, the human-readable source manifest, and the confidence note.
type Assembly struct {
	RawContext  string
	SourcesUsed []string
	Confidence  string
}

// assembleContext renders the aggregate into ordered labeled text blocks.
// Section order is fixed regardless of task completion order: resume, then
// the selected profile as ground truth, then corroborating sources. Empty
// sections are omitted. providersUsed names the profile providers that
// returned data, for the manifest.
func assembleContext(agg *types.AggregatedData, providersUsed []string) Assembly {
	var a Assembly
	var parts []string

	if agg.Resume != nil {
		a.SourcesUsed = append(a.SourcesUsed, "Resume (uploaded)")
		parts = append(parts, resumeToText(agg.Resume))
	}

	if agg.LinkedIn != nil {
		a.SourcesUsed = append(a.SourcesUsed, fmt.Sprintf("LinkedIn (%s)", strings.Join(providersUsed, " + ")))
		parts = append(parts, profileToText(agg.LinkedIn))
	}

	if len(agg.GitHubProfiles) > 0 {
		a.SourcesUsed = append(a.SourcesUsed, fmt.Sprintf("GitHub (%d profiles)", len(agg.GitHubProfiles)))
		for i, gh := range agg.GitHubProfiles {
			parts = append(parts, githubToText(&gh, i+1))
		}
	}

	if len(agg.SearchResults) > 0 {
		a.SourcesUsed = append(a.SourcesUsed, fmt.Sprintf("Google (%d results)", len(agg.SearchResults)))
		for _, hit := range agg.SearchResults {
			parts = append(parts, fmt.Sprintf("[%s] %s: %s", hit.Source, hit.Title, hit.Snippet))
		}
	}

	if len(agg.NewsArticles) > 0 {
		a.SourcesUsed = append(a.SourcesUsed, fmt.Sprintf("News (%d articles)", len(agg.NewsArticles)))
		for _, hit := range agg.NewsArticles {
			parts = append(parts, fmt.Sprintf("[news] %s: %s", hit.Title, hit.Snippet))
		}
	}

	if len(agg.CompanyChecks) > 0 {
		a.SourcesUsed = append(a.SourcesUsed, fmt.Sprintf("Company Verify (%d)", len(agg.CompanyChecks)))
		for _, cc := range agg.CompanyChecks {
			status := "NOT VERIFIED"
			if cc.Verified {
				status = "VERIFIED"
			}
			parts = append(parts, fmt.Sprintf("[company] %s: %s - %s", cc.Name, status, cc.Description))
		}
	}

	if len(agg.SocialProfiles) > 0 {
		a.SourcesUsed = append(a.SourcesUsed, fmt.Sprintf("Social Media (%d)", len(agg.SocialProfiles)))
		for _, sp := range agg.SocialProfiles {
			parts = append(parts, fmt.Sprintf("[social: %s] %s - %s", sp.Platform, sp.URL, sp.Snippet))
		}
	}

	if len(agg.PhotoMatches) > 0 {
		a.SourcesUsed = append(a.SourcesUsed, fmt.Sprintf("Reverse Photo (%d matches)", len(agg.PhotoMatches)))
		for _, pm := range agg.PhotoMatches {
			tag := ""
			if pm.Platform != "" {
				tag = fmt.Sprintf(" [%s]", pm.Platform)
			}
			parts = append(parts, fmt.Sprintf("[photo match%s] %s - %s", tag, pm.URL, pm.Title))
		}
	}

	if len(agg.ReferenceContacts) > 0 {
		a.SourcesUsed = append(a.SourcesUsed, fmt.Sprintf("References (%d contacts found)", len(agg.ReferenceContacts)))
		for _, rc := range agg.ReferenceContacts {
			parts = append(parts, fmt.Sprintf("[reference: %s] %s - %s at %s (%s)",
				rc.Category, rc.Name, rc.Title, rc.Company, rc.LinkedInURL))
		}
	}

	a.RawContext = strings.Join(parts, "\n\n")

	if agg.LinkedIn == nil {
		a.Confidence = noteNoProfile
	} else if agg.LinkedIn.IsPartial() {
		a.Confidence = notePartialProfile
	}
	return a
}

const (
	maxResumeSkills     = 20
	maxProfileSkills    = 15
	maxExpDescription   = 200
	maxRawProfileQuoted = 3000
)

func resumeToText(resume *types.ResumeData) string {
	parts := []string{"[SOURCE: Uploaded Resume]"}
	appendField := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	appendField("Name", resume.Name)
	appendField("Current Title", resume.Title)
	appendField("Current Company", resume.Company)
	appendField("Location", resume.Location)
	appendField("Email", resume.Email)
	appendField("LinkedIn", resume.LinkedInURL)
	appendField("GitHub", resume.GitHubURL)
	appendField("Website", resume.Website)
	if len(resume.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(capList(resume.Skills, maxResumeSkills), ", "))
	}
	for _, exp := range resume.Experience {
		parts = append(parts, fmt.Sprintf("Experience: %s at %s (%s)", exp.Title, exp.Company, exp.Duration))
		if exp.Description != "" {
			desc := exp.Description
			if len(desc) > maxExpDescription {
				desc = desc[:maxExpDescription]
			}
			parts = append(parts, "  Details: "+desc)
		}
	}
	for _, edu := range resume.Education {
		parts = append(parts, fmt.Sprintf("Education: %s from %s (%s)", edu.Degree, edu.School, edu.Year))
	}
	if len(resume.Certifications) > 0 {
		parts = append(parts, "Certifications: "+strings.Join(resume.Certifications, ", "))
	}
	if len(resume.KeySearchTerms) > 0 {
		parts = append(parts, "Key identifiers from resume: "+strings.Join(resume.KeySearchTerms, ", "))
	}
	return strings.Join(parts, "\n")
}

func profileToText(p *types.Profile) string {
	parts := []string{"[SOURCE: LinkedIn]", "Name: " + p.Name}
	if p.Headline != "" {
		parts = append(parts, "Headline: "+p.Headline)
	}
	if p.Location != "" {
		parts = append(parts, "Location: "+p.Location)
	}
	if p.Summary != "" {
		parts = append(parts, "About: "+p.Summary)
	}
	for _, exp := range p.Experience {
		parts = append(parts, "Experience: "+exp)
	}
	for _, edu := range p.Education {
		parts = append(parts, "Education: "+edu)
	}
	if len(p.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(capList(p.Skills, maxProfileSkills), ", "))
	}
	if p.IsPartial() {
		raw := p.RawText
		if len(raw) > maxRawProfileQuoted {
			raw = raw[:maxRawProfileQuoted]
		}
		parts = append(parts, "Raw profile text:\n"+raw)
	}
	return strings.Join(parts, "\n")
}

func githubToText(gh *types.GitHubProfile, index int) string {
	parts := []string{fmt.Sprintf("[SOURCE: GitHub Profile #%d]", index), "Username: " + gh.Username}
	if gh.Name != "" {
		parts = append(parts, "Display Name: "+gh.Name)
	}
	if gh.Bio != "" {
		parts = append(parts, "Bio: "+gh.Bio)
	}
	if gh.Company != "" {
		parts = append(parts, "Company: "+gh.Company)
	}
	if gh.Location != "" {
		parts = append(parts, "Location: "+gh.Location)
	}
	if gh.Blog != "" {
		parts = append(parts, "Website: "+gh.Blog)
	}
	parts = append(parts, fmt.Sprintf("Public Repos: %d, Followers: %d", gh.PublicRepos, gh.Followers))
	if len(gh.TopRepos) > 0 {
		repoLines := make([]string, 0, len(gh.TopRepos))
		for _, repo := range gh.TopRepos {
			lang := repo.Language
			if lang == "" {
				lang = "N/A"
			}
			repoLines = append(repoLines, fmt.Sprintf("  - %s (%s, %d stars): %s",
				repo.Name, lang, repo.Stars, repo.Description))
		}
		parts = append(parts, "Top Repositories:\n"+strings.Join(repoLines, "\n"))
	}
	return strings.Join(parts, "\n")
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
