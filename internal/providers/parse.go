package providers

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"backgrounder/internal/types"
)

// maxRawText caps the fallback page text carried on a scraped profile.
const maxRawText = 6000

// parseProfileHTML extracts a Profile from a rendered LinkedIn page.
// Selectors cover both the logged-in and public page variants and break as
// LinkedIn updates its markup, so the full page text is always captured too:
// even when every selector misses, the report generator can still work off
// RawText.
func parseProfileHTML(html, url string) (*types.Profile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile page: %w", err)
	}

	profile := &types.Profile{
		URL: url,
		Name: firstText(doc,
			"h1.text-heading-xlarge",
			"h1.top-card-layout__title",
			"h1"),
		Headline: firstText(doc,
			"div.text-body-medium.break-words",
			".top-card-layout__headline",
			"div.text-body-medium"),
		Location: firstText(doc,
			"span.text-body-small.inline.t-black--light.break-words",
			".top-card-layout__first-subline"),
		Summary: firstText(doc,
			"section.pv-about-section div.inline-show-more-text",
			"#about ~ div span[aria-hidden='true']"),
	}

	profile.Experience = sectionItems(doc, "#experience")
	profile.Education = sectionItems(doc, "#education")
	profile.Skills = skillItems(doc)

	text := doc.Find("main").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Find("body").Text()
	}
	profile.RawText = truncate(condenseSpace(text), maxRawText)

	return profile, nil
}

func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// sectionItems extracts the list entries of a profile section located by its
// anchor ID (#experience, #education). Each entry is rendered as one line
// built from the first informative text lines of the list item.
func sectionItems(doc *goquery.Document, anchorID string) []string {
	section := sectionFor(doc, anchorID)
	if section == nil {
		return nil
	}

	items := section.Find("li.artdeco-list__item")
	if items.Length() == 0 {
		items = section.Find("li.pvs-list__paged-list-item")
	}
	if items.Length() == 0 {
		items = section.Find("li")
	}

	var out []string
	items.EachWithBreak(func(_ int, li *goquery.Selection) bool {
		lines := informativeLines(li.Text())
		if len(lines) == 0 {
			return true
		}
		entry := lines[0]
		if len(lines) > 1 {
			entry += " at " + lines[1]
		}
		for _, line := range lines[1:] {
			if looksLikeDuration(line) {
				entry += " (" + line + ")"
				break
			}
		}
		out = append(out, entry)
		return len(out) < 10
	})
	return out
}

// sectionFor finds the <section> that contains the given anchor element.
func sectionFor(doc *goquery.Document, anchorID string) *goquery.Selection {
	anchor := doc.Find(anchorID).First()
	if anchor.Length() == 0 {
		return nil
	}
	section := anchor.Closest("section")
	if section.Length() == 0 {
		return nil
	}
	return section
}

func skillItems(doc *goquery.Document) []string {
	section := sectionFor(doc, "#skills")
	if section == nil {
		return nil
	}

	var skills []string
	seen := make(map[string]bool)
	section.Find("span[aria-hidden='true']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text == "" || len(text) >= 50 || seen[strings.ToLower(text)] {
			return true
		}
		seen[strings.ToLower(text)] = true
		skills = append(skills, text)
		return len(skills) < 20
	})
	return skills
}

// informativeLines splits item text and drops the icon glyphs and dot
// separators LinkedIn mixes into list items, plus adjacent duplicates
// (the page repeats every string for screen readers).
func informativeLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 2 {
			continue
		}
		if len(lines) > 0 && lines[len(lines)-1] == line {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func looksLikeDuration(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range []string{"present", "mos", "yrs", "yr", "mo", " - ", "–"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func condenseSpace(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
