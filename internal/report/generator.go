// Package report turns an aggregated data snapshot into the analyst portion
// of the final report. The LLM is asked for strict JSON; anything it gets
// wrong degrades to a deterministic fallback rather than failing the run.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"backgrounder/internal/llm"
	"backgrounder/internal/types"
)

const systemPrompt = `You are a professional background research analyst and due-diligence investigator. Given data about a person collected from their resume, LinkedIn, GitHub, Google search, and news articles, produce a structured background report WITH a verdict on whether their background checks out.

IMPORTANT: The data may contain information about MULTIPLE different people with the same name. You must carefully analyze whether all the data points refer to the same individual or different people.

You MUST respond with valid JSON containing exactly these keys:

- "summary": A 2-4 sentence executive summary of who this person is.
- "professional_background": A 2-3 paragraph narrative of their career trajectory, expertise, and notable positions.
- "key_highlights": A list of 3-7 bullet points (strings) covering the most important facts.

- "identity_verification": An object with these keys:
  - "confidence": One of "high", "medium", or "low".
  - "reasoning": 1-3 sentences explaining why.
  - "multiple_people_detected": boolean.
  - "profiles_found": List of objects with "source", "name", "description".
  - "cross_reference_notes": List of strings noting matches or mismatches across sources.

- "verdict": An object with these keys:
  - "rating": One of "clean", "caution", or "red_flags".
    - "clean" = background looks solid, claims match online presence, no concerns.
    - "caution" = some inconsistencies or missing data, but nothing alarming. Needs more verification.
    - "red_flags" = significant mismatches, false claims, or concerning findings.
  - "score": Integer 0-100. 100 = perfect background, 0 = completely fraudulent.
    - 80-100: Clean. 50-79: Caution. 0-49: Red flags.
  - "summary": 2-3 sentence overall verdict explaining the rating.
  - "resume_vs_online": List of strings comparing resume claims to what was found online. For each claim, note whether it was VERIFIED, UNVERIFIED, or CONTRADICTED.
  - "red_flags": List of strings describing any red flags found. If none, return empty list.
  - "green_flags": List of strings describing positive signals. If none, return empty list.
  - "recommendations": List of strings suggesting next steps for verification.

Be factual and objective. Do not invent information. If data is sparse, note it as a limitation. Base the verdict ONLY on what the data shows - do not assume the worst or best.`

// Analysis is the analyst model's contribution to a report. The caller
// combines it with the aggregated data and source manifest.
type Analysis struct {
	Summary                string
	ProfessionalBackground string
	KeyHighlights          []string
	Identity               *types.IdentityCheck
	Verdict                *types.Verdict
}

// Generator produces an Analysis from aggregated findings.
type Generator struct {
	llm llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{llm: client}
}

// Generate asks the analyst model to summarize the aggregated data. It never
// fails: a model error yields the counts-based fallback, and unparseable
// output is salvaged as a plain-text summary.
func (g *Generator) Generate(ctx context.Context, req *types.CheckRequest, agg *types.AggregatedData) *Analysis {
	raw, err := g.llm.GenerateJSON(ctx, systemPrompt, buildUserPrompt(req, agg))
	if err != nil {
		log.Printf("[REPORT] generation failed (%s): %v", g.llm.Model(), err)
		return fallbackAnalysis(req, agg)
	}
	return parseAnalysis(raw)
}

func buildUserPrompt(req *types.CheckRequest, agg *types.AggregatedData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a background report and verdict for: %s\n", req.Name)
	if req.Company != "" {
		fmt.Fprintf(&b, "Company context: %s\n", req.Company)
	}
	if req.Title != "" {
		fmt.Fprintf(&b, "Title context: %s\n", req.Title)
	}
	if req.Location != "" {
		fmt.Fprintf(&b, "Location context: %s\n", req.Location)
	}
	fmt.Fprintf(&b, "\n--- Collected Data ---\n%s\n--- End Data ---", agg.RawContext)
	return b.String()
}

// llmAnalysis mirrors the model's JSON. profiles_found arrives as objects;
// flatRef folds them into display strings.
type llmAnalysis struct {
	Summary                string       `json:"summary"`
	ProfessionalBackground string       `json:"professional_background"`
	KeyHighlights          []string     `json:"key_highlights"`
	Identity               *llmIdentity `json:"identity_verification"`
	Verdict                *llmVerdict  `json:"verdict"`
}

type llmIdentity struct {
	Confidence             string    `json:"confidence"`
	Reasoning              string    `json:"reasoning"`
	MultiplePeopleDetected bool      `json:"multiple_people_detected"`
	ProfilesFound          []flatRef `json:"profiles_found"`
	CrossReferenceNotes    flatNotes `json:"cross_reference_notes"`
}

type llmVerdict struct {
	Rating          string    `json:"rating"`
	Score           int       `json:"score"`
	Summary         string    `json:"summary"`
	ResumeVsOnline  flatNotes `json:"resume_vs_online"`
	RedFlags        []string  `json:"red_flags"`
	GreenFlags      []string  `json:"green_flags"`
	Recommendations []string  `json:"recommendations"`
}

// flatRef accepts either a bare string or a {source, name, description}
// object and renders it as one line.
type flatRef string

func (r *flatRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = flatRef(s)
		return nil
	}
	var obj struct {
		Source      string `json:"source"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	parts := make([]string, 0, 3)
	if obj.Source != "" {
		parts = append(parts, obj.Source)
	}
	if obj.Name != "" {
		parts = append(parts, obj.Name)
	}
	if obj.Description != "" {
		parts = append(parts, obj.Description)
	}
	*r = flatRef(strings.Join(parts, ": "))
	return nil
}

// flatNotes accepts a string or a list of strings and joins the latter.
type flatNotes string

func (n *flatNotes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = flatNotes(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*n = flatNotes(strings.Join(list, "; "))
	return nil
}

const maxSalvagedSummary = 1000

func parseAnalysis(raw string) *Analysis {
	validateAnalysis(raw)

	var parsed llmAnalysis
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("[REPORT] unparseable model output: %v (raw: %.300s)", err, raw)
		summary := raw
		if len(summary) > maxSalvagedSummary {
			summary = summary[:maxSalvagedSummary]
		}
		return &Analysis{Summary: summary}
	}

	out := &Analysis{
		Summary:                parsed.Summary,
		ProfessionalBackground: parsed.ProfessionalBackground,
		KeyHighlights:          parsed.KeyHighlights,
	}
	if parsed.Identity != nil {
		refs := make([]string, 0, len(parsed.Identity.ProfilesFound))
		for _, r := range parsed.Identity.ProfilesFound {
			refs = append(refs, string(r))
		}
		out.Identity = &types.IdentityCheck{
			Confidence:             parsed.Identity.Confidence,
			Reasoning:              parsed.Identity.Reasoning,
			MultiplePeopleDetected: parsed.Identity.MultiplePeopleDetected,
			ProfilesFound:          refs,
			CrossReferenceNotes:    string(parsed.Identity.CrossReferenceNotes),
		}
	}
	if parsed.Verdict != nil {
		out.Verdict = &types.Verdict{
			Rating:          parsed.Verdict.Rating,
			Score:           parsed.Verdict.Score,
			Summary:         parsed.Verdict.Summary,
			ResumeVsOnline:  string(parsed.Verdict.ResumeVsOnline),
			RedFlags:        parsed.Verdict.RedFlags,
			GreenFlags:      parsed.Verdict.GreenFlags,
			Recommendations: parsed.Verdict.Recommendations,
		}
	}
	return out
}

func validateAnalysis(raw string) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(analysisSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil {
		log.Printf("[REPORT] schema check skipped: %v", err)
		return
	}
	for _, desc := range result.Errors() {
		log.Printf("[REPORT] schema violation at %s: %s", desc.Field(), desc.Description())
	}
}

// fallbackAnalysis is the deterministic substitute used when the model call
// itself fails. It reports what was collected, per category.
func fallbackAnalysis(req *types.CheckRequest, agg *types.AggregatedData) *Analysis {
	background := agg.RawContext
	if len(background) > 2000 {
		background = background[:2000]
	}
	linkedIn := "not found"
	if agg.LinkedIn != nil {
		linkedIn = "found"
	}
	return &Analysis{
		Summary:                fmt.Sprintf("Background data collected for %s but summarization failed.", req.Name),
		ProfessionalBackground: background,
		KeyHighlights: []string{
			fmt.Sprintf("LinkedIn profile: %s", linkedIn),
			fmt.Sprintf("GitHub profiles: %d found", len(agg.GitHubProfiles)),
			fmt.Sprintf("Google results: %d found", len(agg.SearchResults)),
			fmt.Sprintf("News articles: %d found", len(agg.NewsArticles)),
		},
	}
}
