package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"backgrounder/internal/llm"
	"backgrounder/internal/types"
)

// maxPromptChars bounds how much resume text goes into the extraction prompt.
const maxPromptChars = 8000

// maxStoredChars bounds the raw text carried through the run.
const maxStoredChars = 5000

const extractSystemPrompt = `You are a resume parsing expert. Extract structured information from the following resume text.

You MUST respond with valid JSON containing these keys:
- "name": Full name of the person (string, or null if not found)
- "email": Email address (string, or null)
- "phone": Phone number (string, or null)
- "location": City/state/country (string, or null)
- "title": Current or most recent job title (string, or null)
- "company": Current or most recent company (string, or null)
- "linkedin_url": LinkedIn profile URL if mentioned (string, or null)
- "github_url": GitHub profile URL if mentioned (string, or null)
- "website": Personal website if mentioned (string, or null)
- "skills": List of technical and professional skills (list of strings)
- "experience": List of objects with "title", "company", "duration", "description" keys
- "education": List of objects with "school", "degree", "year" keys
- "certifications": List of strings
- "key_search_terms": List of 5-10 unique search terms that would help verify this person's background (e.g. specific project names, publication titles, unique company+role combos, conference talks, awards). These should be specific enough to distinguish this person from others with the same name.

Extract ONLY what is explicitly stated. Do not invent information.`

// Extractor turns raw resume text into structured ResumeData via the LLM.
type Extractor struct {
	llm llm.Client
}

// NewExtractor creates an extractor on top of an LLM client.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{llm: client}
}

// Extract parses structured fields out of raw resume text. Extraction
// failures are not fatal: the returned ResumeData then carries only the raw
// text, which still feeds the report context.
func (e *Extractor) Extract(ctx context.Context, rawText string) *types.ResumeData {
	stored := truncate(rawText, maxStoredChars)

	prompt := fmt.Sprintf("Resume text:\n\n%s", truncate(rawText, maxPromptChars))
	response, err := e.llm.GenerateJSON(ctx, extractSystemPrompt, prompt)
	if err != nil {
		log.Printf("[RESUME] extraction LLM call failed: %v", err)
		return &types.ResumeData{RawText: stored}
	}

	var data types.ResumeData
	if err := json.Unmarshal([]byte(response), &data); err != nil {
		log.Printf("[RESUME] failed to parse extraction output: %v", err)
		return &types.ResumeData{RawText: stored}
	}

	data.RawText = stored
	return &data
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
