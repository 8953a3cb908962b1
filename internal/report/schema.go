package report

// analysisSchema describes the JSON shape the analyst model must return.
// Validation failures are advisory: the parsed fields are still used, but
// each violation is logged so prompt regressions show up in the server log.
const analysisSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["summary"],
  "properties": {
    "summary": {"type": "string"},
    "professional_background": {"type": "string"},
    "key_highlights": {
      "type": "array",
      "items": {"type": "string"}
    },
    "identity_verification": {
      "type": ["object", "null"],
      "properties": {
        "confidence": {"type": "string", "enum": ["high", "medium", "low"]},
        "reasoning": {"type": "string"},
        "multiple_people_detected": {"type": "boolean"},
        "profiles_found": {"type": "array"},
        "cross_reference_notes": {"type": "array", "items": {"type": "string"}}
      }
    },
    "verdict": {
      "type": ["object", "null"],
      "properties": {
        "rating": {"type": "string", "enum": ["clean", "caution", "red_flags"]},
        "score": {"type": "integer", "minimum": 0, "maximum": 100},
        "summary": {"type": "string"},
        "resume_vs_online": {"type": "array", "items": {"type": "string"}},
        "red_flags": {"type": "array", "items": {"type": "string"}},
        "green_flags": {"type": "array", "items": {"type": "string"}},
        "recommendations": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`
