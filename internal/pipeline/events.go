package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"backgrounder/internal/types"
)

// State is a task's lifecycle state as shown in the activity feed.
type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
	StateError   State = "error"
)

// Progress steps, in emission order within a run.
const (
	StepResumeParse = "resume_parse"
	StepPhotoUpload = "photo_upload"
	StepSearchStart = "search_start"
	StepTaskDone    = "task_done"
	StepAnalyzing   = "analyzing"
)

// TaskStatus is one roster entry in the search_start announcement.
type TaskStatus struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	State State  `json:"state"`
}

// ProgressEvent is a single status notification during a run.
type ProgressEvent struct {
	Step      string       `json:"step"`
	TaskID    string       `json:"task_id,omitempty"`
	Label     string       `json:"label"`
	State     State        `json:"state"`
	Detail    string       `json:"detail,omitempty"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
	Tasks     []TaskStatus `json:"tasks,omitempty"`
}

// EventType discriminates the two wire event kinds.
type EventType string

const (
	EventStatus EventType = "status"
	EventResult EventType = "result"
)

// Event is one message on a streaming run's channel. Exactly one of Status
// and Report is set, per Type. The channel closes after the result event.
type Event struct {
	Type   EventType      `json:"type"`
	Status *ProgressEvent `json:"status,omitempty"`
	Report *types.Report  `json:"report,omitempty"`
}

// friendlyLabels maps fixed task IDs to activity-feed labels.
var friendlyLabels = map[string]string{
	"linkedin:chosen":  "LinkedIn (primary provider)",
	"linkedin:browser": "LinkedIn (browser scraper)",
	"linkedin:serpapi": "LinkedIn (SerpAPI)",
	"google:main":      "Google Search",
	"news:main":        "News Search",
	"github:name":      "GitHub (name search)",
	"github:direct":    "GitHub (direct profile)",
	"github:company":   "GitHub (company search)",
	"company_verify":   "Company Verification",
	"social_media":     "Social Media Scan",
	"photo_search":     "Reverse Photo Search",
	"references":       "Reference Discovery",
}

// FriendlyLabel derives a human label for a task ID: exact match first, then
// synthesis for the parameterized ID families.
func FriendlyLabel(id string) string {
	if label, ok := friendlyLabels[id]; ok {
		return label
	}
	switch {
	case strings.HasPrefix(id, "google:company:"):
		return "Google: " + id[len("google:company:"):]
	case strings.HasPrefix(id, "google:edu:"):
		return "Google: " + id[len("google:edu:"):]
	case strings.HasPrefix(id, "google:term:"):
		if n, err := strconv.Atoi(id[len("google:term:"):]); err == nil {
			return fmt.Sprintf("Google: key term #%d", n+1)
		}
	case strings.HasPrefix(id, "news:company:"):
		return "News: " + id[len("news:company:"):]
	}
	return id
}
