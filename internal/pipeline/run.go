// Package pipeline is the aggregation core: it turns a check request into a
// roster of independent fetch tasks, runs them all concurrently with
// per-task failure isolation, merges redundant findings, assembles the
// report context, and optionally streams progress events while doing so.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"backgrounder/internal/report"
	"backgrounder/internal/types"
	"backgrounder/internal/websearch"
)

// ProfileFetcher is the profile-provider collaborator contract. A nil
// profile with a nil error means the provider found nothing.
type ProfileFetcher interface {
	Name() types.Provider
	FetchProfile(ctx context.Context, req *types.CheckRequest) (*types.Profile, error)
}

// GitHubSource searches and fetches code-host profiles.
type GitHubSource interface {
	SearchUsers(ctx context.Context, query string) ([]types.GitHubProfile, error)
	FetchUser(ctx context.Context, username string) (*types.GitHubProfile, error)
}

// CompanyVerifier checks claimed employers against public records.
type CompanyVerifier interface {
	CheckCompanies(ctx context.Context, companies []string) ([]types.CompanyCheck, error)
}

// SocialScanner probes platform groups for accounts under the name.
type SocialScanner interface {
	Scan(ctx context.Context, name string) ([]types.SocialProfile, error)
}

// ReferenceSource discovers potential reference contacts per company.
type ReferenceSource interface {
	Discover(ctx context.Context, req *types.CheckRequest, resume *types.ResumeData) ([]types.ReferenceContact, error)
}

// PhotoSource runs a reverse image search.
type PhotoSource interface {
	Search(ctx context.Context, imageURL string) (*types.PhotoSearchResult, error)
}

// Summarizer produces the analyst portion of the report. It never fails;
// degraded output is its own concern.
type Summarizer interface {
	Generate(ctx context.Context, req *types.CheckRequest, agg *types.AggregatedData) *report.Analysis
}

// Runner owns the collaborators for a run. All fields are required except
// Photo, which is only exercised when a photo reference is supplied, and
// DefaultProvider, which falls back to types.DefaultProvider when unset.
type Runner struct {
	Search      websearch.Client
	ProviderFor func(types.Provider) (ProfileFetcher, error)
	GitHub      GitHubSource
	Companies   CompanyVerifier
	Social      SocialScanner
	References  ReferenceSource
	Photo       PhotoSource
	Reports     Summarizer

	// DefaultProvider is applied when a request names no provider.
	DefaultProvider types.Provider
}

// RunInput is one aggregation run's input. Request is never mutated; resume
// backfill happens on a copy.
type RunInput struct {
	Request  *types.CheckRequest
	Resume   *types.ResumeData
	PhotoURL string
}

// Collect runs the full roster and waits for everything, returning the
// terminal report. Source failures surface as missing data, never as an
// error from Collect.
func (r *Runner) Collect(ctx context.Context, in RunInput) *types.Report {
	req := r.prepareRequest(in)
	tasks := r.buildTasks(req, in.Resume, in.PhotoURL)
	log.Printf("[PIPELINE] running %d concurrent tasks for %q", len(tasks), req.Name)
	results := runAll(ctx, tasks, nil)
	return r.buildReport(ctx, req, in.Resume, tasks, results)
}

// Stream runs the same roster but emits progress over the returned channel:
// one search_start status announcing every task, one task_done status per
// task in real completion order, one analyzing status, then the single
// result event. The channel is closed after the result. If ctx is cancelled
// the consumer is assumed gone and the run stops emitting.
func (r *Runner) Stream(ctx context.Context, in RunInput) <-chan Event {
	events := make(chan Event, 8)
	go func() {
		defer close(events)
		emit := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		req := r.prepareRequest(in)
		tasks := r.buildTasks(req, in.Resume, in.PhotoURL)
		total := len(tasks)
		log.Printf("[PIPELINE] running %d concurrent tasks for %q (streaming)", total, req.Name)

		roster := make([]TaskStatus, 0, total)
		for _, t := range tasks {
			roster = append(roster, TaskStatus{ID: t.ID, Label: FriendlyLabel(t.ID), State: StateRunning})
		}
		if !emit(Event{Type: EventStatus, Status: &ProgressEvent{
			Step:  StepSearchStart,
			Label: fmt.Sprintf("Launching %d concurrent searches...", total),
			State: StateRunning,
			Total: total,
			Tasks: roster,
		}}) {
			return
		}

		results := runAll(ctx, tasks, func(done int, out taskOutcome) {
			state := StateDone
			if out.res == nil {
				state = StateError
			}
			emit(Event{Type: EventStatus, Status: &ProgressEvent{
				Step:      StepTaskDone,
				TaskID:    out.task.ID,
				Label:     FriendlyLabel(out.task.ID),
				State:     state,
				Detail:    resultDetail(out.task.Kind, out.res),
				Completed: done,
				Total:     total,
			}})
		})

		if !emit(Event{Type: EventStatus, Status: &ProgressEvent{
			Step:      StepAnalyzing,
			Label:     "AI analyzing all data...",
			State:     StateRunning,
			Completed: total,
			Total:     total,
		}}) {
			return
		}

		emit(Event{Type: EventResult, Report: r.buildReport(ctx, req, in.Resume, tasks, results)})
	}()
	return events
}

// prepareRequest copies the request, backfills empty fields from the
// resume, and resolves the provider. Explicit caller input always wins; a
// provider-less request gets the runner's configured default.
func (r *Runner) prepareRequest(in RunInput) *types.CheckRequest {
	req := *in.Request
	req.FillFromResume(in.Resume)
	if req.Provider == "" {
		req.Provider = r.DefaultProvider
	}
	if req.Provider == "" {
		req.Provider = types.DefaultProvider
	}
	return &req
}

// buildReport is the fan-in side: resolve redundant profiles, dedup-merge
// the list-shaped results, assemble the context, and attach the analyst
// summary. Runs strictly after every task has reported.
func (r *Runner) buildReport(ctx context.Context, req *types.CheckRequest, resume *types.ResumeData, tasks []Task, results map[string]*TaskResult) *types.Report {
	var candidates []*types.Profile
	var providersUsed []string
	for _, t := range tasks {
		if t.Kind != KindProfile {
			continue
		}
		res := results[t.ID]
		if res == nil || res.Profile == nil {
			continue
		}
		candidates = append(candidates, res.Profile)
		providersUsed = append(providersUsed, string(t.Provider))
	}
	profile := PickBestProfile(candidates)
	merged := mergeSearchResults(tasks, results)

	var checks []types.CompanyCheck
	if res := results["company_verify"]; res != nil {
		checks = res.Checks
	}
	var social []types.SocialProfile
	if res := results["social_media"]; res != nil {
		social = res.Social
	}
	var refs []types.ReferenceContact
	if res := results["references"]; res != nil {
		refs = res.References
	}
	var photoMatches []types.PhotoMatch
	if res := results["photo_search"]; res != nil && res.Photo != nil {
		photoMatches = res.Photo.VisualMatches
		social = appendSocialProfiles(social, res.Photo.Profiles)
	}

	agg := &types.AggregatedData{
		LinkedIn:          profile,
		GitHubProfiles:    merged.GitHub,
		Resume:            resume,
		CompanyChecks:     checks,
		SocialProfiles:    social,
		PhotoMatches:      photoMatches,
		ReferenceContacts: refs,
		SearchResults:     merged.Google,
		NewsArticles:      merged.News,
	}
	assembly := assembleContext(agg, providersUsed)
	agg.RawContext = assembly.RawContext

	analysis := r.Reports.Generate(ctx, req, agg)

	providerUsed := strings.Join(providersUsed, " + ")
	if providerUsed == "" {
		providerUsed = string(req.Provider)
	}

	return &types.Report{
		Name:                   req.Name,
		GeneratedAt:            time.Now().UTC(),
		LinkedInProfile:        profile,
		GitHubProfiles:         merged.GitHub,
		ResumeData:             resume,
		CompanyChecks:          checks,
		SocialProfiles:         social,
		PhotoMatches:           photoMatches,
		ReferenceContacts:      refs,
		Summary:                analysis.Summary,
		ProfessionalBackground: analysis.ProfessionalBackground,
		KeyHighlights:          analysis.KeyHighlights,
		NewsMentions:           merged.News,
		IdentityVerification:   analysis.Identity,
		Verdict:                analysis.Verdict,
		SourcesUsed:            assembly.SourcesUsed,
		ProviderUsed:           providerUsed,
		ConfidenceNote:         assembly.Confidence,
	}
}
