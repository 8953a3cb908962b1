package pipeline

import (
	"context"
	"fmt"

	"backgrounder/internal/sources"
	"backgrounder/internal/types"
)

// TaskKind is the closed set of task shapes. Each kind maps to exactly one
// field of TaskResult.
type TaskKind int

const (
	KindProfile TaskKind = iota
	KindWebSearch
	KindNewsSearch
	KindGitHubSearch
	KindGitHubUser
	KindCompanyVerify
	KindSocialScan
	KindReferences
	KindPhotoSearch
)

func (k TaskKind) String() string {
	switch k {
	case KindProfile:
		return "profile"
	case KindWebSearch:
		return "web_search"
	case KindNewsSearch:
		return "news_search"
	case KindGitHubSearch:
		return "github_search"
	case KindGitHubUser:
		return "github_user"
	case KindCompanyVerify:
		return "company_verify"
	case KindSocialScan:
		return "social_scan"
	case KindReferences:
		return "references"
	case KindPhotoSearch:
		return "photo_search"
	}
	return "unknown"
}

// TaskResult is the tagged union of source payloads. Exactly one field is
// populated, selected by the task's kind. A nil *TaskResult means the task
// failed or found nothing single-valued.
type TaskResult struct {
	Profile    *types.Profile
	Hits       []types.SearchHit
	GitHub     []types.GitHubProfile
	Checks     []types.CompanyCheck
	Social     []types.SocialProfile
	Photo      *types.PhotoSearchResult
	References []types.ReferenceContact
}

// TaskFunc is one unit of external work, bound to its parameters at build
// time. Implementations bound their own execution time; the executor imposes
// no deadline.
type TaskFunc func(ctx context.Context) (*TaskResult, error)

// Task is a named, independent fetch operation.
type Task struct {
	ID       string
	Kind     TaskKind
	Provider types.Provider // set on profile tasks only
	Run      TaskFunc
}

// Per-run caps on resume-derived search tasks.
const (
	maxPastCompanySearches = 3
	maxKeyTermSearches     = 3
	maxPastCompanyNews     = 2
)

// buildTasks derives the full task roster from a request and optional
// resume. Pure construction, no I/O: every closure defers its source call to
// execution. Ordering is deterministic for identical inputs; resume-derived
// companies keep first-seen order.
func (r *Runner) buildTasks(req *types.CheckRequest, resume *types.ResumeData, photoURL string) []Task {
	var tasks []Task

	chosen := req.Provider
	if chosen == "" {
		chosen = types.DefaultProvider
	}
	tasks = append(tasks, r.profileTask("linkedin:chosen", chosen, req))
	if chosen != types.ProviderBrowser {
		tasks = append(tasks, r.profileTask("linkedin:browser", types.ProviderBrowser, req))
	}
	if chosen != types.ProviderSerpAPI {
		tasks = append(tasks, r.profileTask("linkedin:serpapi", types.ProviderSerpAPI, req))
	}

	name := req.Name
	baseQuery := name
	if req.Company != "" {
		baseQuery += " " + req.Company
	}
	if req.Title != "" {
		baseQuery += " " + req.Title
	}
	tasks = append(tasks, r.webSearchTask("google:main", baseQuery))

	newsQuery := name
	if req.Company != "" {
		newsQuery += " " + req.Company
	}
	tasks = append(tasks, r.newsSearchTask("news:main", newsQuery))

	ghQuery := name
	if req.Location != "" {
		ghQuery += " location:" + req.Location
	}
	tasks = append(tasks, r.githubSearchTask("github:name", ghQuery))

	if resume != nil {
		past := resume.PastCompanies(req.Company)

		for i, co := range past {
			if i >= maxPastCompanySearches {
				break
			}
			tasks = append(tasks, r.webSearchTask(
				"google:company:"+co,
				fmt.Sprintf("%q %q", name, co),
			))
		}

		for _, edu := range resume.Education {
			if edu.School == "" {
				continue
			}
			tasks = append(tasks, r.webSearchTask(
				"google:edu:"+edu.School,
				fmt.Sprintf("%q %q", name, edu.School),
			))
			break // first school only, to limit queries
		}

		for i, term := range resume.KeySearchTerms {
			if i >= maxKeyTermSearches {
				break
			}
			tasks = append(tasks, r.webSearchTask(
				fmt.Sprintf("google:term:%d", i),
				fmt.Sprintf("%q %s", name, term),
			))
		}

		if resume.GitHubURL != "" {
			if username := sources.ExtractGitHubUsername(resume.GitHubURL); username != "" {
				tasks = append(tasks, r.githubUserTask("github:direct", username))
			}
		}

		if resume.Company != "" {
			tasks = append(tasks, r.githubSearchTask("github:company", name+" "+resume.Company))
		}

		for i, co := range past {
			if i >= maxPastCompanyNews {
				break
			}
			tasks = append(tasks, r.newsSearchTask("news:company:"+co, name+" "+co))
		}

		companies := resume.AllCompanies(req.Company)
		tasks = append(tasks, Task{ID: "company_verify", Kind: KindCompanyVerify, Run: func(ctx context.Context) (*TaskResult, error) {
			checks, err := r.Companies.CheckCompanies(ctx, companies)
			if err != nil {
				return nil, err
			}
			return &TaskResult{Checks: checks}, nil
		}})
	}

	tasks = append(tasks, Task{ID: "social_media", Kind: KindSocialScan, Run: func(ctx context.Context) (*TaskResult, error) {
		profiles, err := r.Social.Scan(ctx, name)
		if err != nil {
			return nil, err
		}
		return &TaskResult{Social: profiles}, nil
	}})

	tasks = append(tasks, Task{ID: "references", Kind: KindReferences, Run: func(ctx context.Context) (*TaskResult, error) {
		contacts, err := r.References.Discover(ctx, req, resume)
		if err != nil {
			return nil, err
		}
		return &TaskResult{References: contacts}, nil
	}})

	if photoURL != "" && r.Photo != nil {
		tasks = append(tasks, Task{ID: "photo_search", Kind: KindPhotoSearch, Run: func(ctx context.Context) (*TaskResult, error) {
			result, err := r.Photo.Search(ctx, photoURL)
			if err != nil {
				return nil, err
			}
			if result == nil {
				return nil, nil
			}
			return &TaskResult{Photo: result}, nil
		}})
	}

	return tasks
}

func (r *Runner) profileTask(id string, provider types.Provider, req *types.CheckRequest) Task {
	return Task{ID: id, Kind: KindProfile, Provider: provider, Run: func(ctx context.Context) (*TaskResult, error) {
		fetcher, err := r.ProviderFor(provider)
		if err != nil {
			return nil, err
		}
		profile, err := fetcher.FetchProfile(ctx, req)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, nil
		}
		return &TaskResult{Profile: profile}, nil
	}}
}

func (r *Runner) webSearchTask(id, query string) Task {
	return Task{ID: id, Kind: KindWebSearch, Run: func(ctx context.Context) (*TaskResult, error) {
		hits, err := r.Search.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return &TaskResult{Hits: hits}, nil
	}}
}

func (r *Runner) newsSearchTask(id, query string) Task {
	return Task{ID: id, Kind: KindNewsSearch, Run: func(ctx context.Context) (*TaskResult, error) {
		hits, err := r.Search.SearchNews(ctx, query)
		if err != nil {
			return nil, err
		}
		return &TaskResult{Hits: hits}, nil
	}}
}

func (r *Runner) githubSearchTask(id, query string) Task {
	return Task{ID: id, Kind: KindGitHubSearch, Run: func(ctx context.Context) (*TaskResult, error) {
		profiles, err := r.GitHub.SearchUsers(ctx, query)
		if err != nil {
			return nil, err
		}
		return &TaskResult{GitHub: profiles}, nil
	}}
}

func (r *Runner) githubUserTask(id, username string) Task {
	return Task{ID: id, Kind: KindGitHubUser, Run: func(ctx context.Context) (*TaskResult, error) {
		profile, err := r.GitHub.FetchUser(ctx, username)
		if err != nil {
			return nil, err
		}
		result := &TaskResult{}
		if profile != nil {
			result.GitHub = []types.GitHubProfile{*profile}
		}
		return result, nil
	}}
}

// resultDetail renders the short human detail string shown on a task_done
// event, derived from the result shape.
func resultDetail(kind TaskKind, res *TaskResult) string {
	if res == nil {
		return ""
	}
	switch kind {
	case KindProfile:
		if res.Profile != nil && res.Profile.Name != "" {
			return res.Profile.Name
		}
		return "Profile found"
	case KindWebSearch, KindNewsSearch:
		if n := len(res.Hits); n > 0 {
			return fmt.Sprintf("%d results", n)
		}
		return "No results"
	case KindGitHubSearch, KindGitHubUser:
		if n := len(res.GitHub); n > 0 {
			return fmt.Sprintf("%d results", n)
		}
		return "No results"
	case KindCompanyVerify:
		return fmt.Sprintf("%d found", len(res.Checks))
	case KindSocialScan:
		return fmt.Sprintf("%d found", len(res.Social))
	case KindReferences:
		return fmt.Sprintf("%d found", len(res.References))
	}
	return ""
}
