package main

import (
	"context"
	"fmt"
	"time"

	"backgrounder/internal/config"
	"backgrounder/internal/httpx"
	"backgrounder/internal/llm"
	"backgrounder/internal/pipeline"
	"backgrounder/internal/providers"
	"backgrounder/internal/report"
	"backgrounder/internal/resume"
	"backgrounder/internal/sources"
	"backgrounder/internal/types"
	"backgrounder/internal/websearch"
)

// runtime bundles the wired components shared by the serve and check
// commands.
type runtime struct {
	settings  *config.Settings
	llmClient llm.Client
	runner    *pipeline.Runner
	extractor *resume.Extractor
	photos    *sources.PhotoUploader // nil without an ImgBB key
}

func (rt *runtime) Close() {
	if rt.llmClient != nil {
		rt.llmClient.Close() //nolint:errcheck
	}
}

// newRuntime builds the full aggregation stack from settings: shared HTTP
// client, search backend, LinkedIn providers, secondary sources, and the
// LLM analysis layer.
func newRuntime(ctx context.Context, settings *config.Settings) (*runtime, error) {
	httpClient := httpx.New(&httpx.Options{
		Timeout:        time.Duration(settings.RequestTimeoutSeconds) * time.Second,
		MaxConcurrency: settings.MaxConcurrency,
		SearchRPS:      1,
		SearchBurst:    settings.MaxConcurrency,
	})

	var (
		search   websearch.Client
		entities websearch.EntitySearcher
		lens     websearch.LensClient
	)
	switch settings.SearchBackend {
	case config.SearchBackendCustomSearch:
		cse, err := websearch.NewCSEClient(ctx, settings.GoogleCSEKey, settings.GoogleCSEID, "linkedin.com")
		if err != nil {
			return nil, fmt.Errorf("failed to build custom search client: %w", err)
		}
		search, entities = cse, cse
		// Custom Search has no reverse-image surface; photo search stays off.
	default:
		serp := websearch.NewSerpAPIClient(httpClient, settings.SerpAPIKey, "linkedin.com")
		search, entities, lens = serp, serp, serp
	}

	llmClient, err := llm.NewClient(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to build LLM client: %w", err)
	}

	providerDeps := providers.Deps{
		HTTP:     httpClient,
		Search:   search,
		Settings: settings,
	}

	runner := &pipeline.Runner{
		Search:          search,
		DefaultProvider: types.Provider(settings.LinkedInProvider),
		ProviderFor: func(name types.Provider) (pipeline.ProfileFetcher, error) {
			p, err := providers.New(name, providerDeps)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		GitHub:     sources.NewGitHubFetcher(ctx, settings.GitHubToken),
		Companies:  sources.NewCompanyChecker(entities),
		Social:     sources.NewSocialScanner(search, settings.SocialRetryThreshold),
		References: sources.NewReferenceFinder(search),
		Reports:    report.NewGenerator(llmClient),
	}
	if lens != nil {
		runner.Photo = sources.NewPhotoSearcher(lens)
	}

	rt := &runtime{
		settings:  settings,
		llmClient: llmClient,
		runner:    runner,
		extractor: resume.NewExtractor(llmClient),
	}
	if settings.ImgBBAPIKey != "" {
		rt.photos = sources.NewPhotoUploader(httpClient, settings.ImgBBAPIKey)
	}
	return rt, nil
}
