package websearch

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"backgrounder/internal/httpx"
	"backgrounder/internal/types"
)

// DefaultSerpAPIBaseURL is the SerpAPI search endpoint.
const DefaultSerpAPIBaseURL = "https://serpapi.com/search.json"

// SerpAPIClient implements Client and LensClient against SerpAPI.
type SerpAPIClient struct {
	// BaseURL may be overridden in tests; defaults to DefaultSerpAPIBaseURL.
	BaseURL string

	http          *httpx.Client
	apiKey        string
	excludeDomain string
}

// NewSerpAPIClient creates a SerpAPI-backed search client. excludeDomain
// filters web hits pointing at the primary profile source (pass "" to keep
// everything).
func NewSerpAPIClient(client *httpx.Client, apiKey, excludeDomain string) *SerpAPIClient {
	return &SerpAPIClient{
		BaseURL:       DefaultSerpAPIBaseURL,
		http:          client,
		apiKey:        apiKey,
		excludeDomain: excludeDomain,
	}
}

type serpOrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serpNewsResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serpLensMatch struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Thumbnail string `json:"thumbnail"`
}

type serpLensEntity struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Search implements Client.
func (c *SerpAPIClient) Search(ctx context.Context, query string) ([]types.SearchHit, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi: no API key configured")
	}
	if err := c.http.WaitSearch(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"engine":  {"google"},
		"q":       {query},
		"num":     {"10"},
		"api_key": {c.apiKey},
	}
	var data struct {
		OrganicResults []serpOrganicResult `json:"organic_results"`
	}
	if err := c.http.GetJSON(ctx, c.BaseURL, params, nil, &data); err != nil {
		return nil, fmt.Errorf("google search failed for %q: %w", query, err)
	}

	var hits []types.SearchHit
	for _, item := range data.OrganicResults {
		if c.excludeDomain != "" && strings.Contains(item.Link, c.excludeDomain) {
			continue
		}
		hits = append(hits, types.SearchHit{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
		if len(hits) == MaxResults {
			break
		}
	}
	return hits, nil
}

// SearchNews implements Client.
func (c *SerpAPIClient) SearchNews(ctx context.Context, query string) ([]types.SearchHit, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi: no API key configured")
	}
	if err := c.http.WaitSearch(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"engine":  {"google"},
		"q":       {query},
		"tbm":     {"nws"},
		"num":     {"10"},
		"api_key": {c.apiKey},
	}
	var data struct {
		NewsResults []serpNewsResult `json:"news_results"`
	}
	if err := c.http.GetJSON(ctx, c.BaseURL, params, nil, &data); err != nil {
		return nil, fmt.Errorf("news search failed for %q: %w", query, err)
	}

	var hits []types.SearchHit
	for _, item := range data.NewsResults {
		hits = append(hits, types.SearchHit{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Source:  "news",
		})
		if len(hits) == MaxResults {
			break
		}
	}
	return hits, nil
}

// SearchRaw implements Client. No domain filtering is applied.
func (c *SerpAPIClient) SearchRaw(ctx context.Context, query string, num int) ([]types.SearchHit, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi: no API key configured")
	}
	if num < 1 {
		num = 10
	}
	if err := c.http.WaitSearch(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"engine":  {"google"},
		"q":       {query},
		"num":     {fmt.Sprintf("%d", num)},
		"api_key": {c.apiKey},
	}
	var data struct {
		OrganicResults []serpOrganicResult `json:"organic_results"`
	}
	if err := c.http.GetJSON(ctx, c.BaseURL, params, nil, &data); err != nil {
		return nil, fmt.Errorf("google search failed for %q: %w", query, err)
	}

	hits := make([]types.SearchHit, 0, len(data.OrganicResults))
	for _, item := range data.OrganicResults {
		hits = append(hits, types.SearchHit{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return hits, nil
}

// SearchEntity implements EntitySearcher, surfacing the knowledge graph
// alongside the organic results.
func (c *SerpAPIClient) SearchEntity(ctx context.Context, query string) (*EntityResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi: no API key configured")
	}
	if err := c.http.WaitSearch(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"engine":  {"google"},
		"q":       {query},
		"num":     {"5"},
		"api_key": {c.apiKey},
	}
	var data struct {
		OrganicResults []serpOrganicResult `json:"organic_results"`
		KnowledgeGraph *struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Website     string `json:"website"`
		} `json:"knowledge_graph"`
	}
	if err := c.http.GetJSON(ctx, c.BaseURL, params, nil, &data); err != nil {
		return nil, fmt.Errorf("entity search failed for %q: %w", query, err)
	}

	result := &EntityResult{}
	if data.KnowledgeGraph != nil && data.KnowledgeGraph.Title != "" {
		result.Knowledge = &KnowledgeGraph{
			Title:       data.KnowledgeGraph.Title,
			Description: data.KnowledgeGraph.Description,
			Website:     data.KnowledgeGraph.Website,
		}
	}
	for _, item := range data.OrganicResults {
		result.Organic = append(result.Organic, types.SearchHit{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return result, nil
}

// ReverseImage implements LensClient using the Google Lens engine.
func (c *SerpAPIClient) ReverseImage(ctx context.Context, imageURL string) (*LensResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi: no API key configured")
	}
	if err := c.http.WaitSearch(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"engine":  {"google_lens"},
		"url":     {imageURL},
		"api_key": {c.apiKey},
	}
	var data struct {
		VisualMatches  []serpLensMatch  `json:"visual_matches"`
		ExactMatches   []serpLensMatch  `json:"exact_matches"`
		KnowledgeGraph []serpLensEntity `json:"knowledge_graph"`
	}
	if err := c.http.GetJSON(ctx, c.BaseURL, params, nil, &data); err != nil {
		return nil, fmt.Errorf("reverse image search failed: %w", err)
	}

	result := &LensResult{}
	for _, m := range data.VisualMatches {
		result.VisualMatches = append(result.VisualMatches, LensMatch(m))
	}
	for _, m := range data.ExactMatches {
		result.ExactMatches = append(result.ExactMatches, LensMatch(m))
	}
	for _, e := range data.KnowledgeGraph {
		result.KnowledgeGraph = append(result.KnowledgeGraph, LensEntity(e))
	}
	log.Printf("[SEARCH] reverse image: %d visual, %d exact matches",
		len(result.VisualMatches), len(result.ExactMatches))
	return result, nil
}
