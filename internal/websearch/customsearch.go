package websearch

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"backgrounder/internal/types"
)

// CSEClient implements Client against the Google Custom Search JSON API.
// There is no news vertical or reverse-image surface on this backend; news
// queries run as plain web searches tagged "news".
type CSEClient struct {
	svc *customsearch.Service
	cx  string

	excludeDomain string
}

// NewCSEClient creates a Custom Search-backed search client.
func NewCSEClient(ctx context.Context, apiKey, cx, excludeDomain string) (*CSEClient, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &CSEClient{svc: svc, cx: cx, excludeDomain: excludeDomain}, nil
}

// Search implements Client.
func (c *CSEClient) Search(ctx context.Context, query string) ([]types.SearchHit, error) {
	resp, err := c.svc.Cse.List().Cx(c.cx).Q(query).Num(10).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google search failed for %q: %w", query, err)
	}

	var hits []types.SearchHit
	for _, item := range resp.Items {
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

// SearchNews implements Client. Custom Search has no news engine, so the
// query runs against the web index and hits are tagged as news.
func (c *CSEClient) SearchNews(ctx context.Context, query string) ([]types.SearchHit, error) {
	resp, err := c.svc.Cse.List().Cx(c.cx).Q(query).Num(10).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("news search failed for %q: %w", query, err)
	}

	var hits []types.SearchHit
	for _, item := range resp.Items {
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

// SearchRaw implements Client. Custom Search caps num at 10 per request.
func (c *CSEClient) SearchRaw(ctx context.Context, query string, num int) ([]types.SearchHit, error) {
	if num < 1 || num > 10 {
		num = 10
	}
	resp, err := c.svc.Cse.List().Cx(c.cx).Q(query).Num(int64(num)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google search failed for %q: %w", query, err)
	}

	hits := make([]types.SearchHit, 0, len(resp.Items))
	for _, item := range resp.Items {
		hits = append(hits, types.SearchHit{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return hits, nil
}

// SearchEntity implements EntitySearcher. Custom Search exposes no knowledge
// graph, so verification falls back to the organic heuristics alone.
func (c *CSEClient) SearchEntity(ctx context.Context, query string) (*EntityResult, error) {
	hits, err := c.SearchRaw(ctx, query, 5)
	if err != nil {
		return nil, err
	}
	return &EntityResult{Organic: hits}, nil
}
