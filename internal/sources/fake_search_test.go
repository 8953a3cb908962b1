package sources

import (
	"context"
	"fmt"
	"sync"

	"backgrounder/internal/types"
	"backgrounder/internal/websearch"
)

// fakeSearch scripts the search backend for tests. Handlers receive the
// query; unset handlers return empty results.
type fakeSearch struct {
	mu      sync.Mutex
	queries []string

	rawFn    func(query string, num int) ([]types.SearchHit, error)
	entityFn func(query string) (*websearch.EntityResult, error)
	lensFn   func(imageURL string) (*websearch.LensResult, error)
}

func (f *fakeSearch) record(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
}

func (f *fakeSearch) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *fakeSearch) Search(_ context.Context, query string) ([]types.SearchHit, error) {
	f.record(query)
	if f.rawFn == nil {
		return nil, nil
	}
	return f.rawFn(query, websearch.MaxResults)
}

func (f *fakeSearch) SearchNews(_ context.Context, query string) ([]types.SearchHit, error) {
	f.record(query)
	if f.rawFn == nil {
		return nil, nil
	}
	return f.rawFn(query, websearch.MaxResults)
}

func (f *fakeSearch) SearchRaw(_ context.Context, query string, num int) ([]types.SearchHit, error) {
	f.record(query)
	if f.rawFn == nil {
		return nil, nil
	}
	return f.rawFn(query, num)
}

func (f *fakeSearch) SearchEntity(_ context.Context, query string) (*websearch.EntityResult, error) {
	f.record(query)
	if f.entityFn == nil {
		return &websearch.EntityResult{}, nil
	}
	return f.entityFn(query)
}

func (f *fakeSearch) ReverseImage(_ context.Context, imageURL string) (*websearch.LensResult, error) {
	f.record("lens:" + imageURL)
	if f.lensFn == nil {
		return &websearch.LensResult{}, nil
	}
	return f.lensFn(imageURL)
}

func hit(title, url, snippet string) types.SearchHit {
	return types.SearchHit{Title: title, URL: url, Snippet: snippet}
}

var errFakeSearch = fmt.Errorf("fake search backend down")
