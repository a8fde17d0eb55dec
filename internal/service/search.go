package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// SearchRequest identifies one dispatched search
type SearchRequest struct {
	Seq   uint64
	Query string
}

// SearchOutcome is the result of running a SearchRequest
type SearchOutcome struct {
	SearchRequest
	Results []domain.MovieSummary
	Err     error
}

// SearchFlow turns query edits into catalog searches and keeps only the
// results of the most recently submitted query.
type SearchFlow struct {
	catalog domain.Catalog
	logger  *slog.Logger

	mu      sync.Mutex
	seq     uint64 // last dispatched
	results []domain.MovieSummary
	err     error
}

// NewSearchFlow creates a new search flow
func NewSearchFlow(catalog domain.Catalog, logger *slog.Logger) *SearchFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchFlow{
		catalog: catalog,
		logger:  logger,
	}
}

// Submit makes query the current search. A blank query clears the results and
// returns ok=false: no request should be issued. Either way, every earlier
// request becomes stale.
func (f *SearchFlow) Submit(query string) (SearchRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	f.err = nil

	if strings.TrimSpace(query) == "" {
		f.results = nil
		return SearchRequest{}, false
	}
	return SearchRequest{Seq: f.seq, Query: query}, true
}

// Run performs the request against the catalog, always for page 1. It does
// not touch flow state and is safe to call from a command goroutine.
func (f *SearchFlow) Run(ctx context.Context, req SearchRequest) SearchOutcome {
	f.logger.Debug("searching", "query", req.Query, "seq", req.Seq)

	results, err := f.catalog.SearchMovies(ctx, req.Query, 1)
	if err != nil {
		f.logger.Warn("search failed", "query", req.Query, "error", err)
	}
	return SearchOutcome{SearchRequest: req, Results: results, Err: err}
}

// Apply stores the outcome if it answers the latest submitted query and
// reports whether it did. Stale outcomes are dropped.
func (f *SearchFlow) Apply(out SearchOutcome) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if out.Seq != f.seq {
		f.logger.Debug("discarding stale search results", "query", out.Query, "seq", out.Seq, "latest", f.seq)
		return false
	}

	if out.Err != nil {
		f.results = nil
		f.err = out.Err
		return true
	}

	f.results = out.Results
	f.err = nil
	f.logger.Debug("search complete", "query", out.Query, "results", len(out.Results))
	return true
}

// Search is Submit, Run and Apply in one call
func (f *SearchFlow) Search(ctx context.Context, query string) ([]domain.MovieSummary, error) {
	req, ok := f.Submit(query)
	if !ok {
		return nil, nil
	}
	out := f.Run(ctx, req)
	f.Apply(out)
	return out.Results, out.Err
}

// Results returns the displayed results
func (f *SearchFlow) Results() []domain.MovieSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.MovieSummary, len(f.results))
	copy(out, f.results)
	return out
}

// Err returns the error of the latest applied search, if any
func (f *SearchFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
