package service

import (
	"context"

	"github.com/mmcdole/reel/internal/domain"
)

// PageSearcher is the paging part of the catalog client (consumer-defined interface)
type PageSearcher interface {
	SearchMoviesPage(ctx context.Context, query string, page int) (domain.SearchPage, error)
}

// SearchAll walks result pages from page 1 until limit results are
// collected or the catalog runs out. limit <= 0 means one page.
func SearchAll(ctx context.Context, searcher PageSearcher, query string, limit int) ([]domain.MovieSummary, error) {
	fetch := func(ctx context.Context, page int) ([]domain.MovieSummary, int, error) {
		p, err := searcher.SearchMoviesPage(ctx, query, page)
		if err != nil {
			return nil, 0, err
		}
		return p.Results, p.TotalPages, nil
	}
	return fetchPages(ctx, fetch, limit)
}

// fetchPages handles 1-based pagination until limit items or the last page.
func fetchPages[T any](
	ctx context.Context,
	fetch func(ctx context.Context, page int) ([]T, int, error),
	limit int,
) ([]T, error) {
	var all []T
	page := 1

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items, totalPages, err := fetch(ctx, page)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)

		if limit <= 0 || len(all) >= limit || page >= totalPages || len(items) == 0 {
			break
		}
		page++
	}

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
