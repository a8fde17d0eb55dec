package domain

import (
	"context"
)

// Catalog provides access to the external movie catalog
type Catalog interface {
	// SearchMovies returns one page of results for a title query, in catalog order
	SearchMovies(ctx context.Context, query string, page int) ([]MovieSummary, error)

	// GetMovieDetails returns the full record for one movie
	GetMovieDetails(ctx context.Context, id int) (*MovieDetail, error)

	// GetMoviesGenres returns the movie genre lookup table
	GetMoviesGenres(ctx context.Context) ([]Genre, error)

	// GetTVShowsGenres returns the TV genre lookup table
	GetTVShowsGenres(ctx context.Context) ([]Genre, error)
}
