package domain

import (
	"encoding/json"
	"fmt"
)

// FavoriteKind discriminates the shape stored in a Favorite
type FavoriteKind string

const (
	FavoriteKindMovie  FavoriteKind = "movie"
	FavoriteKindDetail FavoriteKind = "detail"
)

// Favorite is a saved movie, either a search result or a full detail record.
// Exactly one of Movie and Detail is set, matching Kind.
type Favorite struct {
	Kind   FavoriteKind  `json:"kind"`
	Movie  *MovieSummary `json:"movie,omitempty"`
	Detail *MovieDetail  `json:"detail,omitempty"`
}

// FavoriteFromMovie wraps a search result
func FavoriteFromMovie(m MovieSummary) Favorite {
	return Favorite{Kind: FavoriteKindMovie, Movie: &m}
}

// FavoriteFromDetail wraps a detail record
func FavoriteFromDetail(d MovieDetail) Favorite {
	return Favorite{Kind: FavoriteKindDetail, Detail: &d}
}

// Valid reports whether the payload matches the kind
func (f Favorite) Valid() bool {
	switch f.Kind {
	case FavoriteKindMovie:
		return f.Movie != nil
	case FavoriteKindDetail:
		return f.Detail != nil
	default:
		return false
	}
}

// Summary returns the search-result view of the favorite
func (f Favorite) Summary() MovieSummary {
	if f.Kind == FavoriteKindDetail && f.Detail != nil {
		return f.Detail.Summary()
	}
	if f.Movie != nil {
		return *f.Movie
	}
	return MovieSummary{}
}

func (f Favorite) GetID() int {
	switch {
	case f.Kind == FavoriteKindDetail && f.Detail != nil:
		return f.Detail.ID
	case f.Movie != nil:
		return f.Movie.ID
	}
	return 0
}

func (f Favorite) GetTitle() string       { return f.Summary().Title }
func (f Favorite) GetYear() int           { return Year(f.Summary().ReleaseDate) }
func (f Favorite) GetRating() float64     { return f.Summary().Rating }
func (f Favorite) GetPoster() *string     { return f.Summary().PosterImage }
func (f Favorite) GetReleaseDate() string { return f.Summary().ReleaseDate }

func (f Favorite) GetDescription() string {
	if y := f.GetYear(); y > 0 {
		return fmt.Sprintf("%d", y)
	}
	return ""
}

// EncodeFavorites serializes favorites for persistence
func EncodeFavorites(favs []Favorite) (string, error) {
	if favs == nil {
		favs = []Favorite{}
	}
	data, err := json.Marshal(favs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeFavorites parses a persisted favorites blob. Entries whose payload
// does not match their kind make the whole blob invalid.
func DecodeFavorites(blob string) ([]Favorite, error) {
	var favs []Favorite
	if err := json.Unmarshal([]byte(blob), &favs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	for i, f := range favs {
		if !f.Valid() {
			return nil, fmt.Errorf("%w: entry %d has kind %q without payload", ErrParse, i, f.Kind)
		}
	}
	return favs, nil
}
