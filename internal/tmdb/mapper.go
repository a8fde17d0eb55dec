package tmdb

import (
	"github.com/mmcdole/reel/internal/domain"
)

// MapMovies converts TMDB search results to domain movies, preserving order
func MapMovies(movies []Movie) []domain.MovieSummary {
	items := make([]domain.MovieSummary, 0, len(movies))
	for _, m := range movies {
		items = append(items, MapMovie(m))
	}
	return items
}

// MapMovie converts a single search result
func MapMovie(m Movie) domain.MovieSummary {
	return domain.MovieSummary{
		ID:               m.ID,
		Title:            m.Title,
		OriginalTitle:    m.OriginalTitle,
		OriginalLanguage: m.OriginalLanguage,
		Overview:         m.Overview,
		Popularity:       m.Popularity,
		PosterImage:      m.PosterPath,
		BackdropImage:    m.BackdropPath,
		ReleaseDate:      m.ReleaseDate,
		Adult:            m.Adult,
		Video:            m.Video,
		GenreIDs:         copyInts(m.GenreIDs),
		Rating:           m.VoteAverage,
		VoteCount:        m.VoteCount,
	}
}

// MapGenres converts a genre lookup table
func MapGenres(genres []Genre) []domain.Genre {
	out := make([]domain.Genre, len(genres))
	for i, g := range genres {
		out[i] = domain.Genre{ID: g.ID, Name: g.Name}
	}
	return out
}

// MapMovieDetail converts a /movie/{id} response. BelongsToCollection stays
// nil when the source field is null.
func MapMovieDetail(m MovieDetails) domain.MovieDetail {
	detail := domain.MovieDetail{
		ID:               m.ID,
		Title:            m.Title,
		OriginalTitle:    m.OriginalTitle,
		OriginalLanguage: m.OriginalLanguage,
		Overview:         m.Overview,
		Popularity:       m.Popularity,
		PosterImage:      m.PosterPath,
		BackdropImage:    m.BackdropPath,
		ReleaseDate:      m.ReleaseDate,
		Adult:            m.Adult,
		Video:            m.Video,
		Rating:           m.VoteAverage,
		VoteCount:        m.VoteCount,
		Budget:           m.Budget,
		Revenue:          m.Revenue,
		Runtime:          m.Runtime,
		Status:           m.Status,
		Tagline:          m.Tagline,
		Homepage:         m.Homepage,
		IMDBID:           m.IMDBID,
		OriginCountry:    append([]string(nil), m.OriginCountry...),
		Genres:           MapGenres(m.Genres),
	}

	detail.ProductionCompanies = make([]domain.Company, len(m.ProductionCompanies))
	for i, c := range m.ProductionCompanies {
		detail.ProductionCompanies[i] = domain.Company{
			ID:            c.ID,
			Name:          c.Name,
			LogoImage:     c.LogoPath,
			OriginCountry: c.OriginCountry,
		}
	}

	detail.ProductionCountries = make([]domain.Country, len(m.ProductionCountries))
	for i, c := range m.ProductionCountries {
		detail.ProductionCountries[i] = domain.Country{ISO31661: c.ISO31661, Name: c.Name}
	}

	detail.SpokenLanguages = make([]domain.Language, len(m.SpokenLanguages))
	for i, l := range m.SpokenLanguages {
		detail.SpokenLanguages[i] = domain.Language{
			EnglishName: l.EnglishName,
			ISO6391:     l.ISO6391,
			Name:        l.Name,
		}
	}

	if c := m.BelongsToCollection; c != nil {
		detail.BelongsToCollection = &domain.Collection{
			ID:            c.ID,
			Name:          c.Name,
			PosterImage:   c.PosterPath,
			BackdropImage: c.BackdropPath,
		}
	}

	return detail
}

func copyInts(in []int) []int {
	if in == nil {
		return []int{}
	}
	return append([]int(nil), in...)
}
