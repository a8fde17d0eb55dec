package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MovieSummary is a catalog search result
type MovieSummary struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"originalTitle"`
	OriginalLanguage string  `json:"originalLanguage"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	PosterImage      *string `json:"posterImage"`   // nil when the catalog has no poster
	BackdropImage    *string `json:"backdropImage"` // nil when the catalog has no backdrop
	ReleaseDate      string  `json:"releaseDate"`   // YYYY-MM-DD or empty
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
	GenreIDs         []int   `json:"genreIds"`
	Rating           float64 `json:"rating"` // 0-10 vote average
	VoteCount        int     `json:"voteCount"`
}

// Genre is a catalog genre lookup entry
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Company is a production company
type Company struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoImage     *string `json:"logoImage"`
	OriginCountry string  `json:"originCountry"`
}

// Country is a production country
type Country struct {
	ISO31661 string `json:"iso31661"`
	Name     string `json:"name"`
}

// Language is a spoken language
type Language struct {
	EnglishName string `json:"englishName"`
	ISO6391     string `json:"iso6391"`
	Name        string `json:"name"`
}

// Collection is the franchise a movie belongs to
type Collection struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	PosterImage   *string `json:"posterImage"`
	BackdropImage *string `json:"backdropImage"`
}

// MovieDetail is the full record for a single movie
type MovieDetail struct {
	ID                  int         `json:"id"`
	Title               string      `json:"title"`
	OriginalTitle       string      `json:"originalTitle"`
	OriginalLanguage    string      `json:"originalLanguage"`
	Overview            string      `json:"overview"`
	Popularity          float64     `json:"popularity"`
	PosterImage         *string     `json:"posterImage"`
	BackdropImage       *string     `json:"backdropImage"`
	ReleaseDate         string      `json:"releaseDate"`
	Adult               bool        `json:"adult"`
	Video               bool        `json:"video"`
	Rating              float64     `json:"voteAverage"`
	VoteCount           int         `json:"voteCount"`
	Budget              int64       `json:"budget"`
	Revenue             int64       `json:"revenue"`
	Runtime             int         `json:"runtime"` // minutes
	Status              string      `json:"status"`
	Tagline             string      `json:"tagline"`
	Homepage            string      `json:"homepage"`
	IMDBID              string      `json:"imdbId"`
	OriginCountry       []string    `json:"originCountry"`
	Genres              []Genre     `json:"genres"`
	ProductionCompanies []Company   `json:"productionCompanies"`
	ProductionCountries []Country   `json:"productionCountries"`
	SpokenLanguages     []Language  `json:"spokenLanguages"`
	BelongsToCollection *Collection `json:"belongsToCollection,omitempty"`
}

// Summary projects the detail onto the search result shape
func (d MovieDetail) Summary() MovieSummary {
	genreIDs := make([]int, len(d.Genres))
	for i, g := range d.Genres {
		genreIDs[i] = g.ID
	}
	return MovieSummary{
		ID:               d.ID,
		Title:            d.Title,
		OriginalTitle:    d.OriginalTitle,
		OriginalLanguage: d.OriginalLanguage,
		Overview:         d.Overview,
		Popularity:       d.Popularity,
		PosterImage:      d.PosterImage,
		BackdropImage:    d.BackdropImage,
		ReleaseDate:      d.ReleaseDate,
		Adult:            d.Adult,
		Video:            d.Video,
		GenreIDs:         genreIDs,
		Rating:           d.Rating,
		VoteCount:        d.VoteCount,
	}
}

// GenreNames returns the genre names joined for display
func (d MovieDetail) GenreNames() string {
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

// FormattedRuntime returns the runtime in a human-readable format
func (d MovieDetail) FormattedRuntime() string {
	if d.Runtime <= 0 {
		return ""
	}
	h := d.Runtime / 60
	mins := d.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// SearchPage is one page of search results with paging metadata
type SearchPage struct {
	Page         int
	TotalPages   int
	TotalResults int
	Results      []MovieSummary
}

// Year extracts the year from a YYYY-MM-DD release date (0 if unknown)
func Year(releaseDate string) int {
	head, _, _ := strings.Cut(releaseDate, "-")
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return year
}

// ScorePercent converts a 0-10 rating into a rounded percentage
func ScorePercent(rating float64) int {
	return int(math.Round(rating * 10))
}

// StringValue dereferences a nullable string
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
