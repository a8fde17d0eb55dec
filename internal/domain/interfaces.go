package domain

import "fmt"

// ListItem is the common display API for search results and favorites.
// MovieSummary and Favorite implement it so list rendering never needs to
// know which shape it holds.
type ListItem interface {
	// GetID returns the catalog identifier
	GetID() int

	// GetTitle returns the display title
	GetTitle() string

	// GetYear returns the release year (0 if unknown)
	GetYear() int

	// GetRating returns the 0-10 vote average
	GetRating() float64

	// GetPoster returns the poster path, nil when absent
	GetPoster() *string

	// GetReleaseDate returns the raw YYYY-MM-DD release date
	GetReleaseDate() string

	// GetDescription returns secondary info for display
	GetDescription() string
}

func (m MovieSummary) GetID() int             { return m.ID }
func (m MovieSummary) GetTitle() string       { return m.Title }
func (m MovieSummary) GetYear() int           { return Year(m.ReleaseDate) }
func (m MovieSummary) GetRating() float64     { return m.Rating }
func (m MovieSummary) GetPoster() *string     { return m.PosterImage }
func (m MovieSummary) GetReleaseDate() string { return m.ReleaseDate }

func (m MovieSummary) GetDescription() string {
	if y := m.GetYear(); y > 0 {
		return fmt.Sprintf("%d", y)
	}
	return ""
}
