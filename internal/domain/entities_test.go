package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYear(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"2010-07-16", 2010},
		{"1999", 1999},
		{"", 0},
		{"unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Year(tt.input))
		})
	}
}

func TestScorePercent(t *testing.T) {
	assert.Equal(t, 84, ScorePercent(8.4))
	assert.Equal(t, 83, ScorePercent(8.349))
	assert.Equal(t, 0, ScorePercent(0))
	assert.Equal(t, 100, ScorePercent(10))
}

func TestFormattedRuntime(t *testing.T) {
	assert.Equal(t, "2h 16m", MovieDetail{Runtime: 136}.FormattedRuntime())
	assert.Equal(t, "45m", MovieDetail{Runtime: 45}.FormattedRuntime())
	assert.Equal(t, "", MovieDetail{}.FormattedRuntime())
}

func TestMovieDetailSummary(t *testing.T) {
	poster := "/p.jpg"
	d := MovieDetail{
		ID:          603,
		Title:       "The Matrix",
		ReleaseDate: "1999-03-31",
		PosterImage: &poster,
		Genres:      []Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		Rating:      8.2,
		VoteCount:   24000,
	}

	s := d.Summary()
	assert.Equal(t, 603, s.ID)
	assert.Equal(t, []int{28, 878}, s.GenreIDs)
	assert.Equal(t, &poster, s.PosterImage)
	assert.Equal(t, 8.2, s.Rating)
	assert.Equal(t, "Action, Science Fiction", d.GenreNames())
}

func TestFavoriteAccessors(t *testing.T) {
	movie := FavoriteFromMovie(MovieSummary{ID: 27205, Title: "Inception", ReleaseDate: "2010-07-16", Rating: 8.4})
	detail := FavoriteFromDetail(MovieDetail{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31"})

	items := []ListItem{movie, detail, MovieSummary{ID: 1, Title: "Plain"}}
	assert.Equal(t, 27205, items[0].GetID())
	assert.Equal(t, "Inception", items[0].GetTitle())
	assert.Equal(t, 2010, items[0].GetYear())
	assert.Equal(t, "2010", items[0].GetDescription())
	assert.Equal(t, 603, items[1].GetID())
	assert.Equal(t, "The Matrix", items[1].GetTitle())
	assert.Equal(t, 1999, items[1].GetYear())
	assert.Equal(t, "", items[2].GetDescription())

	assert.True(t, movie.Valid())
	assert.True(t, detail.Valid())
	assert.False(t, Favorite{Kind: FavoriteKindDetail}.Valid())
	assert.False(t, Favorite{Kind: "other", Movie: &MovieSummary{}}.Valid())
}

func TestEncodeDecodeFavorites(t *testing.T) {
	favs := []Favorite{
		FavoriteFromMovie(MovieSummary{ID: 1, Title: "A", GenreIDs: []int{1}}),
		FavoriteFromDetail(MovieDetail{ID: 2, Title: "B"}),
	}

	blob, err := EncodeFavorites(favs)
	require.NoError(t, err)
	assert.Contains(t, blob, `"kind":"movie"`)
	assert.Contains(t, blob, `"kind":"detail"`)

	decoded, err := DecodeFavorites(blob)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, 1, decoded[0].GetID())
	assert.Equal(t, 2, decoded[1].GetID())

	empty, err := EncodeFavorites(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}

func TestDecodeFavorites_Invalid(t *testing.T) {
	_, err := DecodeFavorites("not json")
	assert.ErrorIs(t, err, ErrParse)

	_, err = DecodeFavorites(`[{"kind":"detail","movie":{"id":1}}]`)
	assert.ErrorIs(t, err, ErrParse)
}

func TestServiceErrorIs(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := error(&ServiceError{Op: "search movies", Kind: KindTransport, Err: cause})

	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "search movies: transport: dial tcp: connection refused", err.Error())

	timeout := &ServiceError{Op: "get movie details", Kind: KindTimeout}
	assert.ErrorIs(t, timeout, ErrTimeout)
	assert.ErrorIs(t, timeout, ErrTransport)

	notFound := &ServiceError{Op: "get movie details", Kind: KindNotFound, StatusCode: 404}
	assert.Equal(t, "get movie details: not found (status 404)", notFound.Error())
}
