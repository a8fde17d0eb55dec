package tmdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMapMovieDetail_Collection(t *testing.T) {
	src := MovieDetails{
		ID:    120,
		Title: "The Lord of the Rings: The Fellowship of the Ring",
		BelongsToCollection: &Collection{
			ID:           119,
			Name:         "The Lord of the Rings Collection",
			PosterPath:   strPtr("/oENY593nKRVL2PnxXsMtlh8izb4.jpg"),
			BackdropPath: nil,
		},
	}

	detail := MapMovieDetail(src)

	require.NotNil(t, detail.BelongsToCollection)
	assert.Equal(t, 119, detail.BelongsToCollection.ID)
	assert.Equal(t, "The Lord of the Rings Collection", detail.BelongsToCollection.Name)
	assert.Equal(t, "/oENY593nKRVL2PnxXsMtlh8izb4.jpg", *detail.BelongsToCollection.PosterImage)
	assert.Nil(t, detail.BelongsToCollection.BackdropImage)
}

func TestMapMovieDetail_NullCollectionOmittedFromJSON(t *testing.T) {
	var src MovieDetails
	require.NoError(t, json.Unmarshal([]byte(matrixDetail), &src))

	detail := MapMovieDetail(src)
	assert.Nil(t, detail.BelongsToCollection)

	data, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "belongsToCollection")
}

func TestMapMovieDetail_EmptyArrays(t *testing.T) {
	detail := MapMovieDetail(MovieDetails{ID: 1})

	assert.NotNil(t, detail.ProductionCompanies)
	assert.Empty(t, detail.ProductionCompanies)
	assert.NotNil(t, detail.ProductionCountries)
	assert.NotNil(t, detail.SpokenLanguages)
	assert.NotNil(t, detail.Genres)
}

func TestMapMovie_NilGenreIDs(t *testing.T) {
	movie := MapMovie(Movie{ID: 5, Title: "Untagged"})
	assert.Equal(t, []int{}, movie.GenreIDs)
}

func TestMapMovies_PreservesOrder(t *testing.T) {
	movies := MapMovies([]Movie{{ID: 3}, {ID: 1}, {ID: 2}})
	ids := make([]int, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	assert.Equal(t, []int{3, 1, 2}, ids)
}
