package favorites

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/store"
)

// flakyKV wraps a memory store and fails writes on demand
type flakyKV struct {
	domain.KVStore
	failSet bool
	failGet bool
	sets    int
}

func (f *flakyKV) Set(key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	f.sets++
	return f.KVStore.Set(key, value)
}

func (f *flakyKV) Get(key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("io error")
	}
	return f.KVStore.Get(key)
}

func inception() domain.MovieSummary {
	poster := "/oYuLEt3zVCKq57qu2F8dT7NIa6f.jpg"
	return domain.MovieSummary{
		ID:          27205,
		Title:       "Inception",
		ReleaseDate: "2010-07-16",
		PosterImage: &poster,
		GenreIDs:    []int{28, 878},
		Rating:      8.4,
		VoteCount:   35000,
	}
}

func matrix() domain.MovieDetail {
	return domain.MovieDetail{
		ID:          603,
		Title:       "The Matrix",
		ReleaseDate: "1999-03-31",
		Runtime:     136,
		Genres:      []domain.Genre{{ID: 28, Name: "Action"}},
		Rating:      8.2,
	}
}

type StoreTestSuite struct {
	suite.Suite
	kv     *flakyKV
	store  *Store
	logger *slog.Logger
}

func (s *StoreTestSuite) SetupTest() {
	mem, err := store.Open("")
	s.Require().NoError(err)

	s.kv = &flakyKV{KVStore: mem}
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = New(s.kv, s.logger)
	s.Require().NoError(s.store.Hydrate())
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) ids() []int {
	favs, err := s.store.Favorites()
	s.Require().NoError(err)
	ids := make([]int, len(favs))
	for i, f := range favs {
		ids[i] = f.GetID()
	}
	return ids
}

func (s *StoreTestSuite) TestAddThenRemove() {
	added, err := s.store.AddMovie(inception())
	s.NoError(err)
	s.True(added)
	s.Equal([]int{27205}, s.ids())

	isFav, err := s.store.IsFavorite(27205)
	s.NoError(err)
	s.True(isFav)

	removed, err := s.store.Remove(27205)
	s.NoError(err)
	s.True(removed)
	s.Empty(s.ids())
}

func (s *StoreTestSuite) TestAddDuplicateIsNoOp() {
	_, err := s.store.AddMovie(inception())
	s.Require().NoError(err)
	writes := s.kv.sets

	added, err := s.store.AddMovie(inception())
	s.NoError(err)
	s.False(added)

	// Same ID in the other shape is still a duplicate
	detail := matrix()
	detail.ID = 27205
	added, err = s.store.AddDetail(detail)
	s.NoError(err)
	s.False(added)

	s.Equal([]int{27205}, s.ids())
	s.Equal(writes, s.kv.sets, "no-op adds must not write")
}

func (s *StoreTestSuite) TestRemoveIsIdempotent() {
	_, err := s.store.AddMovie(inception())
	s.Require().NoError(err)
	_, err = s.store.AddDetail(matrix())
	s.Require().NoError(err)

	removed, err := s.store.Remove(27205)
	s.NoError(err)
	s.True(removed)
	once := s.ids()

	removed, err = s.store.Remove(27205)
	s.NoError(err)
	s.False(removed)
	s.Equal(once, s.ids())
	s.Equal([]int{603}, once)
}

func (s *StoreTestSuite) TestRemoveUnknownID() {
	removed, err := s.store.Remove(42)
	s.NoError(err)
	s.False(removed)
}

func (s *StoreTestSuite) TestInsertionOrderPreserved() {
	for _, id := range []int{5, 3, 9, 1} {
		m := inception()
		m.ID = id
		_, err := s.store.AddMovie(m)
		s.Require().NoError(err)
	}
	_, err := s.store.Remove(9)
	s.Require().NoError(err)

	s.Equal([]int{5, 3, 1}, s.ids())
}

func (s *StoreTestSuite) TestFailedWriteLeavesMemoryUnchanged() {
	_, err := s.store.AddMovie(inception())
	s.Require().NoError(err)

	s.kv.failSet = true

	added, err := s.store.AddDetail(matrix())
	s.Error(err)
	s.False(added)
	s.Equal([]int{27205}, s.ids())

	removed, err := s.store.Remove(27205)
	s.Error(err)
	s.False(removed)
	s.Equal([]int{27205}, s.ids())
}

func (s *StoreTestSuite) TestPersistsBeforeNotifying() {
	var seen [][]int
	unsubscribe := s.store.Subscribe(func(favs []domain.Favorite) {
		blob, ok, err := s.kv.Get(domain.KeyFavorites)
		s.Require().NoError(err)
		s.Require().True(ok)
		persisted, err := domain.DecodeFavorites(blob)
		s.Require().NoError(err)
		s.Equal(len(favs), len(persisted))

		ids := make([]int, len(favs))
		for i, f := range favs {
			ids[i] = f.GetID()
		}
		seen = append(seen, ids)
	})

	_, err := s.store.AddMovie(inception())
	s.Require().NoError(err)
	_, err = s.store.AddMovie(inception()) // no-op, no notification
	s.Require().NoError(err)
	_, err = s.store.AddDetail(matrix())
	s.Require().NoError(err)
	_, err = s.store.Remove(27205)
	s.Require().NoError(err)
	_, err = s.store.Remove(27205) // no-op, no notification
	s.Require().NoError(err)

	unsubscribe()
	_, err = s.store.Remove(603)
	s.Require().NoError(err)

	s.Equal([][]int{{27205}, {27205, 603}, {603}}, seen)
}

func (s *StoreTestSuite) TestToggle() {
	fav := domain.FavoriteFromDetail(matrix())

	isFav, err := s.store.Toggle(fav)
	s.NoError(err)
	s.True(isFav)

	isFav, err = s.store.Toggle(fav)
	s.NoError(err)
	s.False(isFav)
	s.Empty(s.ids())
}

func (s *StoreTestSuite) TestFavoritesReturnsCopy() {
	_, err := s.store.AddMovie(inception())
	s.Require().NoError(err)

	favs, err := s.store.Favorites()
	s.Require().NoError(err)
	favs[0] = domain.FavoriteFromDetail(matrix())

	s.Equal([]int{27205}, s.ids())
}

func (s *StoreTestSuite) TestRejectsEmptyFavorite() {
	added, err := s.store.Add(domain.Favorite{Kind: domain.FavoriteKindMovie})
	s.Error(err)
	s.False(added)
}

func TestStore_NotInitialized(t *testing.T) {
	mem, err := store.Open("")
	require.NoError(t, err)
	s := New(mem, nil)

	_, err = s.Favorites()
	assert.ErrorIs(t, err, domain.ErrNotInitialized)

	_, err = s.IsFavorite(1)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)

	_, err = s.AddMovie(inception())
	assert.ErrorIs(t, err, domain.ErrNotInitialized)

	_, err = s.Remove(1)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)

	_, err = s.Toggle(domain.FavoriteFromMovie(inception()))
	assert.ErrorIs(t, err, domain.ErrNotInitialized)

	require.NoError(t, s.Hydrate())
	_, err = s.Favorites()
	assert.NoError(t, err)
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reel.db")

	kv, err := store.Open(path)
	require.NoError(t, err)
	s := New(kv, nil)
	require.NoError(t, s.Hydrate())

	_, err = s.AddMovie(inception())
	require.NoError(t, err)
	_, err = s.AddDetail(matrix())
	require.NoError(t, err)

	before, err := s.Favorites()
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	// Simulated reload
	kv, err = store.Open(path)
	require.NoError(t, err)
	defer kv.Close()

	reloaded := New(kv, nil)
	require.NoError(t, reloaded.Hydrate())

	after, err := reloaded.Favorites()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, domain.FavoriteKindMovie, after[0].Kind)
	assert.Equal(t, domain.FavoriteKindDetail, after[1].Kind)
	assert.Equal(t, "2010-07-16", after[0].GetReleaseDate())
}

func TestStore_HydrateTreatsCorruptDataAsEmpty(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", "{{{"},
		{"wrong shape", `{"id": 1}`},
		{"kind without payload", `[{"kind":"movie"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem, err := store.Open("")
			require.NoError(t, err)
			require.NoError(t, mem.Set(domain.KeyFavorites, tt.blob))

			s := New(mem, nil)
			require.NoError(t, s.Hydrate())

			favs, err := s.Favorites()
			require.NoError(t, err)
			assert.Empty(t, favs)

			// The store stays usable
			added, err := s.AddMovie(inception())
			require.NoError(t, err)
			assert.True(t, added)
		})
	}
}

func TestStore_HydrateReadFailureKeepsDiskData(t *testing.T) {
	mem, err := store.Open("")
	require.NoError(t, err)
	saved := `[{"kind":"movie","movie":{"id":1,"title":"Heat"}}]`
	require.NoError(t, mem.Set(domain.KeyFavorites, saved))
	kv := &flakyKV{KVStore: mem, failGet: true}

	s := New(kv, nil)
	require.Error(t, s.Hydrate())

	_, err = s.AddMovie(inception())
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
	blob, _, err := mem.Get(domain.KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, saved, blob)

	kv.failGet = false
	require.NoError(t, s.Hydrate())
	favs, err := s.Favorites()
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Heat", favs[0].GetTitle())
}

func TestStore_ConcurrentTogglesStayConsistent(t *testing.T) {
	mem, err := store.Open("")
	require.NoError(t, err)
	s := New(mem, nil)
	require.NoError(t, s.Hydrate())

	var (
		mu   sync.Mutex
		last []domain.Favorite
	)
	s.Subscribe(func(favs []domain.Favorite) {
		mu.Lock()
		last = favs
		mu.Unlock()
	})

	fav := domain.FavoriteFromMovie(inception())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Toggle(fav)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 50 toggles from empty end empty, and the last delivered snapshot
	// matches the store
	favs, err := s.Favorites()
	require.NoError(t, err)
	assert.Empty(t, favs)

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, last)

	blob, ok, err := mem.Get(domain.KeyFavorites)
	require.NoError(t, err)
	require.True(t, ok)
	persisted, err := domain.DecodeFavorites(blob)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestStore_HydrateDropsDuplicateIDs(t *testing.T) {
	mem, err := store.Open("")
	require.NoError(t, err)
	require.NoError(t, mem.Set(domain.KeyFavorites,
		`[{"kind":"movie","movie":{"id":1,"title":"A"}},{"kind":"movie","movie":{"id":1,"title":"A again"}},{"kind":"movie","movie":{"id":2,"title":"B"}}]`))

	s := New(mem, nil)
	require.NoError(t, s.Hydrate())

	favs, err := s.Favorites()
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "A", favs[0].GetTitle())
	assert.Equal(t, 2, favs[1].GetID())
}

func TestStore_HydrateOnce(t *testing.T) {
	mem, err := store.Open("")
	require.NoError(t, err)
	s := New(mem, nil)
	require.NoError(t, s.Hydrate())

	_, err = s.AddMovie(inception())
	require.NoError(t, err)

	// Overwrite storage behind the store's back; a second Hydrate must not reload
	require.NoError(t, mem.Set(domain.KeyFavorites, "[]"))
	require.NoError(t, s.Hydrate())

	favs, err := s.Favorites()
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}
