package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/favorites"
)

// DetailState is the lifecycle of a detail view
type DetailState int

const (
	DetailIdle DetailState = iota
	DetailLoading
	DetailLoaded
	DetailFailed
)

func (s DetailState) String() string {
	switch s {
	case DetailLoading:
		return "loading"
	case DetailLoaded:
		return "loaded"
	case DetailFailed:
		return "failed"
	default:
		return "idle"
	}
}

// DetailRequest identifies one navigation to a detail view
type DetailRequest struct {
	Seq uint64
	ID  int
}

// DetailOutcome is the result of loading a DetailRequest
type DetailOutcome struct {
	DetailRequest
	Movie *domain.MovieDetail
	Err   error
}

// DetailFlow loads one movie's detail per navigation and toggles its
// favorite status.
type DetailFlow struct {
	catalog   domain.Catalog
	favorites *favorites.Store
	logger    *slog.Logger

	mu    sync.Mutex
	seq   uint64
	id    int
	state DetailState
	movie *domain.MovieDetail
	err   error
}

// NewDetailFlow creates a new detail flow
func NewDetailFlow(catalog domain.Catalog, favs *favorites.Store, logger *slog.Logger) *DetailFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailFlow{
		catalog:   catalog,
		favorites: favs,
		logger:    logger,
	}
}

// Open starts a navigation to movie id; the view shows loading until the
// matching outcome is applied.
func (f *DetailFlow) Open(id int) DetailRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	f.id = id
	f.state = DetailLoading
	f.movie = nil
	f.err = nil
	return DetailRequest{Seq: f.seq, ID: id}
}

// Load fetches the detail for req. It does not touch flow state.
func (f *DetailFlow) Load(ctx context.Context, req DetailRequest) DetailOutcome {
	movie, err := f.catalog.GetMovieDetails(ctx, req.ID)
	if err != nil {
		f.logger.Warn("failed to load movie details", "id", req.ID, "error", err)
	}
	return DetailOutcome{DetailRequest: req, Movie: movie, Err: err}
}

// Apply stores the outcome if it belongs to the current navigation
func (f *DetailFlow) Apply(out DetailOutcome) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if out.Seq != f.seq {
		return false
	}
	if out.Err != nil {
		f.state = DetailFailed
		f.err = out.Err
		return true
	}
	f.state = DetailLoaded
	f.movie = out.Movie
	return true
}

// Fetch is Open, Load and Apply in one call
func (f *DetailFlow) Fetch(ctx context.Context, id int) (*domain.MovieDetail, error) {
	out := f.Load(ctx, f.Open(id))
	f.Apply(out)
	return out.Movie, out.Err
}

// Close returns the flow to idle
func (f *DetailFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.id = 0
	f.state = DetailIdle
	f.movie = nil
	f.err = nil
}

func (f *DetailFlow) State() DetailState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *DetailFlow) ID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *DetailFlow) Movie() *domain.MovieDetail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.movie
}

func (f *DetailFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// IsFavorite scans the favorites for the open movie
func (f *DetailFlow) IsFavorite() bool {
	isFav, err := f.favorites.IsFavorite(f.ID())
	if err != nil {
		f.logger.Error("favorites unavailable", "error", err)
		return false
	}
	return isFav
}

// ErrDetailNotLoaded is returned by ToggleFavorite when there is nothing
// to save yet
var ErrDetailNotLoaded = errors.New("movie details are still loading")

// ToggleFavorite saves the loaded movie, or removes it if already saved,
// and returns the new status. Before the detail has loaded only removal is
// possible; saving returns ErrDetailNotLoaded.
func (f *DetailFlow) ToggleFavorite() (bool, error) {
	if movie := f.Movie(); movie != nil {
		return f.favorites.Toggle(domain.FavoriteFromDetail(*movie))
	}

	removed, err := f.favorites.Remove(f.ID())
	if err != nil {
		return false, err
	}
	if !removed {
		return false, ErrDetailNotLoaded
	}
	return false, nil
}
