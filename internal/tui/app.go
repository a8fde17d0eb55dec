package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/favorites"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/theme"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Screen identifies which view is shown
type Screen int

const (
	ScreenSearch Screen = iota
	ScreenFavorites
	ScreenDetail
)

const statusTTL = 3 * time.Second

// Options configures the TUI
type Options struct {
	Search    *service.SearchFlow
	Detail    *service.DetailFlow
	Favorites *favorites.Store
	Theme     *theme.Preference
	ImageURL  func(path *string) string
	PageURL   func(id int) string
	OpenURL   func(url string) error
	Timeout   time.Duration // per catalog command
	Logger    *slog.Logger
}

// favMatch is one row of the filtered favorites list
type favMatch struct {
	Fav     domain.Favorite
	Matched []int // byte offsets of matched title characters
}

// Model is the main Bubble Tea model
type Model struct {
	Screen Screen
	Prev   Screen // where Back leaves the detail view to

	search    *service.SearchFlow
	detail    *service.DetailFlow
	favorites *favorites.Store
	theme     *theme.Preference
	imageURL  func(*string) string
	pageURL   func(int) string
	openURL   func(string) error
	timeout   time.Duration
	logger    *slog.Logger

	observer    *ChannelObserver
	unsubscribe func()

	Keys     KeyMap
	Help     help.Model
	Input    textinput.Model
	Filter   textinput.Model
	Spinner  spinner.Model
	Viewport viewport.Model

	// Search
	Searching bool
	Results   []domain.MovieSummary
	SearchErr error
	Cursor    int
	Offset    int

	// Favorites
	Favs      []domain.Favorite
	Matches   []favMatch
	FavCursor int
	FavOffset int
	Filtering bool

	Status      string
	StatusIsErr bool
	statusID    int

	Width  int
	Height int
	Ready  bool
}

// NewModel creates the TUI model and subscribes it to favorites changes.
// Call Close when the program exits.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.ImageURL == nil {
		opts.ImageURL = domain.StringValue
	}

	input := textinput.New()
	input.Placeholder = "Search for a movie..."
	input.Prompt = "🔍 "
	input.CharLimit = 200
	input.Focus()

	filter := textinput.New()
	filter.Placeholder = "filter favorites"
	filter.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	observer := NewChannelObserver(8)

	m := Model{
		Screen:      ScreenSearch,
		search:      opts.Search,
		detail:      opts.Detail,
		favorites:   opts.Favorites,
		theme:       opts.Theme,
		imageURL:    opts.ImageURL,
		pageURL:     opts.PageURL,
		openURL:     opts.OpenURL,
		timeout:     opts.Timeout,
		logger:      opts.Logger,
		observer:    observer,
		unsubscribe: opts.Favorites.Subscribe(observer.OnChange),
		Keys:        DefaultKeyMap(),
		Help:        help.New(),
		Input:       input,
		Filter:      filter,
		Spinner:     sp,
		Viewport:    viewport.New(80, 20),
	}

	m.applyTheme()
	m.refreshFavorites()
	return m
}

// Close detaches the model from the favorites store
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		ListenFavoritesCmd(m.observer.C()),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SearchResultsMsg:
		if !m.search.Apply(msg.Outcome) {
			return m, nil
		}
		m.Searching = false
		m.Results = m.search.Results()
		m.SearchErr = m.search.Err()
		m.Cursor = 0
		m.Offset = 0
		return m, nil

	case DetailLoadedMsg:
		if m.detail.Apply(msg.Outcome) {
			m.refreshDetail()
			m.Viewport.GotoTop()
		}
		return m, nil

	case FavoritesChangedMsg:
		m.Favs = msg.Favorites
		m.applyFilter()
		if m.Screen == ScreenDetail {
			m.refreshDetail()
		}
		return m, ListenFavoritesCmd(m.observer.C())

	case StatusMsg:
		return m, m.setStatus(msg.Text, false)

	case ErrMsg:
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case ClearStatusMsg:
		if msg.ID == m.statusID {
			m.Status = ""
			m.StatusIsErr = false
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.Screen == ScreenSearch && m.Input.Focused() {
		m.Input, cmd = m.Input.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.Keys.Quit) {
		return m, tea.Quit
	}

	switch m.Screen {
	case ScreenSearch:
		if m.Input.Focused() {
			return m.handleSearchInput(msg)
		}
		return m.handleSearchList(msg)
	case ScreenFavorites:
		if m.Filtering {
			return m.handleFilterInput(msg)
		}
		return m.handleFavorites(msg)
	case ScreenDetail:
		return m.handleDetail(msg)
	}
	return m, nil
}

// handleGlobal handles keys shared by every screen outside text entry
func (m *Model) handleGlobal(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.Keys.ToggleTheme):
		return m.toggleTheme(), true
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		m.updateLayout()
		return nil, true
	case key.Matches(msg, m.Keys.NextTab):
		if m.Screen == ScreenFavorites {
			m.Screen = ScreenSearch
		} else {
			m.Screen = ScreenFavorites
		}
		return nil, true
	}
	return nil, false
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.NextTab):
		m.Input.Blur()
		m.Screen = ScreenFavorites
		return m, nil
	case msg.Type == tea.KeyEsc, msg.Type == tea.KeyEnter, msg.Type == tea.KeyDown:
		if len(m.Results) > 0 {
			m.Input.Blur()
		}
		return m, nil
	}

	before := m.Input.Value()
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	if m.Input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.submitQuery(m.Input.Value()))
}

// submitQuery starts a search for query; earlier in-flight searches
// become stale
func (m *Model) submitQuery(query string) tea.Cmd {
	req, ok := m.search.Submit(query)
	m.SearchErr = nil
	m.Cursor = 0
	m.Offset = 0
	if !ok {
		m.Searching = false
		m.Results = nil
		return nil
	}
	m.Searching = true
	return tea.Batch(SearchCmd(m.search, req, m.timeout), m.Spinner.Tick)
}

func (m Model) handleSearchList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleGlobal(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		} else {
			m.Input.Focus()
		}
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.Results)-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.Keys.PageUp):
		m.Cursor = max(0, m.Cursor-m.listHeight())
	case key.Matches(msg, m.Keys.PageDown):
		m.Cursor = min(len(m.Results)-1, m.Cursor+m.listHeight())
	case key.Matches(msg, m.Keys.Enter):
		if movie, ok := m.selectedResult(); ok {
			return m, m.openDetail(movie.ID)
		}
	case key.Matches(msg, m.Keys.ToggleFavorite):
		if movie, ok := m.selectedResult(); ok {
			return m, m.toggleFavorite(domain.FavoriteFromMovie(movie))
		}
	case key.Matches(msg, m.Keys.Focus), key.Matches(msg, m.Keys.Back):
		m.Input.Focus()
		return m, textinput.Blink
	}
	m.Offset = scrollOffset(m.Cursor, m.Offset, m.listHeight())
	return m, nil
}

func (m Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Filtering = false
		m.Filter.Blur()
		m.Filter.SetValue("")
		m.applyFilter()
		return m, nil
	case tea.KeyEnter:
		m.Filtering = false
		m.Filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.Filter, cmd = m.Filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handleFavorites(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.handleGlobal(msg); ok {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.FavCursor > 0 {
			m.FavCursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.FavCursor < len(m.Matches)-1 {
			m.FavCursor++
		}
	case key.Matches(msg, m.Keys.PageUp):
		m.FavCursor = max(0, m.FavCursor-m.listHeight())
	case key.Matches(msg, m.Keys.PageDown):
		m.FavCursor = max(0, min(len(m.Matches)-1, m.FavCursor+m.listHeight()))
	case key.Matches(msg, m.Keys.Filter):
		m.Filtering = true
		m.Filter.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.Keys.Enter):
		if fav, ok := m.selectedFavorite(); ok {
			return m, m.openDetail(fav.GetID())
		}
	case key.Matches(msg, m.Keys.Remove):
		if fav, ok := m.selectedFavorite(); ok {
			return m, m.removeFavorite(fav)
		}
	case key.Matches(msg, m.Keys.Back):
		if m.Filter.Value() != "" {
			m.Filter.SetValue("")
			m.applyFilter()
		} else {
			m.Screen = ScreenSearch
		}
	}
	m.FavOffset = scrollOffset(m.FavCursor, m.FavOffset, m.listHeight())
	return m, nil
}

func (m Model) handleDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		m.detail.Close()
		m.Screen = m.Prev
		return m, nil
	case key.Matches(msg, m.Keys.ToggleFavorite):
		isFav, err := m.detail.ToggleFavorite()
		if errors.Is(err, service.ErrDetailNotLoaded) {
			return m, m.setStatus("Still loading, try again in a moment", false)
		}
		if err != nil {
			return m, m.setStatus("favorites: "+err.Error(), true)
		}
		m.refreshFavorites()
		m.refreshDetail()
		if isFav {
			return m, m.setStatus("Added to favorites", false)
		}
		return m, m.setStatus("Removed from favorites", false)
	case key.Matches(msg, m.Keys.ToggleTheme):
		cmd := m.toggleTheme()
		m.refreshDetail()
		return m, cmd
	case key.Matches(msg, m.Keys.OpenWeb):
		if m.openURL == nil || m.pageURL == nil || m.detail.ID() == 0 {
			return m, nil
		}
		return m, OpenURLCmd(m.openURL, m.pageURL(m.detail.ID()))
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		m.updateLayout()
		return m, nil
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// openDetail navigates to the detail view for id
func (m *Model) openDetail(id int) tea.Cmd {
	req := m.detail.Open(id)
	if m.Screen != ScreenDetail {
		m.Prev = m.Screen
	}
	m.Screen = ScreenDetail
	m.refreshDetail()
	return tea.Batch(LoadDetailCmd(m.detail, req, m.timeout), m.Spinner.Tick)
}

func (m *Model) toggleFavorite(fav domain.Favorite) tea.Cmd {
	added, err := m.favorites.Toggle(fav)
	if err != nil {
		return m.setStatus("favorites: "+err.Error(), true)
	}
	m.refreshFavorites()
	if added {
		return m.setStatus(fmt.Sprintf("Added %q to favorites", fav.GetTitle()), false)
	}
	return m.setStatus(fmt.Sprintf("Removed %q from favorites", fav.GetTitle()), false)
}

func (m *Model) removeFavorite(fav domain.Favorite) tea.Cmd {
	if _, err := m.favorites.Remove(fav.GetID()); err != nil {
		return m.setStatus("favorites: "+err.Error(), true)
	}
	m.refreshFavorites()
	return m.setStatus(fmt.Sprintf("Removed %q from favorites", fav.GetTitle()), false)
}

func (m *Model) toggleTheme() tea.Cmd {
	next, err := m.theme.Toggle()
	m.applyTheme()
	if err != nil {
		return m.setStatus("theme: "+err.Error(), true)
	}
	return m.setStatus("Theme: "+string(next), false)
}

// applyTheme rebuilds styles for the resolved theme
func (m *Model) applyTheme() {
	styles.UseDark(m.theme.Resolve() == theme.Dark)
	m.Input.PromptStyle = styles.AccentStyle
	m.Input.TextStyle = styles.TitleStyle
	m.Input.PlaceholderStyle = styles.DimStyle
	m.Filter.PromptStyle = styles.AccentStyle
	m.Filter.TextStyle = styles.TitleStyle
	m.Spinner.Style = styles.SpinnerStyle
	m.Help.Styles.ShortKey = styles.HelpKeyStyle
	m.Help.Styles.ShortDesc = styles.HelpDescStyle
	m.Help.Styles.FullKey = styles.HelpKeyStyle
	m.Help.Styles.FullDesc = styles.HelpDescStyle
}

// refreshFavorites re-reads the store synchronously; the observer delivers
// the same snapshot later
func (m *Model) refreshFavorites() {
	favs, err := m.favorites.Favorites()
	if err != nil {
		m.logger.Error("failed to read favorites", "error", err)
		return
	}
	m.Favs = favs
	m.applyFilter()
}

// applyFilter narrows Favs to the titles fuzzily matching the filter
func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.Filter.Value())

	if query == "" {
		m.Matches = make([]favMatch, len(m.Favs))
		for i, f := range m.Favs {
			m.Matches[i] = favMatch{Fav: f}
		}
	} else {
		matches := fuzzy.FindFrom(query, favoriteTitles(m.Favs))
		m.Matches = make([]favMatch, len(matches))
		for i, match := range matches {
			m.Matches[i] = favMatch{Fav: m.Favs[match.Index], Matched: match.MatchedIndexes}
		}
	}

	if m.FavCursor >= len(m.Matches) {
		m.FavCursor = max(0, len(m.Matches)-1)
	}
	m.FavOffset = scrollOffset(m.FavCursor, m.FavOffset, m.listHeight())
}

// favoriteTitles implements sahilm/fuzzy.Source over titles. Matching is
// case-insensitive, so MatchedIndexes are byte offsets into the title as
// displayed.
type favoriteTitles []domain.Favorite

func (f favoriteTitles) String(i int) string { return f[i].GetTitle() }
func (f favoriteTitles) Len() int            { return len(f) }

func (m *Model) isFavorite(id int) bool {
	for _, f := range m.Favs {
		if f.GetID() == id {
			return true
		}
	}
	return false
}

func (m *Model) selectedResult() (domain.MovieSummary, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Results) {
		return domain.MovieSummary{}, false
	}
	return m.Results[m.Cursor], true
}

func (m *Model) selectedFavorite() (domain.Favorite, bool) {
	if m.FavCursor < 0 || m.FavCursor >= len(m.Matches) {
		return domain.Favorite{}, false
	}
	return m.Matches[m.FavCursor].Fav, true
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusID++
	m.Status = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusID, statusTTL)
}

func (m *Model) loading() bool {
	return m.Searching || (m.Screen == ScreenDetail && m.detail.State() == service.DetailLoading)
}

// scrollOffset keeps cursor inside a window of height rows starting at offset
func scrollOffset(cursor, offset, height int) int {
	if height <= 0 {
		return 0
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}
