package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/theme"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Layout constants
const (
	HeaderHeight    = 2 // title bar + blank line
	SearchBoxHeight = 3 // bordered input
	StatusHeight    = 1
	MinListHeight   = 3
)

// EmptyResultsText is shown when a search has no matches
const EmptyResultsText = "No movies found."

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var body string
	switch m.Screen {
	case ScreenSearch:
		body = m.renderSearch()
	case ScreenFavorites:
		body = m.renderFavorites()
	case ScreenDetail:
		body = m.renderDetail()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m *Model) helpHeight() int {
	return lipgloss.Height(m.Help.View(m.Keys))
}

// listHeight is the number of rows available to a results or favorites list
func (m *Model) listHeight() int {
	h := m.Height - HeaderHeight - SearchBoxHeight - StatusHeight - m.helpHeight()
	if h < MinListHeight {
		return MinListHeight
	}
	return h
}

// updateLayout resizes components after a window or help change
func (m *Model) updateLayout() {
	m.Help.Width = m.Width
	m.Input.Width = max(10, m.Width-8)
	m.Filter.Width = max(10, m.Width-6)

	frameW, frameH := styles.DetailStyle.GetFrameSize()
	m.Viewport.Width = max(20, m.Width-frameW)
	m.Viewport.Height = max(MinListHeight, m.Height-HeaderHeight-StatusHeight-m.helpHeight()-frameH)

	m.Offset = scrollOffset(m.Cursor, m.Offset, m.listHeight())
	m.FavOffset = scrollOffset(m.FavCursor, m.FavOffset, m.listHeight())
	m.refreshDetail()
}

func (m Model) renderHeader() string {
	searchTab, favTab := styles.TabStyle, styles.TabStyle
	switch m.Screen {
	case ScreenSearch:
		searchTab = styles.ActiveTab
	case ScreenFavorites:
		favTab = styles.ActiveTab
	}

	title := styles.HeaderStyle.Render("🎬 Reel")
	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		searchTab.Render("Search"),
		" ",
		favTab.Render(fmt.Sprintf("Favorites (%d)", len(m.Favs))),
	)

	left := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", tabs)
	badge := styles.DimBadgeStyle.Render(themeLabel(m.theme))

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + badge + "\n"
}

func themeLabel(p *theme.Preference) string {
	if p.Current() == theme.System {
		return "system (" + string(p.Resolve()) + ")"
	}
	return string(p.Current())
}

func (m Model) renderFooter() string {
	var status string
	switch {
	case m.Status == "":
		status = ""
	case m.StatusIsErr:
		status = styles.ErrorStyle.Render(m.Status)
	default:
		status = styles.SuccessStyle.Render(m.Status)
	}
	return styles.StatusStyle.Render(status) + "\n" + m.Help.View(m.Keys)
}

func (m Model) renderSearch() string {
	box := styles.SearchBox
	if m.Input.Focused() {
		box = styles.ActiveBorder
	}
	input := box.Width(max(10, m.Width-2)).Render(m.Input.View())

	var list string
	switch {
	case m.Searching && len(m.Results) == 0:
		list = m.Spinner.View() + " " + styles.DimStyle.Render("Searching...")
	case m.SearchErr != nil:
		list = styles.ErrorStyle.Render(searchErrorText(m.SearchErr)) + "\n" + styles.DimStyle.Render(EmptyResultsText)
	case len(m.Results) == 0:
		list = styles.DimStyle.Render(EmptyResultsText)
	default:
		list = m.renderResults()
	}

	return lipgloss.JoinVertical(lipgloss.Left, input, styles.PanelStyle.Render(list))
}

func searchErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return "The movie service took too long to answer."
	case errors.Is(err, domain.ErrUnauthorized):
		return "The movie service rejected the API key. Run `reel config init`."
	default:
		return "Search failed: " + err.Error()
	}
}

func (m Model) renderResults() string {
	height := m.listHeight()
	end := min(len(m.Results), m.Offset+height)

	rows := make([]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		movie := m.Results[i]
		row := formatRow(movie.Title, domain.Year(movie.ReleaseDate), movie.Rating, m.isFavorite(movie.ID), nil, i == m.Cursor && !m.Input.Focused(), m.Width-2)
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderFavorites() string {
	var filter string
	if m.Filtering || m.Filter.Value() != "" {
		filter = m.Filter.View()
	} else {
		filter = styles.DimStyle.Render("/ to filter, d to remove")
	}
	filter = lipgloss.NewStyle().Padding(1, 1, 1, 1).Render(filter)

	var list string
	switch {
	case len(m.Favs) == 0:
		list = styles.DimStyle.Render("No favorites yet. Press f on a movie to save it.")
	case len(m.Matches) == 0:
		list = styles.DimStyle.Render("No favorites match the filter.")
	default:
		height := m.listHeight()
		end := min(len(m.Matches), m.FavOffset+height)
		rows := make([]string, 0, end-m.FavOffset)
		for i := m.FavOffset; i < end; i++ {
			fm := m.Matches[i]
			rows = append(rows, formatRow(fm.Fav.GetTitle(), fm.Fav.GetYear(), fm.Fav.GetRating(), true, fm.Matched, i == m.FavCursor && !m.Filtering, m.Width-2))
		}
		list = strings.Join(rows, "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, filter, styles.PanelStyle.Render(list))
}

// formatRow renders one movie line: heart, title, year and score
func formatRow(title string, year int, rating float64, isFav bool, matched []int, selected bool, width int) string {
	heart := styles.HeartEmpty
	if isFav {
		heart = styles.HeartFull
	}

	yearText := ""
	if year > 0 {
		yearText = strconv.Itoa(year)
	}
	score := fmt.Sprintf("%s %3d%%", styles.Star, domain.ScorePercent(rating))

	titleWidth := max(8, width-4-6-lipgloss.Width(score)-4)
	title = styles.Truncate(title, titleWidth)

	base := lipgloss.NewStyle().Foreground(styles.Current.Subtle)
	rowStyle := styles.NormalItemStyle
	if selected {
		base = lipgloss.NewStyle().Foreground(styles.Current.Text).Background(styles.Current.Surface)
		rowStyle = styles.SelectedItemStyle
	}

	heartStyle := styles.HeartStyle.Inherit(base)
	titleText := styles.HighlightMatches(title, matched, base)

	line := heartStyle.Render(heart) + base.Render(" ") +
		titleText + base.Render(strings.Repeat(" ", max(1, titleWidth-lipgloss.Width(title)+1))) +
		base.Render(styles.Pad(yearText, 6)) + base.Render(score)
	return rowStyle.Render(line)
}

// refreshDetail re-renders the detail viewport content
func (m *Model) refreshDetail() {
	if m.Screen != ScreenDetail || m.detail == nil {
		return
	}
	if m.detail.State() != service.DetailLoaded || m.detail.Movie() == nil {
		return
	}
	m.Viewport.SetContent(RenderDetail(*m.detail.Movie(), m.isFavorite(m.detail.ID()), m.imageURL, m.Viewport.Width))
}

func (m Model) renderDetail() string {
	var content string
	switch m.detail.State() {
	case service.DetailLoading:
		content = m.Spinner.View() + " " + styles.DimStyle.Render("Loading...")
	case service.DetailFailed:
		content = styles.ErrorStyle.Render(detailErrorText(m.detail.Err())) + "\n\n" +
			styles.DimStyle.Render("esc to go back")
	case service.DetailLoaded:
		content = m.Viewport.View()
	default:
		content = ""
	}
	return styles.DetailStyle.Width(max(20, m.Width-2)).Render(content)
}

func detailErrorText(err error) string {
	if err == nil {
		return "Something went wrong."
	}
	if errors.Is(err, domain.ErrNotFound) {
		return "This movie could not be found."
	}
	return "Could not load the movie: " + err.Error()
}

// RenderDetail lays out a movie's full record
func RenderDetail(d domain.MovieDetail, isFav bool, imageURL func(*string) string, width int) string {
	var b strings.Builder

	title := styles.TitleStyle.Render(d.Title)
	if year := domain.Year(d.ReleaseDate); year > 0 {
		title += styles.SubtitleStyle.Render(fmt.Sprintf(" (%d)", year))
	}
	b.WriteString(title + "\n")

	if d.OriginalTitle != "" && d.OriginalTitle != d.Title {
		b.WriteString(styles.DimStyle.Render(d.OriginalTitle) + "\n")
	}

	if d.Tagline != "" {
		b.WriteString(styles.AccentStyle.Italic(true).Render(d.Tagline) + "\n")
	}
	b.WriteString("\n")

	var facts []string
	facts = append(facts, styles.BadgeStyle.Render(fmt.Sprintf("%s %d%%", styles.Star, domain.ScorePercent(d.Rating))))
	if d.Runtime > 0 {
		facts = append(facts, styles.DimBadgeStyle.Render(fmt.Sprintf("%d min", d.Runtime)))
	}
	if d.Status != "" {
		facts = append(facts, styles.DimBadgeStyle.Render(d.Status))
	}
	b.WriteString(strings.Join(facts, " ") + "\n\n")

	if isFav {
		b.WriteString(styles.HeartStyle.Render(styles.HeartFull+" In favorites") + styles.DimStyle.Render("  (f to remove)") + "\n\n")
	} else {
		b.WriteString(styles.DimStyle.Render(styles.HeartEmpty+" Press f to add to favorites") + "\n\n")
	}

	if genres := d.GenreNames(); genres != "" {
		writeField(&b, "Genres", genres)
	}
	if d.ReleaseDate != "" {
		writeField(&b, "Released", d.ReleaseDate)
	}
	if d.OriginalLanguage != "" {
		writeField(&b, "Language", d.OriginalLanguage)
	}
	if d.Budget > 0 {
		writeField(&b, "Budget", formatMoney(d.Budget))
	}
	if d.Revenue > 0 {
		writeField(&b, "Revenue", formatMoney(d.Revenue))
	}
	if len(d.ProductionCompanies) > 0 {
		names := make([]string, len(d.ProductionCompanies))
		for i, c := range d.ProductionCompanies {
			names[i] = c.Name
		}
		writeField(&b, "Studios", strings.Join(names, ", "))
	}
	if len(d.ProductionCountries) > 0 {
		names := make([]string, len(d.ProductionCountries))
		for i, c := range d.ProductionCountries {
			names[i] = c.Name
		}
		writeField(&b, "Countries", strings.Join(names, ", "))
	}
	if d.BelongsToCollection != nil {
		writeField(&b, "Collection", d.BelongsToCollection.Name)
	}
	if d.Homepage != "" {
		writeField(&b, "Homepage", d.Homepage)
	}
	if poster := imageURL(d.PosterImage); poster != "" {
		writeField(&b, "Poster", poster)
	}

	if d.Overview != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(max(20, width)).Render(d.Overview))
		b.WriteString("\n")
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(styles.SubtitleStyle.Render(styles.Pad(label, 11)))
	b.WriteString(value)
	b.WriteString("\n")
}

// formatMoney renders dollars with thousands separators
func formatMoney(n int64) string {
	s := strconv.FormatInt(n, 10)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return "$" + string(out)
}
