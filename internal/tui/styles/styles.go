package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is one color scheme
type Palette struct {
	Accent     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Subtle     lipgloss.Color
	Dim        lipgloss.Color
	Heart      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
}

var (
	DarkPalette = Palette{
		Accent:     lipgloss.Color("#F5C518"),
		Background: lipgloss.Color("#111827"),
		Surface:    lipgloss.Color("#374151"),
		Text:       lipgloss.Color("#F9FAFB"),
		Subtle:     lipgloss.Color("#9CA3AF"),
		Dim:        lipgloss.Color("#6B7280"),
		Heart:      lipgloss.Color("#F43F5E"),
		Error:      lipgloss.Color("#EF4444"),
		Success:    lipgloss.Color("#10B981"),
	}

	LightPalette = Palette{
		Accent:     lipgloss.Color("#B45309"),
		Background: lipgloss.Color("#F9FAFB"),
		Surface:    lipgloss.Color("#E5E7EB"),
		Text:       lipgloss.Color("#111827"),
		Subtle:     lipgloss.Color("#4B5563"),
		Dim:        lipgloss.Color("#9CA3AF"),
		Heart:      lipgloss.Color("#E11D48"),
		Error:      lipgloss.Color("#B91C1C"),
		Success:    lipgloss.Color("#047857"),
	}
)

// Current is the palette the styles below were built from
var Current Palette

// Text styles
var (
	TitleStyle     lipgloss.Style
	SubtitleStyle  lipgloss.Style
	DimStyle       lipgloss.Style
	AccentStyle    lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	HeartStyle     lipgloss.Style
	HighlightStyle lipgloss.Style
)

// Layout styles
var (
	HeaderStyle   lipgloss.Style
	TabStyle      lipgloss.Style
	ActiveTab     lipgloss.Style
	PanelStyle    lipgloss.Style
	DetailStyle   lipgloss.Style
	StatusStyle   lipgloss.Style
	SearchBox     lipgloss.Style
	ActiveBorder  lipgloss.Style
	SpinnerStyle  lipgloss.Style
	HelpKeyStyle  lipgloss.Style
	HelpDescStyle lipgloss.Style
)

// List item styles
var (
	SelectedItemStyle lipgloss.Style
	NormalItemStyle   lipgloss.Style
	MatchStyle        lipgloss.Style
)

// Badge styles
var (
	BadgeStyle    lipgloss.Style
	DimBadgeStyle lipgloss.Style
)

const (
	HeartFull  = "♥"
	HeartEmpty = "♡"
	Star       = "★"
)

func init() {
	Use(LightPalette)
}

// Use rebuilds every style from p
func Use(p Palette) {
	Current = p

	TitleStyle = lipgloss.NewStyle().Foreground(p.Text).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(p.Subtle)
	DimStyle = lipgloss.NewStyle().Foreground(p.Dim)
	AccentStyle = lipgloss.NewStyle().Foreground(p.Accent)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	HeartStyle = lipgloss.NewStyle().Foreground(p.Heart)
	HighlightStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Accent).
		Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true).
		Padding(0, 1)
	TabStyle = lipgloss.NewStyle().
		Foreground(p.Subtle).
		Padding(0, 1)
	ActiveTab = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Accent).
		Bold(true).
		Padding(0, 1)
	PanelStyle = lipgloss.NewStyle().
		Padding(0, 1)
	DetailStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Dim).
		Padding(1, 2)
	StatusStyle = lipgloss.NewStyle().
		Foreground(p.Subtle).
		Padding(0, 1)
	SearchBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Dim).
		Padding(0, 1)
	ActiveBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(0, 1)
	SpinnerStyle = lipgloss.NewStyle().Foreground(p.Accent)
	HelpKeyStyle = lipgloss.NewStyle().Foreground(p.Accent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(p.Dim)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Surface).
		Padding(0, 1)
	NormalItemStyle = lipgloss.NewStyle().
		Foreground(p.Subtle).
		Padding(0, 1)
	MatchStyle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	BadgeStyle = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Accent).
		Padding(0, 1)
	DimBadgeStyle = lipgloss.NewStyle().
		Foreground(p.Subtle).
		Background(p.Surface).
		Padding(0, 1)
}

// UseDark switches between the dark and light palettes
func UseDark(dark bool) {
	if dark {
		Use(DarkPalette)
		return
	}
	Use(LightPalette)
}

// Helper functions

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// Pad pads a string to the given width
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// HighlightMatches renders s with the bytes at the given indexes (as
// reported by sahilm/fuzzy) in MatchStyle and the rest in base. base must
// not carry padding.
func HighlightMatches(s string, matched []int, base lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(s)
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(MatchStyle.Inherit(base).Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}
