package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Marquee    = lipgloss.Color("#E5A00D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Marquee)

	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(Marquee).
				Bold(true).
				MarginTop(1)
)

// Banner shown for transient errors
var (
	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Red).
				Padding(0, 1)
)

// Movie card styles
var (
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)

	CardSelectedStyle = CardStyle.
				BorderForeground(Marquee)

	CardFocusedStyle = CardStyle.
				BorderForeground(Blue)

	GenreStyle = lipgloss.NewStyle().
			Foreground(Marquee)

	YearStyle = lipgloss.NewStyle().
			Foreground(LightGray)
)

// Spinner style
var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Marquee)
)

// Search input styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(White)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Marquee).
				Bold(true)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Marquee)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Truncate shortens s to at most width cells, adding an ellipsis when cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
