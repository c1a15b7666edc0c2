package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/tui/styles"
	"github.com/mmcdole/marquee/internal/view"
)

const (
	defaultWidth = 100
	cardHeight   = 7 // border + 5 content lines
	maxGridRows  = 3
)

// View renders the entire UI
func (m Model) View() string {
	page := m.Page()
	width := m.Width
	if width <= 0 {
		width = defaultWidth
	}

	var sections []string
	sections = append(sections, styles.TitleStyle.Render("marquee"))

	if page.Visible(view.ElementErrorBanner) {
		for _, b := range page.Banners {
			sections = append(sections, styles.ErrorBannerStyle.Render(b.Message))
		}
	}

	if page.Visible(view.ElementSearchInput) {
		sections = append(sections, m.Search.View())
	}

	if page.Visible(view.ElementMoviesGrid) {
		sections = append(sections, m.renderGrid(page.MoviesGrid, m.MoviesCursor, width))
	} else {
		sections = append(sections, m.renderCatalogMessage(page))
	}

	if page.Visible(view.ElementLoadingSpinner) {
		sections = append(sections, m.Spinner.View()+" "+styles.DimStyle.Render("Fetching recommendations..."))
	}

	if page.Visible(view.ElementRecommendationsSection) {
		sections = append(sections, m.renderRecommendations(page, width))
	}

	if len(page.RecentlyViewed) > 0 {
		sections = append(sections, renderRecent(page.RecentlyViewed, width))
	}

	sections = append(sections, renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderCatalogMessage(page view.Page) string {
	msg := styles.DimStyle.Render(page.CatalogMessage)
	if len(page.Suggestions) == 0 {
		return msg
	}
	quoted := make([]string, len(page.Suggestions))
	for i, s := range page.Suggestions {
		quoted[i] = styles.AccentStyle.Render(s)
	}
	return msg + "\n" + styles.DimStyle.Render("Did you mean: ") + strings.Join(quoted, styles.DimStyle.Render(", "))
}

func (m Model) renderRecommendations(page view.Page, width int) string {
	sec := page.Recommendations
	var lines []string
	if page.Visible(view.ElementSelectedMovie) {
		lines = append(lines,
			styles.SectionTitleStyle.Render(sec.SelectedMovie.Heading),
			styles.SubtitleStyle.Render(sec.SelectedMovie.Lead),
		)
	}
	if page.Visible(view.ElementRecommendationsGrid) {
		lines = append(lines, m.renderGrid(sec.Grid, m.RecommendCursor, width))
	} else {
		lines = append(lines, styles.DimStyle.Render(sec.EmptyMessage))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderGrid lays cards out in rows, showing a window of rows around cursor
func (m Model) renderGrid(grid view.Grid, cursor, width int) string {
	if grid.Len() == 0 {
		return ""
	}

	cols := max(m.opts.GridColumns, 1)
	cardWidth := max(width/cols-2, 16)

	rows := (grid.Len() + cols - 1) / cols
	visibleRows := maxGridRows
	if m.Height > 0 {
		visibleRows = max(min(visibleRows, (m.Height-12)/cardHeight), 1)
	}
	start := 0
	if cursorRow := cursor / cols; cursorRow >= visibleRows {
		start = cursorRow - visibleRows + 1
	}
	end := min(start+visibleRows, rows)

	var out []string
	for r := start; r < end; r++ {
		var row []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= grid.Len() {
				break
			}
			row = append(row, renderCard(grid.Cards[i], cardWidth))
		}
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	if rows > visibleRows {
		out = append(out, styles.DimStyle.Render(fmt.Sprintf("%d/%d", min(cursor+1, grid.Len()), grid.Len())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func renderCard(card view.Card, width int) string {
	inner := width - 4 // border + padding

	style := styles.CardStyle
	switch {
	case card.Focused:
		style = styles.CardFocusedStyle
	case card.Selected:
		style = styles.CardSelectedStyle
	}

	meta := styles.GenreStyle.Render(styles.Truncate(card.Genre, inner/2))
	if card.Year != "" {
		meta += " " + styles.YearStyle.Render(card.Year)
	}

	director := ""
	if card.Director != "" {
		director = "Directed by " + card.Director
	}

	content := strings.Join([]string{
		styles.AccentStyle.Render(styles.Truncate(card.Title, inner)),
		meta,
		styles.DimStyle.Render(styles.Truncate(director, inner)),
		styles.Truncate(card.Description, inner),
		"",
	}, "\n")

	return style.Width(width - 2).Render(content)
}

func renderRecent(titles []string, width int) string {
	const label = "Recently viewed: "
	line := styles.Truncate(strings.Join(titles, " · "), width-len(label))
	return styles.DimStyle.Render(label) + line
}

func renderHelp() string {
	var parts []string
	for _, b := range Keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
