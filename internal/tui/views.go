package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/mosaic/internal/tui/components"
	"github.com/mmcdole/mosaic/internal/tui/styles"
)

// progressWidth is the width of the flight progress bar in the header
const progressWidth = 12

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	board := m.renderBoard()
	// Suggestions hang from the URL bar over the top of the board
	if list := m.URLBar.SuggestionsView(m.Width - 2); list != "" && board != "" {
		board = components.Overlay(board, list, 1, 0)
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.URLBar.View(),
		board,
		m.renderFooter(),
	)

	if m.State == StateHelp {
		return components.OverlayCenter(view, m.renderHelp())
	}
	return view
}

// renderBoard pulls the current cells and flight out of the controller
func (m Model) renderBoard() string {
	bv := m.BoardView
	bv.SetCells(m.Board.Geometry(), m.Board.Cells())
	if f, ok := m.Board.Flight(); ok {
		bv.SetFlight(f, f.Progress(m.now()))
	} else {
		bv.ClearFlight()
	}
	return bv.View()
}

// renderHeader shows the title, board size and fill level
func (m Model) renderHeader() string {
	geom := m.Board.Geometry()
	left := styles.TitleStyle.Render("mosaic") + " " +
		styles.DimStyle.Render(fmt.Sprintf("%d×%d · %d/%d filled", geom.Columns, geom.Rows, m.Board.Filled(), geom.Total))

	var right string
	if f, ok := m.Board.Flight(); ok {
		right = styles.RenderProgressBar(f.Progress(m.now()), progressWidth)
		if n := m.Board.Queued(); n > 0 {
			right = styles.AccentStyle.Render(fmt.Sprintf("+%d ", n)) + right
		}
	}
	return spread(left, right, m.Width)
}

// renderFooter shows the status message on the left and key hints on the right
func (m Model) renderFooter() string {
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}
	right := m.Help.ShortHelpView(Keys.ShortHelp())
	if lipgloss.Width(left)+lipgloss.Width(right) >= m.Width {
		right = styles.HelpKeyStyle.Render("F1") + styles.HelpDescStyle.Render(" help")
	}
	return spread(left, right, m.Width)
}

// renderHelp renders the full key reference
func (m Model) renderHelp() string {
	title := styles.TitleStyle.Render("Keys")
	body := m.Help.FullHelpView(Keys.FullHelp())
	hint := styles.DimStyle.Render("esc to close")
	return styles.InputBorder.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))
}

// spread places left and right at the edges of a line of width w, cutting
// left when they do not fit
func spread(left, right string, w int) string {
	lw, rw := lipgloss.Width(left), lipgloss.Width(right)
	if lw+rw+1 > w {
		left = styles.Truncate(left, max(w-rw-1, 0))
		lw = lipgloss.Width(left)
	}
	gap := max(w-lw-rw, 0)
	return left + strings.Repeat(" ", gap) + right
}
