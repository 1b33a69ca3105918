package tui

// Chrome around the board: one header line and one footer line
const (
	HeaderHeight = 1
	FooterHeight = 1
)

// boardHeight is what remains for the board once the chrome is laid out
func (m Model) boardHeight() int {
	return max(m.Height-HeaderHeight-m.URLBar.Height()-FooterHeight, 0)
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	m.URLBar.SetWidth(m.Width)
	m.BoardView.SetSize(m.Width, m.boardHeight())
	m.Help.Width = m.Width
}
