package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Quit) {
		return m.quit()
	}

	if m.State == StateHelp {
		if key.Matches(msg, Keys.Escape, Keys.Help) {
			m.State = StateBoard
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		// First escape clears the input, the second one leaves
		if m.URLBar.Value() == "" {
			return m.quit()
		}
		m.URLBar.Reset()
		return m, m.suggest()

	case key.Matches(msg, Keys.ToggleBackdrop):
		m.BoardView.SetBackdrop(!m.BoardView.Backdrop())
		return m, nil

	case key.Matches(msg, Keys.Forget):
		if entry, ok := m.URLBar.Selected(); ok {
			return m, ForgetHistoryCmd(m.HistorySvc, entry.URL)
		}
		return m, nil
	}

	prev := strings.TrimSpace(m.URLBar.Value())
	bar, cmd, text, submitted := m.URLBar.Update(msg)
	m.URLBar = bar
	if submitted {
		submitCmd := m.submit(text)
		return m, tea.Batch(cmd, submitCmd)
	}
	if strings.TrimSpace(m.URLBar.Value()) != prev {
		return m, tea.Batch(cmd, m.suggest())
	}
	return m, cmd
}
