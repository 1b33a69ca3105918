package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// URLBar is the always-focused input that collects image URLs, with a
// short list of remembered URLs underneath
type URLBar struct {
	input       textinput.Model
	suggestions []domain.HistoryEntry
	matches     map[int][]int // suggestion index -> matched byte offsets
	cursor      int           // -1 = no suggestion selected
	maxShown    int
	width       int
}

// NewURLBar creates a new URL bar showing up to maxShown suggestions
func NewURLBar(maxShown int) URLBar {
	ti := textinput.New()
	ti.Placeholder = "Paste an image URL and press enter"
	ti.Prompt = "⊕ "
	ti.CharLimit = 2048
	ti.PromptStyle = styles.PromptStyle
	ti.TextStyle = styles.InputTextStyle
	ti.PlaceholderStyle = styles.PlaceholderStyle
	ti.Focus()

	return URLBar{
		input:    ti,
		cursor:   -1,
		maxShown: maxShown,
	}
}

// SetWidth sets the outer width of the bar
func (b *URLBar) SetWidth(width int) {
	b.width = width
	frameW, _ := styles.InputBorder.GetFrameSize()
	b.input.Width = max(width-frameW-lipgloss.Width(b.input.Prompt)-1, 1)
}

// Value returns the current input text
func (b URLBar) Value() string {
	return b.input.Value()
}

// SetValue replaces the input text
func (b *URLBar) SetValue(s string) {
	b.input.SetValue(s)
	b.input.CursorEnd()
}

// Reset clears the input and the suggestion selection
func (b *URLBar) Reset() {
	b.input.SetValue("")
	b.cursor = -1
}

// SetSuggestions replaces the remembered URLs shown under the input
func (b *URLBar) SetSuggestions(entries []domain.HistoryEntry) {
	if b.maxShown > 0 && len(entries) > b.maxShown {
		entries = entries[:b.maxShown]
	}
	b.suggestions = entries
	b.cursor = -1
	b.computeMatches()
}

// Suggestions returns the suggestions currently shown
func (b URLBar) Suggestions() []domain.HistoryEntry {
	return b.suggestions
}

// Selected returns the highlighted suggestion, if any
func (b URLBar) Selected() (domain.HistoryEntry, bool) {
	if b.cursor < 0 || b.cursor >= len(b.suggestions) {
		return domain.HistoryEntry{}, false
	}
	return b.suggestions[b.cursor], true
}

// computeMatches finds which characters of each suggestion match the query
func (b *URLBar) computeMatches() {
	b.matches = nil
	query := strings.TrimSpace(b.input.Value())
	if query == "" || len(b.suggestions) == 0 {
		return
	}
	// fuzzy folds case itself, so offsets index the URL as displayed
	urls := make([]string, len(b.suggestions))
	for i, s := range b.suggestions {
		urls[i] = s.URL
	}
	b.matches = make(map[int][]int)
	for _, m := range fuzzy.Find(query, urls) {
		b.matches[m.Index] = m.MatchedIndexes
	}
}

// Update handles input events. The returned string is the submitted text
// and the bool reports whether enter was pressed.
func (b URLBar) Update(msg tea.Msg) (URLBar, tea.Cmd, string, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, URLBarKeys.Submit):
			if entry, ok := b.Selected(); ok {
				return b, nil, entry.URL, true
			}
			return b, nil, b.input.Value(), true
		case key.Matches(keyMsg, URLBarKeys.Next):
			if len(b.suggestions) > 0 {
				b.cursor = (b.cursor + 1) % len(b.suggestions)
			}
			return b, nil, "", false
		case key.Matches(keyMsg, URLBarKeys.Prev):
			if len(b.suggestions) > 0 {
				if b.cursor <= 0 {
					b.cursor = len(b.suggestions) - 1
				} else {
					b.cursor--
				}
			}
			return b, nil, "", false
		case key.Matches(keyMsg, URLBarKeys.Accept):
			if entry, ok := b.Selected(); ok {
				b.SetValue(entry.URL)
				b.cursor = -1
			}
			return b, nil, "", false
		}
	}

	prev := b.input.Value()
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	if b.input.Value() != prev {
		b.cursor = -1
		b.computeMatches()
	}
	return b, cmd, "", false
}

// Height returns how many lines View produces
func (b URLBar) Height() int {
	_, frameH := styles.InputBorder.GetFrameSize()
	return 1 + frameH
}

// View renders the bordered input line
func (b URLBar) View() string {
	frameW, _ := styles.InputBorder.GetFrameSize()
	return styles.InputBorder.
		Width(max(b.width-frameW+2, 1)).
		Render(b.input.View())
}

// SuggestionsView renders the suggestion rows, or "" when there are none
func (b URLBar) SuggestionsView(width int) string {
	if len(b.suggestions) == 0 || width < 8 {
		return ""
	}
	rowWidth := width - 2
	lines := make([]string, 0, len(b.suggestions))
	for i, s := range b.suggestions {
		selected := i == b.cursor
		text := styles.Truncate(s.URL, rowWidth-2)
		line := highlightMatches(text, visibleMatches(b.matches[i], s.URL, text), selected)
		style := styles.SuggestionStyle
		if selected {
			style = styles.SuggestionSelectedStyle
		}
		lines = append(lines, style.Width(rowWidth).Render(line))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, true, true).
		BorderForeground(styles.DimGray).
		Render(strings.Join(lines, "\n"))
}

// visibleMatches drops offsets that fall in the part of full cut off when
// it was truncated to shown
func visibleMatches(matched []int, full, shown string) []int {
	if shown == full {
		return matched
	}
	kept := len(strings.TrimSuffix(shown, styles.Ellipsis))
	out := make([]int, 0, len(matched))
	for _, idx := range matched {
		if idx < kept {
			out = append(out, idx)
		}
	}
	return out
}

// highlightMatches renders text with matched byte offsets emphasised
func highlightMatches(text string, matched []int, selected bool) string {
	if len(matched) == 0 {
		return text
	}
	matchSet := make(map[int]bool, len(matched))
	for _, idx := range matched {
		matchSet[idx] = true
	}

	hl := styles.MatchHighlightStyle
	if selected {
		hl = styles.MatchHighlightSelectedStyle
	}

	var out, run strings.Builder
	inMatch := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if inMatch {
			out.WriteString(hl.Render(run.String()))
		} else {
			out.WriteString(run.String())
		}
		run.Reset()
	}
	for i, r := range text {
		if matchSet[i] != inMatch {
			flush()
			inMatch = matchSet[i]
		}
		run.WriteRune(r)
	}
	flush()
	return out.String()
}
