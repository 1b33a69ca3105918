package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/mosaic/internal/adapter"
	"github.com/mmcdole/mosaic/internal/grid"
	"github.com/mmcdole/mosaic/internal/service"
	"github.com/mmcdole/mosaic/internal/tui/components"
	"github.com/mmcdole/mosaic/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBoard ApplicationState = iota
	StateHelp
)

// Status line timings
const (
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Board state lives in the controller; the model only renders it
	Board      *grid.Controller
	HistorySvc *service.HistoryService

	// UI Components
	URLBar    components.URLBar
	BoardView components.Board
	Help      help.Model

	// Dimensions
	Width  int
	Height int

	// Status
	StatusMsg   string
	StatusIsErr bool

	animating     bool
	frameInterval time.Duration
	suggestions   int
	now           func() time.Time
	logger        *slog.Logger
}

// NewModel creates a new application model. historySvc may be nil when
// history is disabled.
func NewModel(board *grid.Controller, historySvc *service.HistoryService, ui adapter.UIConfig) Model {
	frame := ui.FrameInterval
	if frame <= 0 {
		frame = 50 * time.Millisecond
	}

	boardView := components.NewBoard()
	boardView.SetBackdrop(ui.ShowBackdrop)

	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpDescStyle

	return Model{
		State:         StateBoard,
		Board:         board,
		HistorySvc:    historySvc,
		URLBar:        components.NewURLBar(ui.Suggestions),
		BoardView:     boardView,
		Help:          h,
		frameInterval: frame,
		suggestions:   ui.Suggestions,
		now:           time.Now,
		logger:        slog.Default(),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if cmd := SuggestCmd(m.HistorySvc, "", m.suggestions); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if _, flying := m.Board.Flight(); flying {
		cmds = append(cmds, FrameCmd(m.frameInterval))
	}
	return tea.Batch(cmds...)
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
		return m.handleKeyMsg(msg)

	case DeferredMsg:
		if msg.Run != nil {
			msg.Run()
		}
		cmd := m.startAnimation()
		return m, cmd

	case FrameMsg:
		if _, flying := m.Board.Flight(); flying {
			return m, FrameCmd(m.frameInterval)
		}
		m.animating = false
		return m, nil

	case SuggestionsMsg:
		// Drop answers for a query the user has already typed past
		if msg.Query == strings.TrimSpace(m.URLBar.Value()) {
			m.URLBar.SetSuggestions(msg.Entries)
		}
		return m, nil

	case HistoryRecordedMsg:
		return m, m.suggest()

	case HistoryForgottenMsg:
		m.StatusMsg = "Forgot " + msg.URL
		m.StatusIsErr = false
		return m, tea.Batch(m.suggest(), ClearStatusCmd(statusDuration))

	case ErrMsg:
		m.logger.Warn("ui error", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(errorDuration)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(statusDuration)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and anything else the input understands
	var cmd tea.Cmd
	m.URLBar, cmd, _, _ = m.URLBar.Update(msg)
	return m, cmd
}

// submit hands the text to the board and reports what happened
func (m *Model) submit(text string) tea.Cmd {
	url := strings.TrimSpace(text)
	result := m.Board.AddImage(url)
	if result == grid.AddIgnored {
		return nil
	}

	m.URLBar.Reset()
	m.StatusIsErr = false
	switch result {
	case grid.AddFlying:
		if f, ok := m.Board.Flight(); ok {
			m.StatusMsg = fmt.Sprintf("Placing %s", f.Image.Title)
		}
	case grid.AddQueued:
		m.StatusMsg = fmt.Sprintf("Queued, %d waiting", m.Board.Queued())
	case grid.AddPlaced:
		geom := m.Board.Geometry()
		m.StatusMsg = fmt.Sprintf("Board grown to %d×%d", geom.Columns, geom.Rows)
	}

	return tea.Batch(
		m.startAnimation(),
		RecordHistoryCmd(m.HistorySvc, url),
		m.suggest(),
		ClearStatusCmd(statusDuration),
	)
}

// startAnimation begins frame ticks if a flight is under way
func (m *Model) startAnimation() tea.Cmd {
	if m.animating {
		return nil
	}
	if _, flying := m.Board.Flight(); !flying {
		return nil
	}
	m.animating = true
	return FrameCmd(m.frameInterval)
}

// suggest refreshes the suggestion list for the current input
func (m Model) suggest() tea.Cmd {
	return SuggestCmd(m.HistorySvc, strings.TrimSpace(m.URLBar.Value()), m.suggestions)
}

// quit tears the board down before leaving
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Board.Close()
	return m, tea.Quit
}
