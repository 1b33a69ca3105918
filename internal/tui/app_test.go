package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/mmcdole/mosaic/internal/adapter"
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/grid"
	"github.com/mmcdole/mosaic/internal/service"
	"github.com/mmcdole/mosaic/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepScheduler collects callbacks so tests decide when a flight lands
type stepScheduler struct {
	pending []func()
}

type stepTimer struct {
	s   *stepScheduler
	idx int
}

func (t stepTimer) Stop() bool {
	if t.s.pending[t.idx] == nil {
		return false
	}
	t.s.pending[t.idx] = nil
	return true
}

func (s *stepScheduler) AfterFunc(_ time.Duration, f func()) grid.Timer {
	s.pending = append(s.pending, f)
	return stepTimer{s: s, idx: len(s.pending) - 1}
}

// next returns the oldest callback that is still armed
func (s *stepScheduler) next() func() {
	for i, f := range s.pending {
		if f != nil {
			s.pending[i] = nil
			return f
		}
	}
	return nil
}

func newTestModel(t *testing.T, svc *service.HistoryService) (Model, *stepScheduler) {
	t.Helper()
	sched := &stepScheduler{}
	board := grid.NewController(sched, grid.Options{
		InitialTotal: 4,
		Delay:        time.Second,
		Rand:         grid.NewRand(7),
	})
	m := NewModel(board, svc, adapter.UIConfig{
		FrameInterval: 10 * time.Millisecond,
		ShowBackdrop:  true,
		Suggestions:   5,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model), sched
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeURL(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestSubmitStartsFlightAndDeferredCommits(t *testing.T) {
	m, sched := newTestModel(t, nil)

	m = typeURL(t, m, "https://pics.test/cat.png")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.Equal(t, grid.StatePlacing, m.Board.State())
	assert.Equal(t, "Placing cat.png", m.StatusMsg)
	assert.Empty(t, m.URLBar.Value())
	assert.True(t, m.animating)

	f := sched.next()
	require.NotNil(t, f)
	m, _ = update(t, m, DeferredMsg{Run: f})
	assert.Equal(t, grid.StateIdle, m.Board.State())
	assert.Equal(t, 1, m.Board.Filled())

	m, cmd = update(t, m, FrameMsg{Time: time.Now()})
	assert.Nil(t, cmd)
	assert.False(t, m.animating)
}

func TestSubmitWhilePlacingQueues(t *testing.T) {
	m, sched := newTestModel(t, nil)

	m = typeURL(t, m, "https://pics.test/a.png")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = typeURL(t, m, "https://pics.test/b.png")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "Queued, 1 waiting", m.StatusMsg)
	assert.Equal(t, 1, m.Board.Queued())

	m, cmd := update(t, m, DeferredMsg{Run: sched.next()})
	assert.Equal(t, 1, m.Board.Filled())
	assert.Equal(t, grid.StatePlacing, m.Board.State(), "queued image starts its own flight")
	assert.Nil(t, cmd, "animation is already running")

	m, _ = update(t, m, DeferredMsg{Run: sched.next()})
	assert.Equal(t, 2, m.Board.Filled())
	assert.True(t, m.Board.Idle())
}

func TestBlankSubmitIgnored(t *testing.T) {
	m, sched := newTestModel(t, nil)
	m = typeURL(t, m, "   ")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, grid.StateIdle, m.Board.State())
	assert.Empty(t, m.StatusMsg)
	assert.Nil(t, sched.next())
}

func TestEscapeClearsThenQuits(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = typeURL(t, m, "abc")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.URLBar.Value())
	assert.False(t, m.Board.Closed())
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Board.Closed())
}

func TestCtrlCClosesBoardMidFlight(t *testing.T) {
	m, sched := newTestModel(t, nil)
	m = typeURL(t, m, "https://pics.test/a.png")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, grid.StatePlacing, m.Board.State())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Board.Closed())
	assert.Nil(t, sched.next(), "pending completion was cancelled")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.Equal(t, StateHelp, m.State)
	assert.Contains(t, xansi.Strip(m.View()), "toggle backdrop")

	// Typing is swallowed while help is open
	m = typeURL(t, m, "x")
	assert.Empty(t, m.URLBar.Value())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateBoard, m.State)
	assert.False(t, m.Board.Closed())
}

func TestToggleBackdrop(t *testing.T) {
	m, _ := newTestModel(t, nil)
	require.True(t, m.BoardView.Backdrop())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.False(t, m.BoardView.Backdrop())
}

func TestViewLayout(t *testing.T) {
	m, _ := newTestModel(t, nil)
	view := m.View()
	assert.Equal(t, 24, lipgloss.Height(view))

	plain := xansi.Strip(view)
	assert.Contains(t, plain, "mosaic")
	assert.Contains(t, plain, "2×2 · 0/4 filled")
}

func TestViewNotReady(t *testing.T) {
	board := grid.NewController(&stepScheduler{}, grid.Options{})
	m := NewModel(board, nil, adapter.UIConfig{})
	assert.Equal(t, "Loading...", m.View())
}

func TestStatusMessages(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, cmd := update(t, m, ErrMsg{Err: domain.ErrHistoryUnavailable, Context: "recording history"})
	assert.True(t, m.StatusIsErr)
	assert.Equal(t, "recording history: url history is unavailable", m.StatusMsg)
	assert.NotNil(t, cmd)

	m, _ = update(t, m, ClearStatusMsg{})
	assert.Empty(t, m.StatusMsg)
	assert.False(t, m.StatusIsErr)

	m, _ = update(t, m, StatusMsg{Message: "hello"})
	assert.Equal(t, "hello", m.StatusMsg)
}

func newHistory(t *testing.T) *service.HistoryService {
	t.Helper()
	s, err := store.NewHistoryStore("", 10)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return service.NewHistoryService(s, nil)
}

func TestSuggestionsForStaleQueryDropped(t *testing.T) {
	m, _ := newTestModel(t, nil)
	entries := []domain.HistoryEntry{{URL: "https://pics.test/a.png", Count: 1}}

	m, _ = update(t, m, SuggestionsMsg{Query: "zzz", Entries: entries})
	assert.Empty(t, m.URLBar.Suggestions())

	m, _ = update(t, m, SuggestionsMsg{Query: "", Entries: entries})
	assert.Len(t, m.URLBar.Suggestions(), 1)
}

func TestHistoryCommands(t *testing.T) {
	svc := newHistory(t)

	msg := RecordHistoryCmd(svc, "https://pics.test/a.png")()
	recorded, ok := msg.(HistoryRecordedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, 1, recorded.Entry.Count)

	msg = SuggestCmd(svc, "pics", 5)()
	suggestions, ok := msg.(SuggestionsMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, "pics", suggestions.Query)
	require.Len(t, suggestions.Entries, 1)

	msg = ForgetHistoryCmd(svc, "https://pics.test/a.png")()
	assert.Equal(t, HistoryForgottenMsg{URL: "https://pics.test/a.png"}, msg)

	msg = SuggestCmd(svc, "", 5)()
	assert.Empty(t, msg.(SuggestionsMsg).Entries)
}

func TestHistoryCommandsDisabled(t *testing.T) {
	assert.Nil(t, SuggestCmd(nil, "x", 5))
	assert.Nil(t, RecordHistoryCmd(nil, "x"))
	assert.Nil(t, ForgetHistoryCmd(nil, "x"))

	svc := newHistory(t)
	assert.Nil(t, SuggestCmd(svc, "x", 0))
}

func TestForgetSelectedSuggestion(t *testing.T) {
	svc := newHistory(t)
	_, err := svc.Record("https://pics.test/a.png")
	require.NoError(t, err)

	m, _ := newTestModel(t, svc)
	m, _ = update(t, m, SuggestCmd(svc, "", 5)())
	require.Len(t, m.URLBar.Suggestions(), 1)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.NotNil(t, cmd)
	forgotten := cmd()
	assert.Equal(t, HistoryForgottenMsg{URL: "https://pics.test/a.png"}, forgotten)

	m, _ = update(t, m, forgotten)
	assert.Equal(t, "Forgot https://pics.test/a.png", m.StatusMsg)
}

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func TestProgramSchedulerDeliversDeferred(t *testing.T) {
	sched := NewProgramScheduler()
	sent := make(chanSender, 1)
	sched.Attach(sent)

	ran := false
	sched.AfterFunc(time.Millisecond, func() { ran = true })

	select {
	case msg := <-sent:
		d, ok := msg.(DeferredMsg)
		require.True(t, ok)
		d.Run()
		assert.True(t, ran)
	case <-time.After(2 * time.Second):
		t.Fatal("deferred message never sent")
	}
}

func TestProgramSchedulerStop(t *testing.T) {
	sched := NewProgramScheduler()
	sent := make(chanSender, 1)
	sched.Attach(sent)

	timer := sched.AfterFunc(50*time.Millisecond, func() {})
	assert.True(t, timer.Stop())

	select {
	case <-sent:
		t.Fatal("stopped timer delivered a message")
	case <-time.After(100 * time.Millisecond):
	}
}
