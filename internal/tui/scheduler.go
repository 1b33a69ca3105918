package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/mosaic/internal/grid"
)

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramScheduler implements grid.Scheduler for the bubbletea program.
// Timers fire on their own goroutine and hand the callback back to Update
// as a DeferredMsg, so the board is only ever touched from the update loop.
type ProgramScheduler struct {
	mu     sync.RWMutex
	sender Sender
}

var _ grid.Scheduler = (*ProgramScheduler)(nil)

// NewProgramScheduler creates a scheduler with no program attached yet
func NewProgramScheduler() *ProgramScheduler {
	return &ProgramScheduler{}
}

// Attach sets the program that receives fired callbacks. Timers that fire
// before a program is attached are dropped.
func (s *ProgramScheduler) Attach(sender Sender) {
	s.mu.Lock()
	s.sender = sender
	s.mu.Unlock()
}

// AfterFunc implements grid.Scheduler
func (s *ProgramScheduler) AfterFunc(d time.Duration, f func()) grid.Timer {
	return time.AfterFunc(max(d, 0), func() {
		s.mu.RLock()
		sender := s.sender
		s.mu.RUnlock()
		if sender != nil {
			sender.Send(DeferredMsg{Run: f})
		}
	})
}
