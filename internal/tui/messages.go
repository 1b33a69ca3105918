package tui

import (
	"time"

	"github.com/mmcdole/mosaic/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StatusMsg shows a message on the status line
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}

// FrameMsg advances the flight animation
type FrameMsg struct {
	Time time.Time
}

// DeferredMsg carries a scheduled board callback back onto the update loop
type DeferredMsg struct {
	Run func()
}

// SuggestionsMsg carries ranked history entries for a query
type SuggestionsMsg struct {
	Query   string
	Entries []domain.HistoryEntry
}

// HistoryRecordedMsg signals that a submitted URL was remembered
type HistoryRecordedMsg struct {
	Entry domain.HistoryEntry
}

// HistoryForgottenMsg signals that a URL was removed from history
type HistoryForgottenMsg struct {
	URL string
}
