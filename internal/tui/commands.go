package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/mosaic/internal/service"
)

// Command factories for async operations

// FrameCmd returns a command that sends a frame after interval
func FrameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// SuggestCmd ranks remembered URLs against query
func SuggestCmd(svc *service.HistoryService, query string, limit int) tea.Cmd {
	if svc == nil || limit <= 0 {
		return nil
	}
	return func() tea.Msg {
		entries, err := svc.Suggest(query, limit)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading suggestions"}
		}
		return SuggestionsMsg{Query: query, Entries: entries}
	}
}

// RecordHistoryCmd remembers a submitted URL
func RecordHistoryCmd(svc *service.HistoryService, url string) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		entry, err := svc.Record(url)
		if err != nil {
			return ErrMsg{Err: err, Context: "recording history"}
		}
		return HistoryRecordedMsg{Entry: entry}
	}
}

// ForgetHistoryCmd removes a URL from history
func ForgetHistoryCmd(svc *service.HistoryService, url string) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		if err := svc.Forget(url); err != nil {
			return ErrMsg{Err: err, Context: "forgetting url"}
		}
		return HistoryForgottenMsg{URL: url}
	}
}
