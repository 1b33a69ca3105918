package service

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/mosaic/internal/domain"
)

// HistoryService remembers submitted URLs and ranks them as suggestions
// for the URL bar. It never affects the board.
type HistoryService struct {
	store  domain.HistoryStore
	logger *slog.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(store domain.HistoryStore, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryService{
		store:  store,
		logger: logger,
	}
}

// Record remembers a submitted URL. Blank input is ignored.
func (s *HistoryService) Record(url string) (domain.HistoryEntry, error) {
	if strings.TrimSpace(url) == "" {
		return domain.HistoryEntry{}, nil
	}
	entry, err := s.store.Record(url)
	if err != nil {
		s.logger.Warn("failed to record url", "url", url, "error", err)
		return domain.HistoryEntry{}, fmt.Errorf("%w: %w", domain.ErrHistoryUnavailable, err)
	}
	s.logger.Debug("recorded url", "url", entry.URL, "count", entry.Count)
	return entry, nil
}

// Recent returns the most recently used URLs
func (s *HistoryService) Recent(limit int) ([]domain.HistoryEntry, error) {
	entries, err := s.store.Recent(limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrHistoryUnavailable, err)
	}
	return entries, nil
}

// Suggest ranks remembered URLs against a partial query. An empty query
// returns the most recent entries.
func (s *HistoryService) Suggest(query string, limit int) ([]domain.HistoryEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Recent(limit)
	}

	entries, err := s.Recent(0)
	if err != nil {
		return nil, err
	}

	urls := make([]string, len(entries))
	for i, e := range entries {
		urls[i] = e.URL
	}

	matches := fuzzy.RankFindFold(query, urls)

	type ranked struct {
		entry domain.HistoryEntry
		score int
	}
	results := make([]ranked, 0, len(matches))
	for _, m := range matches {
		e := entries[m.OriginalIndex]
		results = append(results, ranked{entry: e, score: matchScore(strings.ToLower(e.URL), strings.ToLower(query))})
	}

	// Lower score first; ties favour frequently then recently used URLs
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score < results[j].score
		}
		if results[i].entry.Count != results[j].entry.Count {
			return results[i].entry.Count > results[j].entry.Count
		}
		return results[i].entry.LastAt.After(results[j].entry.LastAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	out := make([]domain.HistoryEntry, len(results))
	for i, r := range results {
		out[i] = r.entry
	}
	return out, nil
}

// Forget removes one URL from the history
func (s *HistoryService) Forget(url string) error {
	return s.store.Forget(url)
}

// Clear wipes the history
func (s *HistoryService) Clear() error {
	s.logger.Info("clearing url history")
	return s.store.Clear()
}

// matchScore scores a candidate URL; lower is better
func matchScore(url, query string) int {
	if url == query {
		return 0
	}

	// Skip the scheme so "img" prefers https://img... over .../img.png
	bare := url
	if i := strings.Index(bare, "://"); i >= 0 {
		bare = bare[i+3:]
	}
	if strings.HasPrefix(bare, query) || strings.HasPrefix(url, query) {
		return 10
	}
	if strings.Contains(url, query) {
		return 50
	}
	return 100 + fuzzy.LevenshteinDistance(query, url)
}
