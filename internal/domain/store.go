package domain

// HistoryStore handles the local URL history (BoltDB + memory).
// It never stores board state.
type HistoryStore interface {
	// Record remembers a submitted URL, bumping its count if already known
	Record(url string) (HistoryEntry, error)

	// Recent returns up to limit entries, most recently used first.
	// A limit <= 0 returns everything.
	Recent(limit int) ([]HistoryEntry, error)

	// Forget removes a single URL
	Forget(url string) error

	// Clear wipes the whole history
	Clear() error

	Close() error
}
