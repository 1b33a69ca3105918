package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances one second per call
func stepClock() func() time.Time {
	t := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func openStores(t *testing.T, limit int) map[string]*HistoryStore {
	t.Helper()
	disk, err := NewHistoryStore(t.TempDir(), limit)
	require.NoError(t, err)
	t.Cleanup(func() { disk.Close() })

	mem, err := NewHistoryStore("", limit)
	require.NoError(t, err)

	disk.now = stepClock()
	mem.now = stepClock()
	return map[string]*HistoryStore{"bolt": disk, "memory": mem}
}

func TestRecordAndRecent(t *testing.T) {
	for name, s := range openStores(t, 0) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Record("https://img.example.com/a.png")
			require.NoError(t, err)
			_, err = s.Record("https://img.example.com/b.png")
			require.NoError(t, err)
			e, err := s.Record("  https://img.example.com/a.png ")
			require.NoError(t, err)
			assert.Equal(t, 2, e.Count)
			assert.True(t, e.LastAt.After(e.FirstAt))

			recent, err := s.Recent(0)
			require.NoError(t, err)
			require.Len(t, recent, 2)
			assert.Equal(t, "https://img.example.com/a.png", recent[0].URL)
			assert.Equal(t, "https://img.example.com/b.png", recent[1].URL)

			one, err := s.Recent(1)
			require.NoError(t, err)
			assert.Len(t, one, 1)
		})
	}
}

func TestConcurrentRecordKeepsEveryCount(t *testing.T) {
	const n = 50
	for name, s := range openStores(t, 0) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.Record("https://img.example.com/same.png")
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			recent, err := s.Recent(0)
			require.NoError(t, err)
			require.Len(t, recent, 1)
			assert.Equal(t, n, recent[0].Count)
		})
	}
}

func TestRecordRejectsBlank(t *testing.T) {
	s, err := NewHistoryStore("", 0)
	require.NoError(t, err)
	_, err = s.Record("   ")
	assert.Error(t, err)
}

func TestPruneKeepsMostRecent(t *testing.T) {
	for name, s := range openStores(t, 3) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				_, err := s.Record(fmt.Sprintf("https://p.test/%d.png", i))
				require.NoError(t, err)
			}
			recent, err := s.Recent(0)
			require.NoError(t, err)
			require.Len(t, recent, 3)
			assert.Equal(t, "https://p.test/4.png", recent[0].URL)
			assert.Equal(t, "https://p.test/2.png", recent[2].URL)
		})
	}
}

func TestForgetAndClear(t *testing.T) {
	for name, s := range openStores(t, 0) {
		t.Run(name, func(t *testing.T) {
			s.Record("https://f.test/a.png")
			s.Record("https://f.test/b.png")

			require.NoError(t, s.Forget("https://f.test/a.png"))
			recent, err := s.Recent(0)
			require.NoError(t, err)
			require.Len(t, recent, 1)
			assert.Equal(t, "https://f.test/b.png", recent[0].URL)

			require.NoError(t, s.Clear())
			recent, err = s.Recent(0)
			require.NoError(t, err)
			assert.Empty(t, recent)
		})
	}
}

func TestHistorySurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewHistoryStore(dir, 0)
	require.NoError(t, err)
	assert.False(t, s.MemoryOnly())
	_, err = s.Record("https://r.test/keep.png")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewHistoryStore(dir, 0)
	require.NoError(t, err)
	defer s.Close()
	recent, err := s.Recent(0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 1, recent[0].Count)
}
