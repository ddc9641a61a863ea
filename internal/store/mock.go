// internal/store/mock.go
package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// Mock is an in-memory test double for Store.
type Mock struct {
	mu        sync.Mutex
	prefs     map[int]PlaybackPrefs
	bookmarks []Bookmark
	attempts  []Attempt
	nextID    int64
	closed    bool
	saveCalls int
}

// NewMock creates a new mock store for testing.
func NewMock() *Mock {
	return &Mock{prefs: make(map[int]PlaybackPrefs)}
}

func (m *Mock) GetPrefs(_ context.Context, chapter int) (*PlaybackPrefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prefs[chapter]
	if !ok {
		return nil, nil //nolint:nilnil // mirrors Store
	}
	return &p, nil
}

func (m *Mock) SavePrefs(p PlaybackPrefs) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[p.Chapter] = p
	m.saveCalls++
}

func (m *Mock) AddBookmark(_ context.Context, chapter, verse int, note string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookmarks {
		if b.Chapter == chapter && b.Verse == verse {
			m.bookmarks[i].Note = note
			return b.ID, nil
		}
	}
	m.nextID++
	m.bookmarks = append(m.bookmarks, Bookmark{ID: m.nextID, Chapter: chapter, Verse: verse, Note: note})
	return m.nextID, nil
}

func (m *Mock) DeleteBookmark(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookmarks {
		if b.ID == id {
			m.bookmarks = slices.Delete(m.bookmarks, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Mock) ListBookmarks(context.Context) ([]Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.bookmarks)
	slices.SortFunc(out, func(a, b Bookmark) int {
		return cmp.Or(cmp.Compare(a.Chapter, b.Chapter), cmp.Compare(a.Verse, b.Verse))
	})
	return out, nil
}

func (m *Mock) SaveAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *Mock) ListAttempts(_ context.Context, player string, _ int) ([]Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Attempt
	for _, a := range m.attempts {
		if a.Player == player {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Mock) Leaderboard(_ context.Context, chapter, limit int) ([]LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	best := map[string]*LeaderboardEntry{}
	var order []string
	for _, a := range m.attempts {
		if chapter != 0 && a.Chapter != chapter {
			continue
		}
		e, ok := best[a.Player]
		if !ok {
			e = &LeaderboardEntry{Player: a.Player}
			best[a.Player] = e
			order = append(order, a.Player)
		}
		e.Attempts++
		e.Best = max(e.Best, a.Accuracy)
		if a.CreatedAt.After(e.LastAt) {
			e.LastAt = a.CreatedAt
		}
	}
	out := make([]LeaderboardEntry, 0, len(order))
	for _, p := range order {
		out = append(out, *best[p])
	}
	slices.SortStableFunc(out, func(a, b LeaderboardEntry) int { return cmp.Compare(b.Best, a.Best) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Mock) Ping(context.Context) error { return nil }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

// SaveCalls returns how many times SavePrefs was called.
func (m *Mock) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ Interface = (*Mock)(nil)
