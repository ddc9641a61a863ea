package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tartil.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func fptr(v float64) *float64 { return &v }

func TestGetPrefs_Empty(t *testing.T) {
	s, _ := openTestStore(t)

	p, err := s.GetPrefs(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSavePrefs_VisibleBeforeFlush(t *testing.T) {
	s, _ := openTestStore(t)

	s.SavePrefs(PlaybackPrefs{Chapter: 2, RepeatFrom: 255, RepeatTo: 257, RepeatCount: 3})

	p, err := s.GetPrefs(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 255, p.RepeatFrom)
}

func TestSavePrefs_FlushedOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tartil.db")
	s, err := Open(path)
	require.NoError(t, err)

	s.SavePrefs(PlaybackPrefs{Chapter: 1, RepeatFrom: 1, RepeatTo: 3, RepeatCount: 2})
	s.SavePrefs(PlaybackPrefs{
		Chapter: 1, RepeatFrom: 2, RepeatTo: 4, RepeatCount: 5,
		UseTimeRange: true, RangeStart: fptr(12.5), RangeEnd: fptr(30),
		LastVerse: 3, Reciter: 7,
	})
	s.SavePrefs(PlaybackPrefs{Chapter: 36, RepeatFrom: 1, RepeatTo: 1, RepeatCount: 1})
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	p, err := s2.GetPrefs(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2, p.RepeatFrom, "last write wins")
	assert.Equal(t, 4, p.RepeatTo)
	assert.Equal(t, 5, p.RepeatCount)
	assert.True(t, p.UseTimeRange)
	require.NotNil(t, p.RangeStart)
	assert.InDelta(t, 12.5, *p.RangeStart, 1e-9)
	assert.Equal(t, 3, p.LastVerse)
	assert.Equal(t, 7, p.Reciter)
	assert.False(t, p.UpdatedAt.IsZero())

	other, err := s2.GetPrefs(context.Background(), 36)
	require.NoError(t, err)
	assert.NotNil(t, other)
}

func TestSavePrefs_Upsert(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, savePrefs(ctx, s.db, PlaybackPrefs{Chapter: 2, RepeatFrom: 1, RepeatTo: 5, RepeatCount: 1}, now))
	require.NoError(t, savePrefs(ctx, s.db, PlaybackPrefs{Chapter: 2, RepeatFrom: 3, RepeatTo: 5, RepeatCount: 1}, now))

	p, err := getPrefs(ctx, s.db, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, p.RepeatFrom)
	assert.Nil(t, p.RangeStart)
	assert.True(t, p.UpdatedAt.Equal(now))
}

func TestPrefs_ConfigRoundTrip(t *testing.T) {
	p := PlaybackPrefs{Chapter: 1, RepeatFrom: 2, RepeatTo: 4, RepeatCount: 3, UseTimeRange: true, RangeStart: fptr(1), RangeEnd: fptr(2)}

	got := PrefsFromConfig(1, 0, p.Config())

	assert.Equal(t, p, got)
}

func TestBookmarks(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	id1, err := s.AddBookmark(ctx, 2, 255, "Ayat al-Kursi")
	require.NoError(t, err)
	_, err = s.AddBookmark(ctx, 1, 1, "")
	require.NoError(t, err)

	again, err := s.AddBookmark(ctx, 2, 255, "throne verse")
	require.NoError(t, err)
	assert.Equal(t, id1, again, "same verse keeps its id")

	list, err := s.ListBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Chapter)
	assert.Empty(t, list[0].Note)
	assert.Equal(t, "throne verse", list[1].Note)

	require.NoError(t, s.DeleteBookmark(ctx, id1))
	err = s.DeleteBookmark(ctx, id1)
	assert.True(t, errors.Is(err, ErrNotFound))

	list, err = s.ListBookmarks(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAttemptsAndLeaderboard(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	attempts := []Attempt{
		{ID: "a1", Player: "amina", Chapter: 1, From: 1, To: 7, Accuracy: 0.80, CreatedAt: base},
		{ID: "a2", Player: "amina", Chapter: 1, From: 1, To: 7, Accuracy: 0.95, CreatedAt: base.Add(time.Minute)},
		{ID: "b1", Player: "bilal", Chapter: 1, From: 1, To: 7, Accuracy: 0.95, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "c1", Player: "chen", Chapter: 1, From: 1, To: 7, Accuracy: 0.50, CreatedAt: base},
		{ID: "c2", Player: "chen", Chapter: 112, From: 1, To: 4, Accuracy: 1.0, CreatedAt: base},
	}
	for _, a := range attempts {
		a.Provider = "assemblyai"
		a.Transcript = "..."
		require.NoError(t, s.SaveAttempt(ctx, a))
	}

	board, err := s.Leaderboard(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "amina", board[0].Player, "earlier best wins the tie")
	assert.Equal(t, 2, board[0].Attempts)
	assert.Equal(t, "bilal", board[1].Player)
	assert.Equal(t, "chen", board[2].Player)
	assert.InDelta(t, 0.5, board[2].Best, 1e-9)

	all, err := s.Leaderboard(ctx, 0, 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "chen", all[0].Player)

	mine, err := s.ListAttempts(ctx, "amina", 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "a2", mine[0].ID, "newest first")
}

func TestPing(t *testing.T) {
	s, _ := openTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestMock_MatchesStoreSemantics(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	id, _ := m.AddBookmark(ctx, 2, 3, "x")
	again, _ := m.AddBookmark(ctx, 2, 3, "y")
	assert.Equal(t, id, again)
	assert.ErrorIs(t, m.DeleteBookmark(ctx, 99), ErrNotFound)

	m.SavePrefs(PlaybackPrefs{Chapter: 5, RepeatFrom: 2})
	p, _ := m.GetPrefs(ctx, 5)
	require.NotNil(t, p)
	assert.Equal(t, 2, p.RepeatFrom)
	assert.Equal(t, 1, m.SaveCalls())
}
