package recitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/llehouerou/tartil/internal/observe"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/recitation/stt"
	"github.com/llehouerou/tartil/internal/store"
)

// ErrInvalidRange is returned for an empty or out of bounds verse range.
var ErrInvalidRange = errors.New("invalid verse range")

// ErrInvalidPlayer is returned for a blank player name.
var ErrInvalidPlayer = errors.New("player name required")

// ErrSaveAttempt wraps a failure to persist a scored attempt.
var ErrSaveAttempt = errors.New("save attempt")

// Transcriber turns audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio stt.Audio) (stt.Transcript, error)
}

// VerseSource provides the reference text of a chapter.
type VerseSource interface {
	Verses(ctx context.Context, chapter int) ([]quran.Verse, error)
}

// Attempts persists and ranks scored attempts.
type Attempts interface {
	SaveAttempt(ctx context.Context, a store.Attempt) error
	Leaderboard(ctx context.Context, chapter, limit int) ([]store.LeaderboardEntry, error)
}

// Outcome is a scored attempt.
type Outcome struct {
	ID         string    `json:"id"`
	Player     string    `json:"player"`
	Chapter    int       `json:"chapter"`
	From       int       `json:"from"`
	To         int       `json:"to"`
	Provider   string    `json:"provider"`
	Transcript string    `json:"transcript"`
	Expected   string    `json:"expected"`
	Score      Result    `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// Judge transcribes attempts, scores them and records the result.
type Judge struct {
	stt      Transcriber
	verses   VerseSource
	attempts Attempts
	metrics  *observe.Metrics
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewJudge creates a judge. m may be nil.
func NewJudge(t Transcriber, v VerseSource, a Attempts, m *observe.Metrics, log *slog.Logger) *Judge {
	if log == nil {
		log = slog.Default()
	}
	return &Judge{
		stt:      t,
		verses:   v,
		attempts: a,
		metrics:  m,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Expected returns the reference text of verses from..to of a chapter.
func (j *Judge) Expected(ctx context.Context, chapter, from, to int) (string, error) {
	if from < 1 || to < from {
		return "", fmt.Errorf("%w: %d-%d", ErrInvalidRange, from, to)
	}
	verses, err := j.verses.Verses(ctx, chapter)
	if err != nil {
		return "", fmt.Errorf("load chapter %d: %w", chapter, err)
	}
	if to > len(verses) {
		return "", fmt.Errorf("%w: chapter %d has %d verses", ErrInvalidRange, chapter, len(verses))
	}
	selected := lo.Filter(verses, func(v quran.Verse, _ int) bool {
		return v.Number >= from && v.Number <= to
	})
	texts := lo.Map(selected, func(v quran.Verse, _ int) string { return v.TextUthmani })
	return strings.Join(texts, " "), nil
}

// Attempt scores one recording of verses from..to by player.
func (j *Judge) Attempt(ctx context.Context, player string, chapter, from, to int, audio stt.Audio) (Outcome, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return Outcome{}, ErrInvalidPlayer
	}
	expected, err := j.Expected(ctx, chapter, from, to)
	if err != nil {
		return Outcome{}, err
	}

	tr, err := j.stt.Transcribe(ctx, audio)
	if err != nil {
		return Outcome{}, err
	}

	score := Score(expected, tr.Text)
	out := Outcome{
		ID:         j.newID(),
		Player:     player,
		Chapter:    chapter,
		From:       from,
		To:         to,
		Provider:   tr.Provider,
		Transcript: tr.Text,
		Expected:   expected,
		Score:      score,
		CreatedAt:  j.now(),
	}

	err = j.attempts.SaveAttempt(ctx, store.Attempt{
		ID:          out.ID,
		Player:      out.Player,
		Chapter:     chapter,
		From:        from,
		To:          to,
		Provider:    out.Provider,
		Transcript:  out.Transcript,
		Accuracy:    score.Accuracy,
		Correct:     score.Correct,
		Substituted: score.Substituted,
		Missed:      score.Missed,
		Extra:       score.Extra,
		CreatedAt:   out.CreatedAt,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrSaveAttempt, err)
	}

	j.metrics.RecordAttempt(ctx, chapter)
	j.log.Info("recitation scored",
		"player", player, "chapter", chapter, "from", from, "to", to,
		"provider", out.Provider, "accuracy", score.Accuracy)
	return out, nil
}

// Leaderboard ranks players by best accuracy. Chapter 0 ranks across all
// chapters.
func (j *Judge) Leaderboard(ctx context.Context, chapter, limit int) ([]store.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return j.attempts.Leaderboard(ctx, chapter, limit)
}
