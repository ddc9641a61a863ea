package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tartil/internal/errmsg"
	"github.com/llehouerou/tartil/internal/playback"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/segment"
	"github.com/llehouerou/tartil/internal/store"
	"github.com/llehouerou/tartil/internal/translit"
)

// Message category interfaces for type-based routing in Update().

// PlaybackMessage is implemented by messages from the playback session.
type PlaybackMessage interface {
	tea.Msg
	playbackMessage()
}

// LoadingMessage is implemented by messages from chapter loading.
type LoadingMessage interface {
	tea.Msg
	loadingMessage()
}

// TickMsg drives the controller with the player's position.
type TickMsg time.Time

func (TickMsg) playbackMessage() {}

// ModeChangedMsg mirrors playback.ModeChange.
type ModeChangedMsg playback.ModeChange

func (ModeChangedMsg) playbackMessage() {}

// VerseChangedMsg mirrors playback.VerseChange.
type VerseChangedMsg playback.VerseChange

func (VerseChangedMsg) playbackMessage() {}

// LoopedMsg mirrors playback.LoopEvent.
type LoopedMsg playback.LoopEvent

func (LoopedMsg) playbackMessage() {}

// SessionClosedMsg is sent when the controller releases its subscribers.
type SessionClosedMsg struct{}

func (SessionClosedMsg) playbackMessage() {}

// ChapterLoadedMsg carries everything needed to start a chapter, or the
// failing operation.
type ChapterLoadedMsg struct {
	Chapter   int
	Bundle    quran.Bundle
	Translit  []translit.Line
	AudioPath string
	Segments  []segment.Segment
	Prefs     *store.PlaybackPrefs
	Offline   bool // content API unreachable, audio and timings from cache

	Op  errmsg.Op
	Err error
}

func (ChapterLoadedMsg) loadingMessage() {}

// BookmarkAddedMsg reports the result of saving a bookmark.
type BookmarkAddedMsg struct {
	Chapter, Verse int
	Err            error
}
