// Package app is the terminal player: the root bubbletea model wiring the
// playback controller, the audio player and the verse panel together.
package app

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tartil/internal/keymap"
	"github.com/llehouerou/tartil/internal/playback"
	"github.com/llehouerou/tartil/internal/player"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/search"
	"github.com/llehouerou/tartil/internal/segment"
	"github.com/llehouerou/tartil/internal/store"
	"github.com/llehouerou/tartil/internal/translit"
	"github.com/llehouerou/tartil/internal/ui/helpbindings"
	"github.com/llehouerou/tartil/internal/ui/repeatform"
	"github.com/llehouerou/tartil/internal/ui/verses"
)

// Content loads a chapter with its verses and recitation.
type Content interface {
	ChapterBundle(ctx context.Context, chapter, reciter int) (quran.Bundle, error)
}

// Audio resolves a recitation to a local file.
type Audio interface {
	Fetch(ctx context.Context, rec quran.Recitation) (string, error)
	Cached(reciter, chapter int) (string, []segment.Segment, error)
}

// Transliterator produces the transliteration row of each verse.
type Transliterator interface {
	Chapter(ctx context.Context, chapter int, vs []translit.Verse) []translit.Line
}

// Deps are the services the player runs on.
type Deps struct {
	Content    Content
	Audio      Audio
	Translit   Transliterator
	Store      store.Interface
	Player     player.Interface
	Controller *playback.Controller
	Logger     *slog.Logger

	Reciter     int
	ReciterName string
	Tick        time.Duration // progress tick, 250ms when zero
}

// popupKind is the modal currently shown over the player.
type popupKind int

const (
	popupNone popupKind = iota
	popupHelp
	popupRepeat
	popupSearch
)

// loadTimeout bounds fetching a chapter and its audio.
const loadTimeout = 2 * time.Minute

// Model is the root application model.
type Model struct {
	deps Deps
	log  *slog.Logger
	keys *keymap.Resolver
	sub  *playback.Subscription

	requested int // chapter asked for on the command line
	chapter   quran.Chapter
	index     segment.Index
	items     *search.VerseIndex
	offline   bool
	loading   bool

	panel  *verses.Model
	help   *helpbindings.Model
	form   *repeatform.Model
	search search.Model
	popup  popupKind

	status    string
	statusErr bool

	width, height int
}

// New creates the player for chapter.
func New(d Deps, chapter int) Model {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Tick <= 0 {
		d.Tick = 250 * time.Millisecond
	}
	if d.Translit == nil {
		d.Translit = translit.NewSource(nil, d.Logger)
	}
	panel := verses.New()
	panel.SetFocused(true)
	return Model{
		deps:      d,
		log:       d.Logger,
		keys:      keymap.NewResolver(keymap.Bindings),
		sub:       d.Controller.Subscribe(),
		requested: chapter,
		loading:   true,
		panel:     panel,
		help:      helpbindings.New(),
		form:      repeatform.New(),
		search:    search.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadChapter(m.requested),
		TickCmd(m.deps.Tick),
		m.WatchEvents(),
	)
}

// config returns the controller's repeat configuration.
func (m Model) config() playback.Config {
	return m.deps.Controller.Config()
}

// verseCount is the number of verses of the loaded chapter, from the
// content API or, offline, from the timings.
func (m Model) verseCount() int {
	if m.chapter.VersesCount > 0 {
		return m.chapter.VersesCount
	}
	return m.index.Len()
}
