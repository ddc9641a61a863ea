package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tartil/internal/logging"
	"github.com/llehouerou/tartil/internal/playback"
	"github.com/llehouerou/tartil/internal/player"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/search"
	"github.com/llehouerou/tartil/internal/segment"
	"github.com/llehouerou/tartil/internal/store"
	"github.com/llehouerou/tartil/internal/ui/helpbindings"
	"github.com/llehouerou/tartil/internal/ui/repeatform"
	"github.com/llehouerou/tartil/internal/ui/testutil"
)

var testSegments = []segment.Segment{
	{Verse: 1, Start: 0, End: 5},
	{Verse: 2, Start: 5, End: 10},
	{Verse: 3, Start: 10, End: 15},
}

func testBundle() quran.Bundle {
	ch := quran.Chapter{ID: 1, NameSimple: "Al-Fatihah", NameArabic: "الفاتحة", VersesCount: 3}
	ch.TranslatedName.Name = "The Opener"
	return quran.Bundle{
		Chapter: ch,
		Verses: []quran.Verse{
			{Number: 1, Key: "1:1", TextUthmani: "بِسْمِ ٱللَّهِ", Translations: []quran.Translation{{Text: "In the name of Allah"}}},
			{Number: 2, Key: "1:2", TextUthmani: "ٱلْحَمْدُ لِلَّهِ", Translations: []quran.Translation{{Text: "All praise"}}},
			{Number: 3, Key: "1:3", TextUthmani: "ٱلرَّحْمَٰنِ ٱلرَّحِيمِ", Translations: []quran.Translation{{Text: "The Most Merciful"}}},
		},
		Recitation: quran.Recitation{ReciterID: 7, Chapter: 1, AudioURL: "https://audio/001.mp3", Segments: testSegments},
	}
}

type stubContent struct {
	bundle quran.Bundle
	err    error
}

func (s *stubContent) ChapterBundle(context.Context, int, int) (quran.Bundle, error) {
	return s.bundle, s.err
}

type stubAudio struct {
	path        string
	fetchErr    error
	cachedPath  string
	cachedErr   error
	cachedCalls int
}

func (s *stubAudio) Fetch(context.Context, quran.Recitation) (string, error) {
	return s.path, s.fetchErr
}

func (s *stubAudio) Cached(int, int) (string, []segment.Segment, error) {
	s.cachedCalls++
	return s.cachedPath, testSegments, s.cachedErr
}

type harness struct {
	m       Model
	player  *player.Mock
	store   *store.Mock
	ctrl    *playback.Controller
	content *stubContent
	audio   *stubAudio
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	pm := player.NewMock()
	pm.SetDuration(15 * time.Second)
	h := &harness{
		player:  pm,
		store:   store.NewMock(),
		ctrl:    playback.New(playback.WithLogger(logging.Discard())),
		content: &stubContent{bundle: testBundle()},
		audio:   &stubAudio{path: "/cache/7/001.mp3", cachedPath: "/cache/7/001.mp3"},
	}
	h.m = New(Deps{
		Content:     h.content,
		Audio:       h.audio,
		Store:       h.store,
		Player:      pm,
		Controller:  h.ctrl,
		Logger:      logging.Discard(),
		Reciter:     7,
		ReciterName: "Mishari Alafasy",
	}, 1)
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

// loaded returns a harness with chapter 1 started.
func loaded(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.send(h.m.loadChapter(1)())
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) key(k string) tea.Cmd {
	switch k {
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEscape})
	default:
		return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func (h *harness) view() string {
	return testutil.StripANSI(h.m.View())
}

func TestLoadChapter_Online(t *testing.T) {
	h := newHarness(t)

	msg, ok := h.m.loadChapter(1)().(ChapterLoadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, "/cache/7/001.mp3", msg.AudioPath)
	assert.False(t, msg.Offline)
	assert.Len(t, msg.Translit, 3)
	assert.Equal(t, testSegments, msg.Segments)
	assert.Nil(t, msg.Prefs)
	assert.Zero(t, h.audio.cachedCalls)
}

func TestLoadChapter_OfflineFallback(t *testing.T) {
	h := newHarness(t)
	h.content.err = errors.New("dial tcp: no route to host")

	msg := h.m.loadChapter(1)().(ChapterLoadedMsg)
	require.NoError(t, msg.Err)
	assert.True(t, msg.Offline)
	assert.Equal(t, "/cache/7/001.mp3", msg.AudioPath)

	h.send(msg)
	assert.Equal(t, []string{"/cache/7/001.mp3"}, h.player.LoadCalls())
	assert.Equal(t, 3, h.m.verseCount())
	out := h.view()
	assert.Contains(t, out, "offline")
	assert.Contains(t, out, "1:3")
}

func TestLoadChapter_NotFoundSkipsCache(t *testing.T) {
	h := newHarness(t)
	h.content.err = quran.ErrNotFound

	msg := h.m.loadChapter(115)().(ChapterLoadedMsg)
	assert.ErrorIs(t, msg.Err, quran.ErrNotFound)
	assert.Zero(t, h.audio.cachedCalls)
}

func TestLoadChapter_NothingCached(t *testing.T) {
	h := newHarness(t)
	h.content.err = errors.New("timeout")
	h.audio.cachedErr = errors.New("not cached")

	h.send(h.m.loadChapter(1)())

	assert.True(t, h.m.statusErr)
	assert.Contains(t, h.m.status, "Failed to load chapter 'chapter 1': timeout")
	assert.Empty(t, h.player.LoadCalls())
}

func TestLoadChapter_DownloadFails(t *testing.T) {
	h := newHarness(t)
	h.audio.fetchErr = errors.New("status 503")

	msg := h.m.loadChapter(1)().(ChapterLoadedMsg)
	assert.Equal(t, "download audio", string(msg.Op))
	h.send(msg)
	assert.Contains(t, h.m.status, "Failed to download audio")
}

func TestChapterLoaded_StartsSession(t *testing.T) {
	h := loaded(t)

	assert.Equal(t, []string{"/cache/7/001.mp3"}, h.player.LoadCalls())
	assert.Equal(t, playback.Config{RepeatFrom: 1, RepeatTo: 3, RepeatCount: 1}, h.ctrl.Config())
	assert.Equal(t, 1, h.m.panel.Cursor())
	assert.False(t, h.m.loading)

	out := h.view()
	for _, want := range []string{"1. Al-Fatihah (The Opener)", "Mishari Alafasy", "1:2", "All praise", "Loaded Al-Fatihah"} {
		assert.Contains(t, out, want)
	}
}

func TestChapterLoaded_RestoresPrefs(t *testing.T) {
	h := newHarness(t)
	h.store.SavePrefs(store.PlaybackPrefs{Chapter: 1, RepeatFrom: 2, RepeatTo: 3, RepeatCount: 4, LastVerse: 3})

	h.send(h.m.loadChapter(1)())

	cfg := h.ctrl.Config()
	assert.Equal(t, 2, cfg.RepeatFrom)
	assert.Equal(t, 4, cfg.RepeatCount)
	assert.Equal(t, 3, h.m.panel.Cursor())
}

func TestChapterLoaded_AudioOpenFails(t *testing.T) {
	h := newHarness(t)
	h.player.SetLoadError(errors.New("unsupported format"))

	h.send(h.m.loadChapter(1)())

	assert.True(t, h.m.statusErr)
	assert.Contains(t, h.m.status, "Failed to open audio")
}

func TestKeys_Transport(t *testing.T) {
	h := loaded(t)

	h.key(" ")
	assert.Equal(t, playback.ModePlaying, h.ctrl.Mode())
	assert.Equal(t, 1, h.player.PlayCalls())

	h.key(" ")
	assert.Equal(t, playback.ModePaused, h.ctrl.Mode())

	h.key("s")
	assert.Equal(t, playback.ModeStopped, h.ctrl.Mode())

	h.key("enter")
	assert.Equal(t, playback.ModePlaying, h.ctrl.Mode())
}

func TestKeys_EditRange(t *testing.T) {
	h := loaded(t)

	h.key("j")
	h.key("f")
	h.key("j")
	h.key("t")
	h.key("+")
	h.key("+")
	h.key("-")

	cfg := h.ctrl.Config()
	assert.Equal(t, 2, cfg.RepeatFrom)
	assert.Equal(t, 3, cfg.RepeatTo)
	assert.Equal(t, 2, cfg.RepeatCount)

	p, err := h.store.GetPrefs(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2, p.RepeatFrom)
	assert.Equal(t, 2, p.RepeatCount)
	assert.Equal(t, 3, p.LastVerse)
	assert.Equal(t, 7, p.Reciter)
}

func TestKeys_ToggleTimeRangeSeedsBounds(t *testing.T) {
	h := loaded(t)
	h.key("j")
	h.key("f")

	h.key("T")

	tr, ok := h.ctrl.Config().TimeRange()
	require.True(t, ok)
	assert.InDelta(t, 5, tr.Start, 1e-9)
	assert.InDelta(t, 15, tr.End, 1e-9)
}

func TestTick_DrivesController(t *testing.T) {
	h := loaded(t)
	h.key(" ")
	h.player.SetPosition(6 * time.Second)

	cmd := h.send(TickMsg(time.Now()))

	assert.NotNil(t, cmd, "tick must re-arm")
	assert.Equal(t, 2, h.ctrl.ActiveVerse())
}

func TestTick_IgnoredWhilePaused(t *testing.T) {
	h := loaded(t)
	h.player.SetPosition(12 * time.Second)

	cmd := h.send(TickMsg(time.Now()))

	assert.NotNil(t, cmd, "tick must re-arm while paused")
	assert.Equal(t, 0, h.ctrl.ActiveVerse())
}

func TestTick_HighlightHeldUntilResume(t *testing.T) {
	h := loaded(t)
	h.key(" ")
	h.player.SetPosition(6 * time.Second)
	h.send(TickMsg(time.Now()))
	require.Equal(t, 2, h.ctrl.ActiveVerse())

	h.key(" ")
	h.player.SetPosition(12 * time.Second)
	h.send(TickMsg(time.Now()))
	assert.Equal(t, 2, h.ctrl.ActiveVerse(), "paused tick moved the highlight")

	h.key(" ")
	h.send(TickMsg(time.Now()))
	assert.Equal(t, 3, h.ctrl.ActiveVerse())
}

func TestWatchEvents(t *testing.T) {
	h := loaded(t)
	h.key(" ")

	msg := h.m.WatchEvents()()
	switch msg.(type) {
	case ModeChangedMsg, VerseChangedMsg:
	default:
		t.Fatalf("unexpected event %T", msg)
	}
}

func TestVerseChanged_FollowsInPanel(t *testing.T) {
	h := loaded(t)
	cmd := h.send(VerseChangedMsg{Previous: 1, Current: 3})
	assert.NotNil(t, cmd)
	assert.Equal(t, 3, h.m.panel.Cursor())
}

func TestLooped_ShowsProgress(t *testing.T) {
	h := loaded(t)
	h.key("+")
	h.key("+")

	h.send(LoopedMsg{Completed: 1, VerseMode: true})

	assert.Equal(t, "Repeat 2 of 3", h.m.status)
}

func TestBlur_PausesPlayback(t *testing.T) {
	h := loaded(t)
	h.key(" ")

	h.send(tea.BlurMsg{})
	assert.Equal(t, playback.ModePaused, h.ctrl.Mode())

	h.send(tea.FocusMsg{})
	assert.Equal(t, playback.ModePaused, h.ctrl.Mode(), "focus does not resume")
}

func TestQuit_SavesAndCloses(t *testing.T) {
	h := loaded(t)
	h.key("j")

	cmd := h.key("q")

	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.IsType(t, SessionClosedMsg{}, h.m.WatchEvents()())
	p, _ := h.store.GetPrefs(context.Background(), 1)
	require.NotNil(t, p)
	assert.Equal(t, 2, p.LastVerse)
}

func TestRepeatForm(t *testing.T) {
	h := loaded(t)

	h.key("r")
	assert.Equal(t, popupRepeat, h.m.popup)
	assert.Contains(t, h.view(), "Repeat range")

	// keys go to the form, not the player
	h.key(" ")
	assert.Equal(t, playback.ModeIdle, h.ctrl.Mode())

	cfg := playback.Config{RepeatFrom: 2, RepeatTo: 2, RepeatCount: 5}
	h.send(repeatform.ActionMsg(repeatform.Result{Config: cfg}))

	assert.Equal(t, popupNone, h.m.popup)
	assert.Equal(t, cfg, h.ctrl.Config())
	assert.Equal(t, "Repeat range updated", h.m.status)
}

func TestRepeatForm_Cancel(t *testing.T) {
	h := loaded(t)
	h.key("r")

	h.send(repeatform.ActionMsg(repeatform.Result{Canceled: true}))

	assert.Equal(t, popupNone, h.m.popup)
	assert.Equal(t, 3, h.ctrl.Config().RepeatTo)
}

func TestSearch_SelectMovesCursor(t *testing.T) {
	h := loaded(t)

	h.key("/")
	require.Equal(t, popupSearch, h.m.popup)

	h.send(search.ActionMsg(search.Selected{Verse: search.VerseItem{Chapter: 1, Verse: 3}}))

	assert.Equal(t, popupNone, h.m.popup)
	assert.Equal(t, 3, h.m.panel.Cursor())
}

func TestSearch_BeforeLoad(t *testing.T) {
	h := newHarness(t)
	h.key("/")
	assert.Equal(t, popupNone, h.m.popup)
}

func TestHelpPopup(t *testing.T) {
	h := loaded(t)
	h.key("?")
	assert.Contains(t, h.view(), "Help")

	h.send(helpbindings.ActionMsg(helpbindings.Close{}))
	assert.Equal(t, popupNone, h.m.popup)
}

func TestBookmark(t *testing.T) {
	h := loaded(t)
	h.key("j")

	cmd := h.key("b")
	require.NotNil(t, cmd)
	h.send(cmd())

	assert.Equal(t, "Bookmarked 1:2", h.m.status)
	bms, err := h.store.ListBookmarks(context.Background())
	require.NoError(t, err)
	require.Len(t, bms, 1)
	assert.Equal(t, 2, bms[0].Verse)
}

func TestView_Layout(t *testing.T) {
	h := newHarness(t)
	out := h.view()
	assert.Contains(t, out, "Loading chapter 1...")
	assert.Len(t, strings.Split(out, "\n"), 40)

	h.send(tea.WindowSizeMsg{Width: 30, Height: 20})
	assert.Equal(t, "Terminal too narrow", h.m.View())
}

func TestVolumeKeys(t *testing.T) {
	h := loaded(t)

	h.key("[")
	h.key("[")
	assert.InDelta(t, 0.8, h.player.Volume(), 1e-9)
	assert.Contains(t, h.m.status, "Volume 80%")

	h.key("m")
	assert.True(t, h.player.Muted())
	assert.Equal(t, "Muted", h.m.status)

	// Changing the volume unmutes.
	h.key("]")
	assert.False(t, h.player.Muted())
	assert.InDelta(t, 0.9, h.player.Volume(), 1e-9)

	h.key("]")
	h.key("]")
	assert.InDelta(t, 1.0, h.player.Volume(), 1e-9)
	assert.Contains(t, h.m.status, "Volume 100%")
}
