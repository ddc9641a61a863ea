package app

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/llehouerou/tartil/internal/errmsg"
	"github.com/llehouerou/tartil/internal/keymap"
	"github.com/llehouerou/tartil/internal/playback"
	"github.com/llehouerou/tartil/internal/player"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/search"
	"github.com/llehouerou/tartil/internal/segment"
	"github.com/llehouerou/tartil/internal/store"
	"github.com/llehouerou/tartil/internal/translit"
	"github.com/llehouerou/tartil/internal/ui"
	"github.com/llehouerou/tartil/internal/ui/action"
	"github.com/llehouerou/tartil/internal/ui/headerbar"
	"github.com/llehouerou/tartil/internal/ui/helpbindings"
	"github.com/llehouerou/tartil/internal/ui/playerbar"
	"github.com/llehouerou/tartil/internal/ui/popup"
	"github.com/llehouerou/tartil/internal/ui/repeatform"
	"github.com/llehouerou/tartil/internal/ui/verses"
)

// Update handles messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.BlurMsg:
		m.deps.Controller.SetHidden(true)
		return m, nil

	case tea.FocusMsg:
		m.deps.Controller.SetHidden(false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case action.Msg:
		return m.handleAction(msg)

	case BookmarkAddedMsg:
		if msg.Err != nil {
			m.setError(errmsg.Format(errmsg.OpBookmarkAdd, msg.Err))
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Bookmarked %d:%d", msg.Chapter, msg.Verse))
		return m, nil

	case PlaybackMessage:
		return m.handlePlaybackMsg(msg)

	case LoadingMessage:
		return m.handleLoadingMsg(msg)
	}

	// Cursor blinks and other popup-internal messages.
	return m.updatePopup(msg)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	panelH := max(m.height-headerbar.Height-playerbar.Height-ui.StatusHeight, ui.BorderHeight+1)
	m.panel.SetSize(m.width, panelH)

	w, h := popup.Frame(m.width, m.height, popup.SizeAuto)
	m.help.SetSize(w, h)
	m.form.SetSize(w, h)
	m.search, _ = m.search.Update(msg)
	return m, nil
}

func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	ctrl := m.deps.Controller
	switch msg := msg.(type) {
	case TickMsg:
		// Only a running transport moves the highlight. A seek while
		// paused or stopped shows up on the first tick after resuming.
		if ctrl.Mode() == playback.ModePlaying {
			ctrl.OnTimeProgress(m.deps.Player.Position().Seconds())
		}
		return m, TickCmd(m.deps.Tick)

	case VerseChangedMsg:
		m.panel.SetActive(msg.Current)
		return m, m.WatchEvents()

	case ModeChangedMsg:
		m.log.Debug("playback mode", "from", msg.Previous, "to", msg.Current)
		return m, m.WatchEvents()

	case LoopedMsg:
		cfg := m.config()
		m.setStatus(fmt.Sprintf("Repeat %d of %d", min(msg.Completed+1, max(cfg.RepeatCount, 1)), max(cfg.RepeatCount, 1)))
		return m, m.WatchEvents()

	case SessionClosedMsg:
		m.sub = nil
		return m, nil
	}
	return m, nil
}

func (m Model) handleLoadingMsg(msg LoadingMessage) (tea.Model, tea.Cmd) {
	loaded, ok := msg.(ChapterLoadedMsg)
	if !ok {
		return m, nil
	}
	m.loading = false
	if loaded.Err != nil {
		m.setError(errmsg.FormatWith(loaded.Op, fmt.Sprintf("chapter %d", loaded.Chapter), loaded.Err))
		return m, nil
	}
	if err := m.startChapter(loaded); err != nil {
		m.setError(errmsg.Format(errmsg.OpAudioOpen, err))
		return m, nil
	}
	if m.offline {
		m.setStatus("Offline: playing the cached recording without verse text")
	} else {
		m.setStatus(fmt.Sprintf("Loaded %s", m.chapter.NameSimple))
	}
	return m, nil
}

// startChapter loads the audio, attaches it to the controller and fills
// the panel. Saved preferences win over the whole-chapter default.
func (m *Model) startChapter(msg ChapterLoadedMsg) error {
	p := m.deps.Player
	if err := p.Load(msg.AudioPath); err != nil {
		return err
	}

	m.chapter = msg.Bundle.Chapter
	m.offline = msg.Offline
	if m.offline {
		m.chapter.ID = msg.Chapter
		m.chapter.NameSimple = fmt.Sprintf("Chapter %d", msg.Chapter)
	}
	m.index = segment.NewIndex(msg.Segments)

	ctrl := m.deps.Controller
	ctrl.Attach(p)
	ctrl.SetSegments(msg.Segments)
	ctrl.OnMetadataLoaded(p.Duration().Seconds())

	cfg := defaultConfig(m.verseCount())
	if msg.Prefs != nil && msg.Prefs.RepeatFrom > 0 {
		cfg = msg.Prefs.Config()
	}
	ctrl.SetConfig(cfg)

	lines := chapterLines(msg)
	m.panel.SetVerses(m.chapter.ID, lines)
	m.syncRange()
	if msg.Prefs != nil && msg.Prefs.LastVerse > 0 {
		m.panel.SetCursor(msg.Prefs.LastVerse)
	}

	m.items = search.NewVerseIndex(lo.Map(lines, func(l verses.Line, _ int) search.VerseItem {
		return search.VerseItem{
			Chapter:     m.chapter.ID,
			Verse:       l.Number,
			Arabic:      l.Arabic,
			Translit:    l.Transliteration,
			Translation: l.Translation,
		}
	}))
	return nil
}

// chapterLines builds the panel rows. Offline there is no text, so rows
// come from the verse timings.
func chapterLines(msg ChapterLoadedMsg) []verses.Line {
	if len(msg.Bundle.Verses) == 0 {
		return lo.Map(msg.Segments, func(s segment.Segment, _ int) verses.Line {
			return verses.Line{Number: s.Verse}
		})
	}
	tl := lo.SliceToMap(msg.Translit, func(l translit.Line) (int, string) {
		return l.Verse, l.Text
	})
	return lo.Map(msg.Bundle.Verses, func(v quran.Verse, _ int) verses.Line {
		return verses.Line{
			Number:          v.Number,
			Arabic:          v.TextUthmani,
			Transliteration: tl[v.Number],
			Translation:     v.Translation(),
		}
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.popup != popupNone {
		return m.updatePopup(msg)
	}

	act := m.keys.Resolve(msg.String())
	if m.panel.HandleAction(act) {
		return m, nil
	}

	ctrl := m.deps.Controller
	switch act {
	case keymap.ActionQuit:
		return m.quit()
	case keymap.ActionHelp:
		m.popup = popupHelp
	case keymap.ActionSearch:
		return m.openSearch()
	case keymap.ActionPlayPause:
		ctrl.TogglePlayPause()
	case keymap.ActionStop:
		ctrl.Stop()
	case keymap.ActionPlayFromRange:
		ctrl.PlayFromRange()
	case keymap.ActionVolumeUp:
		m.adjustVolume(player.VolumeStep)
	case keymap.ActionVolumeDown:
		m.adjustVolume(-player.VolumeStep)
	case keymap.ActionMute:
		muted := !m.deps.Player.Muted()
		m.deps.Player.SetMuted(muted)
		if muted {
			m.setStatus("Muted")
		} else {
			m.setStatus(fmt.Sprintf("Volume %d%%", volumePercent(m.deps.Player.Volume())))
		}
	case keymap.ActionSetFrom:
		if v := m.panel.Cursor(); v > 0 {
			m.applyConfig(setFrom(m.config(), v))
		}
	case keymap.ActionSetTo:
		if v := m.panel.Cursor(); v > 0 {
			m.applyConfig(setTo(m.config(), v))
		}
	case keymap.ActionCountUp:
		m.applyConfig(adjustCount(m.config(), 1))
	case keymap.ActionCountDown:
		m.applyConfig(adjustCount(m.config(), -1))
	case keymap.ActionToggleTimeRange:
		m.applyConfig(toggleTimeRange(m.config(), m.index))
	case keymap.ActionEditRepeat:
		m.popup = popupRepeat
		return m, m.form.Start(m.config(), m.verseCount())
	case keymap.ActionBookmark:
		if v := m.panel.Cursor(); v > 0 && m.chapter.ID > 0 {
			return m, m.addBookmark(m.chapter.ID, v)
		}
	}
	return m, nil
}

func (m Model) openSearch() (tea.Model, tea.Cmd) {
	if m.items == nil {
		m.setStatus("Nothing to search yet")
		return m, nil
	}
	m.search, _ = m.search.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	cmd := m.search.Open(m.items)
	m.popup = popupSearch
	return m, cmd
}

func (m Model) updatePopup(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.popup {
	case popupHelp:
		_, cmd = m.help.Update(msg)
	case popupRepeat:
		_, cmd = m.form.Update(msg)
	case popupSearch:
		m.search, cmd = m.search.Update(msg)
	case popupNone:
	}
	return m, cmd
}

func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	switch a := msg.Action.(type) {
	case helpbindings.Close:
		m.popup = popupNone
	case repeatform.Result:
		m.popup = popupNone
		if !a.Canceled {
			m.applyConfig(a.Config)
			m.setStatus("Repeat range updated")
		}
	case search.Selected:
		m.popup = popupNone
		if a.Verse.Verse > 0 {
			m.panel.SetCursor(a.Verse.Verse)
		}
		m.search.Close()
	}
	return m, nil
}

// applyConfig hands cfg to the controller and persists it.
func (m *Model) applyConfig(cfg playback.Config) {
	m.deps.Controller.SetConfig(cfg)
	m.syncRange()
	m.savePrefs()
}

func (m *Model) syncRange() {
	cfg := m.config()
	m.panel.SetRange(cfg.RepeatFrom, cfg.RepeatTo, !cfg.UseTimeRange)
}

func (m Model) savePrefs() {
	if m.chapter.ID == 0 {
		return
	}
	p := store.PrefsFromConfig(m.chapter.ID, m.deps.Reciter, m.config())
	p.LastVerse = m.panel.Cursor()
	m.deps.Store.SavePrefs(p)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.savePrefs()
	if err := m.deps.Controller.Close(); err != nil {
		m.log.Warn("close playback", "err", err)
	}
	return m, tea.Quit
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(s string) {
	m.log.Error(s)
	m.status, m.statusErr = s, true
}

func (m *Model) adjustVolume(delta float64) {
	p := m.deps.Player
	p.SetVolume(p.Volume() + delta)
	if p.Muted() {
		p.SetMuted(false)
	}
	m.setStatus(fmt.Sprintf("Volume %d%%", volumePercent(p.Volume())))
}

func volumePercent(level float64) int {
	return int(math.Round(level * 100))
}
