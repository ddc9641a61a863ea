package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/llehouerou/tartil/internal/errmsg"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/store"
	"github.com/llehouerou/tartil/internal/translit"
)

// TickCmd returns a command that sends TickMsg after interval.
func TickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchEvents waits for the next controller event and converts it to a
// tea.Msg. Handlers re-arm it after each event.
func (m Model) WatchEvents() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.ModeChanged:
			return ModeChangedMsg(e)
		case e := <-sub.VerseChanged:
			return VerseChangedMsg(e)
		case e := <-sub.Looped:
			return LoopedMsg(e)
		case <-sub.Done:
			return SessionClosedMsg{}
		}
	}
}

// loadChapter fetches the chapter bundle and its audio. When the content
// API fails, a previously downloaded recording with its timings is used.
func (m Model) loadChapter(chapter int) tea.Cmd {
	d := m.deps
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		bundle, err := d.Content.ChapterBundle(ctx, chapter, d.Reciter)
		if err != nil {
			if errors.Is(err, quran.ErrNotFound) {
				return ChapterLoadedMsg{Chapter: chapter, Op: errmsg.OpChapterLoad, Err: err}
			}
			path, segs, cerr := d.Audio.Cached(d.Reciter, chapter)
			if cerr != nil {
				log.Warn("chapter unavailable", "chapter", chapter, "err", err, "cache", cerr)
				return ChapterLoadedMsg{Chapter: chapter, Op: errmsg.OpChapterLoad, Err: err}
			}
			log.Info("content unavailable, playing cached audio", "chapter", chapter, "err", err)
			return ChapterLoadedMsg{
				Chapter:   chapter,
				AudioPath: path,
				Segments:  segs,
				Prefs:     m.loadPrefs(ctx, chapter),
				Offline:   true,
			}
		}

		path, err := d.Audio.Fetch(ctx, bundle.Recitation)
		if err != nil {
			return ChapterLoadedMsg{Chapter: chapter, Op: errmsg.OpAudioDownload, Err: err}
		}

		vs := lo.Map(bundle.Verses, func(v quran.Verse, _ int) translit.Verse {
			return translit.Verse{Number: v.Number, Text: v.TextUthmani}
		})
		return ChapterLoadedMsg{
			Chapter:   chapter,
			Bundle:    bundle,
			Translit:  d.Translit.Chapter(ctx, chapter, vs),
			AudioPath: path,
			Segments:  bundle.Recitation.Segments,
			Prefs:     m.loadPrefs(ctx, chapter),
		}
	}
}

// loadPrefs returns the saved preferences for chapter. A store failure
// only costs the saved range, so it is logged and ignored.
func (m Model) loadPrefs(ctx context.Context, chapter int) *store.PlaybackPrefs {
	p, err := m.deps.Store.GetPrefs(ctx, chapter)
	if err != nil {
		m.log.Warn(errmsg.Format(errmsg.OpPrefsLoad, err), "chapter", chapter)
		return nil
	}
	return p
}

// addBookmark saves a bookmark on verse.
func (m Model) addBookmark(chapter, verse int) tea.Cmd {
	st := m.deps.Store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := st.AddBookmark(ctx, chapter, verse, "")
		return BookmarkAddedMsg{Chapter: chapter, Verse: verse, Err: err}
	}
}
