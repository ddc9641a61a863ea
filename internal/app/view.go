package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tartil/internal/segment"
	"github.com/llehouerou/tartil/internal/ui"
	"github.com/llehouerou/tartil/internal/ui/headerbar"
	"github.com/llehouerou/tartil/internal/ui/playerbar"
	"github.com/llehouerou/tartil/internal/ui/popup"
	"github.com/llehouerou/tartil/internal/ui/render"
	"github.com/llehouerou/tartil/internal/ui/styles"
)

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.width < ui.MinWidth {
		return "Terminal too narrow"
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		headerbar.Render(m.headerInfo(), m.width),
		m.panel.View(),
		playerbar.Render(m.playerState(), m.width),
		m.renderStatus(),
	)

	var overlay string
	switch m.popup {
	case popupHelp:
		overlay = popup.RenderBordered(m.help.View(), m.width, m.height, popup.SizeAuto)
	case popupRepeat:
		overlay = popup.RenderBordered(m.form.View(), m.width, m.height, popup.SizeAuto)
	case popupSearch:
		overlay = m.search.View()
	case popupNone:
	}
	if overlay == "" {
		return base
	}
	return popup.Compose(base, overlay, m.width)
}

func (m Model) headerInfo() headerbar.Info {
	return headerbar.Info{
		Chapter:    m.chapter.ID,
		Name:       m.chapter.NameSimple,
		Translated: m.chapter.TranslatedName.Name,
		Arabic:     m.chapter.NameArabic,
		Verses:     m.verseCount(),
		Reciter:    m.deps.ReciterName,
		Offline:    m.offline,
	}
}

func (m Model) playerState() playerbar.State {
	cfg := m.config()
	var window *segment.Bounds
	if b, ok := m.index.RangeBounds(cfg.RepeatFrom, cfg.RepeatTo); ok {
		window = &b
	}
	s := playerbar.NewState(m.deps.Controller.Snapshot(), cfg, window)
	s.Chapter = m.chapter.ID
	return s
}

func (m Model) renderStatus() string {
	st := styles.T().S()
	status := m.status
	if m.loading {
		status = fmt.Sprintf("Loading chapter %d...", m.requested)
	}
	left := st.Muted.Render(render.Truncate(status, m.width-10))
	if m.statusErr {
		left = st.Error.Render(render.Truncate(status, m.width-10))
	}
	return render.Row(left, st.Key.Render("?")+st.Subtle.Render(" help"), m.width)
}
