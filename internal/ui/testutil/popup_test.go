package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tartil/internal/ui/action"
	"github.com/llehouerou/tartil/internal/ui/popup"
)

type done struct{ keys string }

func (done) ActionType() string { return "test.done" }

// echoPopup records typed runes and emits them on enter.
type echoPopup struct {
	typed  string
	width  int
	height int
}

var _ popup.Popup = (*echoPopup)(nil)

func (p *echoPopup) Init() tea.Cmd { return nil }

func (p *echoPopup) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.Type {
	case tea.KeyEnter:
		typed := p.typed
		return p, func() tea.Msg { return action.Msg{Source: "echo", Action: done{keys: typed}} }
	case tea.KeyBackspace:
		if p.typed != "" {
			p.typed = p.typed[:len(p.typed)-1]
		}
	case tea.KeyRunes:
		p.typed += string(key.Runes)
	}
	return p, nil
}

func (p *echoPopup) View() string { return "\x1b[1mtyped:\x1b[0m " + p.typed }

func (p *echoPopup) SetSize(w, h int) { p.width, p.height = w, h }

func TestPopupHarness_TypeAndEnter(t *testing.T) {
	h := NewPopupHarness(&echoPopup{})

	h.Type("1:23")
	h.Backspace(1)
	if h.LastCommand() != nil {
		t.Fatal("typing should not produce commands")
	}
	h.SendEnter()

	act, ok := h.LastAction(t).(done)
	if !ok {
		t.Fatalf("expected done, got %T", h.LastAction(t))
	}
	if act.keys != "1:2" {
		t.Errorf("keys = %q, want %q", act.keys, "1:2")
	}
	if !h.ViewContains("typed: 1:2") {
		t.Errorf("view = %q", h.View())
	}
}

func TestPopupHarness_ClearCommands(t *testing.T) {
	h := NewPopupHarness(&echoPopup{})
	h.SendEnter()
	h.ClearCommands()
	if h.LastCommand() != nil {
		t.Error("commands not cleared")
	}
	if ExecuteCmd(nil) != nil {
		t.Error("ExecuteCmd(nil) should be nil")
	}
}
