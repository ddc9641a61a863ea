package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tartil/internal/ui/action"
	"github.com/llehouerou/tartil/internal/ui/popup"
)

// PopupHarness drives a popup with simulated input and records the
// commands it returns.
type PopupHarness struct {
	popup popup.Popup
	cmds  []tea.Cmd
}

// NewPopupHarness initializes p and captures its init command.
func NewPopupHarness(p popup.Popup) *PopupHarness {
	h := &PopupHarness{popup: p}
	if cmd := p.Init(); cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return h
}

// Popup returns the wrapped popup.
func (h *PopupHarness) Popup() popup.Popup {
	return h.popup
}

// View returns the popup's rendered content.
func (h *PopupHarness) View() string {
	return h.popup.View()
}

// SendMsg delivers msg and returns the resulting command.
func (h *PopupHarness) SendMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.popup, cmd = h.popup.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// SendKey sends key as a rune key press.
func (h *PopupHarness) SendKey(key string) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

// SendSpecialKey sends a non-rune key such as enter or tab.
func (h *PopupHarness) SendSpecialKey(keyType tea.KeyType) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: keyType})
}

// SendEnter sends the enter key.
func (h *PopupHarness) SendEnter() tea.Cmd {
	return h.SendSpecialKey(tea.KeyEnter)
}

// SendEscape sends the escape key.
func (h *PopupHarness) SendEscape() tea.Cmd {
	return h.SendSpecialKey(tea.KeyEscape)
}

// SendTab sends the tab key.
func (h *PopupHarness) SendTab() tea.Cmd {
	return h.SendSpecialKey(tea.KeyTab)
}

// Type sends text one rune at a time, the way a terminal delivers typing.
func (h *PopupHarness) Type(text string) {
	for _, r := range text {
		h.SendMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Backspace sends n backspace presses.
func (h *PopupHarness) Backspace(n int) {
	for range n {
		h.SendSpecialKey(tea.KeyBackspace)
	}
}

// LastCommand returns the most recent non-nil command, or nil.
func (h *PopupHarness) LastCommand() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	return h.cmds[len(h.cmds)-1]
}

// ClearCommands forgets the recorded commands.
func (h *PopupHarness) ClearCommands() {
	h.cmds = nil
}

// LastAction runs the most recent command and returns the action it
// carries. It fails the test if there is none.
func (h *PopupHarness) LastAction(t *testing.T) action.Action {
	t.Helper()
	cmd := h.LastCommand()
	if cmd == nil {
		t.Fatal("expected command, got nil")
	}
	msg, ok := ExecuteCmd(cmd).(action.Msg)
	if !ok {
		t.Fatalf("expected action.Msg, got %T", ExecuteCmd(cmd))
	}
	return msg.Action
}

// ExecuteCmd runs cmd and returns its message.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// ViewContains reports whether the stripped view contains substr.
func (h *PopupHarness) ViewContains(substr string) bool {
	return ContainsLine(StripANSI(h.View()), substr)
}
