package popup

import tea "github.com/charmbracelet/bubbletea"

// Popup is a modal component drawn over the player.
type Popup interface {
	// Init returns the first command, such as focusing an input.
	Init() tea.Cmd

	Update(msg tea.Msg) (Popup, tea.Cmd)

	// View renders the content without border or centering.
	View() string

	SetSize(width, height int)
}
