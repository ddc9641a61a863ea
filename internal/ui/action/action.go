// Package action defines how UI components report user intent to the app.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action is something a component asks the app to do.
// ActionType identifies it in logs.
type Action interface {
	ActionType() string
}

// Msg wraps an action with the name of the component that emitted it
// ("repeatform", "search", "helpbindings").
type Msg struct {
	Source string
	Action Action
}

var _ tea.Msg = Msg{}
