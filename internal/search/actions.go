package search

import (
	"github.com/llehouerou/tartil/internal/ui/action"
)

// Selected is emitted when the finder closes. Verse is the zero value when
// the finder was canceled or nothing matched.
type Selected struct {
	Verse    VerseItem
	Canceled bool
}

// ActionType implements action.Action.
func (a Selected) ActionType() string { return "search.selected" }

// ActionMsg wraps a finder action for the app.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: "search", Action: a}
}
