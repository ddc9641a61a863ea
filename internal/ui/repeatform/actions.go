package repeatform

import (
	"github.com/llehouerou/tartil/internal/playback"
	"github.com/llehouerou/tartil/internal/ui/action"
)

// Result is emitted when the form is confirmed or canceled.
type Result struct {
	Config   playback.Config
	Canceled bool
}

// ActionType implements action.Action.
func (Result) ActionType() string { return "repeatform.result" }

// ActionMsg wraps a repeat form action.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: "repeatform", Action: a}
}
