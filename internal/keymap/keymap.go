// Package keymap defines the player's key bindings.
package keymap

// Action is a user-triggerable command.
type Action string

const (
	ActionQuit   Action = "quit"
	ActionHelp   Action = "help"
	ActionSearch Action = "search"

	ActionPlayPause     Action = "play_pause"
	ActionStop          Action = "stop"
	ActionPlayFromRange Action = "play_from_range"
	ActionVolumeUp      Action = "volume_up"
	ActionVolumeDown    Action = "volume_down"
	ActionMute          Action = "mute"

	ActionMoveUp      Action = "move_up"
	ActionMoveDown    Action = "move_down"
	ActionJumpStart   Action = "jump_start"
	ActionJumpEnd     Action = "jump_end"
	ActionFollowVerse Action = "follow_verse"

	ActionSetFrom         Action = "set_from"
	ActionSetTo           Action = "set_to"
	ActionCountUp         Action = "count_up"
	ActionCountDown       Action = "count_down"
	ActionEditRepeat      Action = "edit_repeat"
	ActionToggleTimeRange Action = "toggle_time_range"

	ActionBookmark Action = "bookmark"
)

// Binding ties keys to an action. Context groups bindings in the help popup.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "verses", "repeat"
}

// Bindings are the player's key bindings in help order.
var Bindings = []Binding{
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionSearch, []string{"/"}, "Search verses", "global"},

	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionPlayFromRange, []string{"enter"}, "Play from range start", "playback"},
	{ActionVolumeUp, []string{"]"}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"["}, "Volume down", "playback"},
	{ActionMute, []string{"m"}, "Mute", "playback"},

	{ActionMoveDown, []string{"j", "down"}, "Next verse", "verses"},
	{ActionMoveUp, []string{"k", "up"}, "Previous verse", "verses"},
	{ActionJumpStart, []string{"g", "home"}, "First verse", "verses"},
	{ActionJumpEnd, []string{"G", "end"}, "Last verse", "verses"},
	{ActionFollowVerse, []string{"c"}, "Follow recited verse", "verses"},
	{ActionBookmark, []string{"b"}, "Bookmark verse", "verses"},

	{ActionSetFrom, []string{"f"}, "Repeat from cursor", "repeat"},
	{ActionSetTo, []string{"t"}, "Repeat to cursor", "repeat"},
	{ActionCountUp, []string{"+", "="}, "More repetitions", "repeat"},
	{ActionCountDown, []string{"-"}, "Fewer repetitions", "repeat"},
	{ActionEditRepeat, []string{"r"}, "Edit repeat range", "repeat"},
	{ActionToggleTimeRange, []string{"T"}, "Toggle time range", "repeat"},
}

// ByContext returns the bindings of one context.
func ByContext(context string) []Binding {
	var out []Binding
	for _, b := range Bindings {
		if b.Context == context {
			out = append(out, b)
		}
	}
	return out
}

// DisplayKey returns how a key is shown to the user.
func DisplayKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}
