// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Content operations
	OpChaptersLoad Op = "load chapters"
	OpChapterLoad  Op = "load chapter"
	OpVersesLoad   Op = "load verses"
	OpRecitersLoad Op = "load reciters"
	OpSearch       Op = "search"

	// Audio operations
	OpRecitationLoad Op = "load recitation"
	OpAudioDownload  Op = "download audio"
	OpAudioOpen      Op = "open audio"

	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpRepeatRange    Op = "set repeat range"
	OpPrefsLoad      Op = "load playback preferences"
	OpPrefsSave      Op = "save playback preferences"
	OpTimeRangeParse Op = "parse time range"

	// Bookmarks
	OpBookmarkAdd    Op = "add bookmark"
	OpBookmarkDelete Op = "delete bookmark"
	OpBookmarkList   Op = "list bookmarks"

	// Recitation
	OpTranscribe  Op = "transcribe recitation"
	OpAttemptSave Op = "save recitation attempt"
	OpLeaderboard Op = "load leaderboard"

	// Transliteration
	OpTransliterate Op = "transliterate"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
