// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackToggle Op = "toggle playback"
	OpPlaybackSeek   Op = "seek"
	OpPlaybackStop   Op = "stop playback"

	// Catalog operations
	OpResolveURL  Op = "resolve stream url"
	OpFetchLyric  Op = "fetch lyric"
	OpListSources Op = "list music sources"

	// Queue operations
	OpQueueLoad   Op = "load queue"
	OpQueueSave   Op = "save queue"
	OpQueueAdd    Op = "add to queue"
	OpQueueRemove Op = "remove from queue"

	// Source operations
	OpSourceSwitch Op = "switch music source"

	// Settings operations
	OpSettingsLoad  Op = "load settings"
	OpSettingsSave  Op = "save settings"
	OpSettingsClear Op = "clear saved settings"

	// Initialization
	OpInitialize Op = "initialize session"
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
