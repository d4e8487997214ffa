// Package controller holds the UI-independent state of the journal: the
// per-client dashboard view-state machine, the auth form and the registry
// of dashboards kept for web clients. Renderers (HTML, terminal) only read
// snapshots and forward user actions.
package controller

import "errors"

// NoticeKind classifies an inline message.
type NoticeKind string

const (
	NoticeInfo       NoticeKind = "info"
	NoticeError      NoticeKind = "error"
	NoticeReflection NoticeKind = "reflection"
)

// Notice is an inline message shown above the current view.
type Notice struct {
	Kind    NoticeKind
	Message string
}

const (
	msgMissingFields      = "Please provide both a title and content."
	msgReflectEmpty       = "Write something first to get a reflection."
	msgSaveFailed         = "Failed to save entry."
	msgReflectFailed      = "Could not generate reflection at this time."
	msgLoadFailed         = "Failed to load entries."
	msgDeleteFailed       = "Failed to delete entry."
	msgEntryNotFound      = "Entry not found."
	msgSaved              = "Entry saved."
	msgDeleted            = "Entry deleted."
	msgReflectionAdded    = "Reflection added to the draft."
	msgUserExists         = "User already exists"
	msgInvalidCreds       = "Invalid credentials"
	msgNameRequired       = "Name is required"
	msgEmailInvalid       = "Please enter a valid email address."
	msgPasswordRequired   = "Password is required"
	msgSomethingHappened  = "Something went wrong. Please try again."
	msgMissingCredentials = "Please fill in all fields."
)

// ErrInvalidTransition is returned when an action does not apply to the
// current view-state. Nothing is changed.
var ErrInvalidTransition = errors.New("action not available in the current view")
