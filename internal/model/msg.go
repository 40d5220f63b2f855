package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// StartedMsg is sent once the session has rehydrated its state.
type StartedMsg struct {
	Draft  Draft
	Photos []string
	Places []Place
	Notice string // non-blocking notice, e.g. location permission denied
}

// PhotoCapturedMsg is sent when a capture was persisted.
type PhotoCapturedMsg struct {
	Draft  Draft
	Photos []string
}

// CaptureCancelledMsg is sent when the user backed out of the capture tool.
type CaptureCancelledMsg struct{}

// LocatedMsg is sent when a coordinate was obtained.
type LocatedMsg struct {
	Draft Draft
}

// TitleSavedMsg is sent after the title slot write-through finished.
// Err is set when persisting failed; typing is never blocked by it.
type TitleSavedMsg struct {
	Err error
}

// PlaceSavedMsg is sent when a place was appended to the list.
type PlaceSavedMsg struct {
	Place  Place
	Places []Place
	Draft  Draft
}

// SavedDataClearedMsg is sent after the single-slot fields were cleared.
type SavedDataClearedMsg struct {
	Draft Draft
	Err   error
}

// PhotosClearedMsg is sent after the photo list was cleared.
type PhotosClearedMsg struct {
	Photos []string
	Err    error
}

// PlacesLoadedMsg is sent when the place list was read.
type PlacesLoadedMsg struct {
	Places []Place
}

// Screen represents different app screens.
type Screen int

const (
	ScreenDraft Screen = iota
	ScreenPlaces
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
	ModeConfirm
)
