package places

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPermissionDenied is returned when the camera or location capability is not granted.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrCaptureCancelled means the user backed out of the capture. It is not a failure.
	ErrCaptureCancelled = errors.New("capture cancelled")
	// ErrCaptureExtraction means the capture finished but produced no file.
	ErrCaptureExtraction = errors.New("could not read the captured image")
	// ErrPersistenceWrite wraps every failed store or library write.
	ErrPersistenceWrite = errors.New("could not save to local storage")
	// ErrLocationUnavailable means the position provider failed.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrValidationIncomplete means the draft is missing a required field.
	ErrValidationIncomplete = errors.New("fill in photo, location and title")
)

// PermissionDeniedError names the capability that was refused.
type PermissionDeniedError struct {
	Capability string // camera or location
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("%s permission denied", e.Capability)
}

func (e *PermissionDeniedError) Unwrap() error { return ErrPermissionDenied }

// ValidationError lists the draft fields missing on save.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationIncomplete }

func writeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistenceWrite, err)
}

// UserMessage renders err as the plain-language notice shown to the user.
func UserMessage(err error) string {
	var perm *PermissionDeniedError
	var invalid *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &perm):
		if perm.Capability == "camera" {
			return "Camera access denied. Allow the capture tool to take photos."
		}
		return "Location permission was not granted."
	case errors.As(err, &invalid):
		return "Fill in all fields (" + strings.Join(invalid.Missing, ", ") + ")."
	case errors.Is(err, ErrCaptureExtraction):
		return "Could not capture the image."
	case errors.Is(err, ErrLocationUnavailable):
		return "Could not get the location. Check the position provider."
	case errors.Is(err, ErrPersistenceWrite):
		return "Could not save: " + err.Error()
	default:
		return err.Error()
	}
}
