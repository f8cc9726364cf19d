package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotRecording     = errors.New("not recording")
	ErrAlreadyRecording = errors.New("already recording")
	ErrNoDevice         = errors.New("no capture device selected")
	ErrNoAudio          = errors.New("no audio to transcribe")
	ErrModelMissing     = errors.New("model not downloaded")
	ErrNothingToCopy    = errors.New("no transcript to copy")
	ErrBusy             = errors.New("another operation is in progress")
	ErrClosed           = errors.New("session closed")
)

// PreconditionError is returned when an operation is rejected before any
// process is spawned. State is left unchanged apart from the status line.
type PreconditionError struct {
	Op     string
	Reason string
	Err    error
}

func (e *PreconditionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cannot %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cannot %s: %s", e.Op, e.Reason)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

func precondition(op string, err error, reason string) *PreconditionError {
	return &PreconditionError{Op: op, Reason: reason, Err: err}
}
