package mm2k

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownSession    = errors.New("unknown session")
	ErrNotFailureSession = errors.New("session has no failure test")
	ErrAlreadyApplied    = errors.New("failure test already applied")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrSessionLocked     = errors.New("session is locked")
)
