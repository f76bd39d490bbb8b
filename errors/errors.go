package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrEmptySender      = fmt.Errorf("message sender is required")
	ErrEmptyBody        = fmt.Errorf("message body is required")
	ErrEmptyParticipant = fmt.Errorf("participant identity is required")
	ErrEmptyRoom        = fmt.Errorf("room identifier is required")
	ErrUnknownSession   = fmt.Errorf("session is not registered")
	ErrSessionLimit     = fmt.Errorf("maximum concurrent sessions reached")
)
