package domain

import "errors"

// Resource-level errors. They are returned to the requester as-is and never retried.
var (
	ErrPermissionDenied     = errors.New("capture permission denied")
	ErrNoSourceAvailable    = errors.New("no capture source available")
	ErrInjectionUnavailable = errors.New("input injection unavailable")
)

var (
	ErrSessionClosed  = errors.New("session closed")
	ErrUnknownSession = errors.New("unknown session")
	ErrNotConnected   = errors.New("signaling not connected")
	ErrSelfSession    = errors.New("cannot open a session with yourself")
	ErrNoControl      = errors.New("control channel not open")
)
