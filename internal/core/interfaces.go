package core

import (
	"context"

	"github.com/dkeye/ScreenShare/internal/domain"
)

// CaptureTarget selects what the capture adapter should capture.
type CaptureTarget struct {
	Display int `json:"display"`
}

// CaptureAdapter yields a media handle for a capture target. It fails with
// domain.ErrPermissionDenied or domain.ErrNoSourceAvailable.
type CaptureAdapter interface {
	AcquireCaptureSource(ctx context.Context, target CaptureTarget) (MediaHandle, error)
}

// Geometry describes the captured display.
type Geometry struct {
	Width       int     `msgpack:"w" json:"width"`
	Height      int     `msgpack:"h" json:"height"`
	ScaleFactor float64 `msgpack:"s" json:"scale_factor"`
}

// InputAdapter applies remote input to the local input subsystem. Every
// method fails with domain.ErrInjectionUnavailable when the host has no
// injection capability; callers treat that as non-fatal.
type InputAdapter interface {
	InjectPointerMove(x, y int) error
	InjectPointerButton(x, y int, down bool) error
	InjectKey(key string, down bool) error
	DisplayGeometry() (Geometry, error)
}

// RenderSink receives remote media once a session is connected and is told
// when that media goes away. It never sees partial states.
type RenderSink interface {
	Attach(room domain.RoomID, media MediaHandle)
	Detach(room domain.RoomID)
}
