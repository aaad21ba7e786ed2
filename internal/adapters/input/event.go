// Package input carries remote input over the control channel and applies
// it on the sharing host.
package input

import (
	"fmt"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/vmihailenco/msgpack/v5"
)

type EventType uint8

const (
	EventPointerMove EventType = iota + 1
	EventPointerButton
	EventKey
	// EventGeometry is sent by the sharer when the channel opens.
	EventGeometry
)

func (t EventType) String() string {
	switch t {
	case EventPointerMove:
		return "pointer_move"
	case EventPointerButton:
		return "pointer_button"
	case EventKey:
		return "key"
	case EventGeometry:
		return "geometry"
	default:
		return "unknown"
	}
}

// Event is one control channel frame.
type Event struct {
	Type     EventType      `msgpack:"t"`
	X        int            `msgpack:"x,omitempty"`
	Y        int            `msgpack:"y,omitempty"`
	Down     bool           `msgpack:"d,omitempty"`
	Key      string         `msgpack:"k,omitempty"`
	Geometry *core.Geometry `msgpack:"g,omitempty"`
}

func PointerMove(x, y int) Event { return Event{Type: EventPointerMove, X: x, Y: y} }

func PointerButton(x, y int, down bool) Event {
	return Event{Type: EventPointerButton, X: x, Y: y, Down: down}
}

func Key(key string, down bool) Event { return Event{Type: EventKey, Key: key, Down: down} }

func GeometryEvent(g core.Geometry) Event { return Event{Type: EventGeometry, Geometry: &g} }

func Encode(ev Event) ([]byte, error) {
	data, err := msgpack.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	return data, nil
}

func Decode(data []byte) (Event, error) {
	var ev Event
	if err := msgpack.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode input event: %w", err)
	}
	switch ev.Type {
	case EventPointerMove, EventPointerButton, EventKey:
	case EventGeometry:
		if ev.Geometry == nil {
			return Event{}, fmt.Errorf("geometry event without geometry")
		}
	default:
		return Event{}, fmt.Errorf("unknown input event type %d", ev.Type)
	}
	return ev, nil
}
