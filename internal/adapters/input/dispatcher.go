package input

import (
	"errors"
	"sync"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Dispatcher applies decoded events for one session. Missing injection
// support is reported once and then ignored so viewing keeps working.
type Dispatcher struct {
	adapter core.InputAdapter
	logger  zerolog.Logger
	warned  sync.Once
}

func NewDispatcher(adapter core.InputAdapter, room domain.RoomID) *Dispatcher {
	return &Dispatcher{
		adapter: adapter,
		logger:  log.With().Str("module", "input.dispatcher").Str("room_id", string(room)).Logger(),
	}
}

// HandleFrame decodes and applies one control frame.
func (d *Dispatcher) HandleFrame(data []byte) {
	ev, err := Decode(data)
	if err != nil {
		d.logger.Warn().Err(err).Msg("bad input frame")
		return
	}
	if err := d.Apply(ev); err != nil {
		d.logger.Warn().Err(err).Str("event", ev.Type.String()).Msg("input injection failed")
	}
}

func (d *Dispatcher) Apply(ev Event) error {
	var err error
	switch ev.Type {
	case EventPointerMove:
		err = d.adapter.InjectPointerMove(ev.X, ev.Y)
	case EventPointerButton:
		err = d.adapter.InjectPointerButton(ev.X, ev.Y, ev.Down)
	case EventKey:
		err = d.adapter.InjectKey(ev.Key, ev.Down)
	default:
		d.logger.Debug().Str("event", ev.Type.String()).Msg("ignoring event on sharer side")
		return nil
	}
	if errors.Is(err, domain.ErrInjectionUnavailable) {
		d.warned.Do(func() {
			d.logger.Warn().Msg("input injection unavailable on this host, remote input ignored")
		})
		return nil
	}
	return err
}
